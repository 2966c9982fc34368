package dashboard

import "github.com/dennisdiepolder/callboard/internal/types"

// View is the read-only projection of a session pushed to clients
type View struct {
	SessionID      string                `json:"sessionId"`
	Status         string                `json:"status"`
	Mode           Mode                  `json:"mode"`
	Unsaved        bool                  `json:"unsaved"`
	Busy           bool                  `json:"busy"`
	Phase          Phase                 `json:"phase"`
	Modal          Modal                 `json:"modal,omitempty"`
	PendingEmail   string                `json:"pendingEmail,omitempty"`
	ActiveEmail    string                `json:"activeEmail,omitempty"`
	FailureReasons []types.FailureReason `json:"failureReasons"`
	TotalFailures  int                   `json:"totalFailures"`
	Toast          *Toast                `json:"toast,omitempty"`
}

// Editing reports whether the failure inputs should be shown
func (v View) Editing() bool {
	return v.Mode == ModeEdit
}

// SaveModal reports whether the email surface is open for a save
func (v View) SaveModal() bool {
	return v.Modal == ModalSaveEmail
}

// EmailModal reports whether either email surface is open
func (v View) EmailModal() bool {
	return v.Modal == ModalSaveEmail || v.Modal == ModalLoadEmail
}

// ConfirmModal reports whether a confirmation overlay is open
func (v View) ConfirmModal() bool {
	return v.Modal == ModalConfirmOverwrite || v.Modal == ModalConfirmDiscard
}

// NewView projects s for session id
func NewView(id string, s State) View {
	s = s.clone()
	return View{
		SessionID:      id,
		Status:         s.Status(),
		Mode:           s.Mode,
		Unsaved:        s.Unsaved,
		Busy:           s.Busy(),
		Phase:          s.Phase,
		Modal:          s.Modal,
		PendingEmail:   s.PendingEmail,
		ActiveEmail:    s.ActiveEmail,
		FailureReasons: s.FailureReasons,
		TotalFailures:  types.TotalFailures(s.FailureReasons),
		Toast:          s.Toast,
	}
}
