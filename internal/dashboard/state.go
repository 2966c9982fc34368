// Package dashboard holds the failure-reason editing state machine.
//
// State is a plain value. Reduce applies an Action to a State and returns the
// next State plus at most one remote Effect; it never touches the record store
// or the clock. Controller owns one session's State, runs the effects against
// a storage.Store and feeds the results back through Reduce.
package dashboard

import (
	"time"

	"github.com/dennisdiepolder/callboard/internal/types"
)

// Mode is whether the failure reasons are editable
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// Phase tracks the single outstanding remote operation
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseSaving  Phase = "saving"
	PhaseLoading Phase = "loading"
)

// Modal is the overlay currently shown on top of the dashboard
type Modal string

const (
	ModalNone             Modal = ""
	ModalSaveEmail        Modal = "save_email"
	ModalLoadEmail        Modal = "load_email"
	ModalConfirmOverwrite Modal = "confirm_overwrite"
	ModalConfirmDiscard   Modal = "confirm_discard"
)

// ToastKind colors a notification
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Notification messages
const (
	MsgSaved      = "Data saved successfully!"
	MsgSaveFailed = "Failed to save data. Please try again."
	MsgLoaded     = "Data loaded successfully!"
	MsgNotFound   = "No data found for this email."
	MsgLoadFailed = "Failed to load data. Please try again."
)

// Toast is a transient notification
type Toast struct {
	Message   string    `json:"message"`
	Kind      ToastKind `json:"type"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// State is the complete UI state of one dashboard session
type State struct {
	Mode           Mode
	Unsaved        bool
	Phase          Phase
	Modal          Modal
	PendingEmail   string // email of the save/load in flight or awaiting overwrite confirmation
	ActiveEmail    string // last email saved to or loaded from
	FailureReasons []types.FailureReason
	Snapshot       []types.FailureReason // failure reasons as they were when edit mode began
	Toast          *Toast
}

// NewState returns the initial view-mode state for a dataset
func NewState(reasons []types.FailureReason) State {
	return State{
		Mode:           ModeView,
		Phase:          PhaseIdle,
		Modal:          ModalNone,
		FailureReasons: types.CloneFailureReasons(reasons),
	}
}

// Busy reports whether a remote call is outstanding
func (s State) Busy() bool {
	return s.Phase != PhaseIdle
}

// Status names the state machine node the session is in
func (s State) Status() string {
	switch {
	case s.Phase == PhaseSaving:
		return "SAVING"
	case s.Phase == PhaseLoading:
		return "LOADING"
	case s.Modal == ModalConfirmOverwrite:
		return "CONFIRM_OVERWRITE"
	case s.Modal == ModalConfirmDiscard:
		return "CONFIRM_DISCARD"
	case s.Mode == ModeEdit && s.Unsaved:
		return "EDIT_UNSAVED"
	case s.Mode == ModeEdit:
		return "EDIT"
	default:
		return "VIEW"
	}
}

// clone deep-copies the slices so reducers never share backing arrays
func (s State) clone() State {
	s.FailureReasons = types.CloneFailureReasons(s.FailureReasons)
	s.Snapshot = types.CloneFailureReasons(s.Snapshot)
	if s.Toast != nil {
		t := *s.Toast
		s.Toast = &t
	}
	return s
}
