package dashboard

import (
	"time"

	"github.com/dennisdiepolder/callboard/internal/types"
)

// Action is an input to the state machine
type Action interface {
	Name() string
}

// User actions

// Edit enters edit mode
type Edit struct{}

// ChangeValue sets the count of the failure reason at Index
type ChangeValue struct {
	Index int
	Value int
}

// Save opens the email surface for saving
type Save struct{}

// Load opens the email surface for loading
type Load struct{}

// CloseModal dismisses the email surface
type CloseModal struct{}

// SubmitEmail starts the save or load the open email surface is for
type SubmitEmail struct {
	Email string
}

// CancelEdit leaves edit mode, asking first when there are unsaved changes
type CancelEdit struct{}

// Confirm accepts the open confirmation overlay
type Confirm struct{}

// Cancel rejects the open confirmation overlay
type Cancel struct{}

// DismissToast hides the current notification
type DismissToast struct{}

// ExpireToasts hides the notification once At reaches its expiry
type ExpireToasts struct {
	At time.Time
}

// Remote results, dispatched by the Controller

// SaveLookupDone reports whether a record exists for the email being saved
type SaveLookupDone struct {
	Found bool
	Err   error
}

// SaveDone reports the result of the insert or update
type SaveDone struct {
	Err error
}

// LoadDone carries the fetched record or the lookup error
type LoadDone struct {
	Record *types.Record
	Err    error
}

func (Edit) Name() string           { return "edit" }
func (ChangeValue) Name() string    { return "change_value" }
func (Save) Name() string           { return "save" }
func (Load) Name() string           { return "load" }
func (CloseModal) Name() string     { return "close_modal" }
func (SubmitEmail) Name() string    { return "submit_email" }
func (CancelEdit) Name() string     { return "cancel_edit" }
func (Confirm) Name() string        { return "confirm" }
func (Cancel) Name() string         { return "cancel" }
func (DismissToast) Name() string   { return "dismiss_toast" }
func (ExpireToasts) Name() string   { return "expire_toasts" }
func (SaveLookupDone) Name() string { return "save_lookup_done" }
func (SaveDone) Name() string       { return "save_done" }
func (LoadDone) Name() string       { return "load_done" }

// EffectKind is the remote operation a transition asks for
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectLookup
	EffectInsert
	EffectUpdate
	EffectFetch
)

func (k EffectKind) String() string {
	switch k {
	case EffectLookup:
		return "lookup"
	case EffectInsert:
		return "insert"
	case EffectUpdate:
		return "update"
	case EffectFetch:
		return "fetch"
	default:
		return "none"
	}
}

// Effect is a remote call to run after a transition
type Effect struct {
	Kind  EffectKind
	Email string
	Data  types.ChartData
}

// ParseAction builds a user action from its wire name. Remote results cannot
// be constructed this way.
func ParseAction(name string, index, value int, email string) (Action, bool) {
	switch name {
	case "edit":
		return Edit{}, true
	case "change_value":
		return ChangeValue{Index: index, Value: value}, true
	case "save":
		return Save{}, true
	case "load":
		return Load{}, true
	case "close_modal":
		return CloseModal{}, true
	case "submit_email":
		return SubmitEmail{Email: email}, true
	case "cancel_edit":
		return CancelEdit{}, true
	case "confirm":
		return Confirm{}, true
	case "cancel":
		return Cancel{}, true
	case "dismiss_toast":
		return DismissToast{}, true
	default:
		return nil, false
	}
}
