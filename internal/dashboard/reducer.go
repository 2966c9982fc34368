package dashboard

import (
	"errors"
	"strings"

	"github.com/dennisdiepolder/callboard/internal/storage"
	"github.com/dennisdiepolder/callboard/internal/types"
)

var noEffect = Effect{Kind: EffectNone}

// Reduce applies action to s. Actions that are not valid in the current state
// return s unchanged. The returned State never shares slices with s.
func Reduce(s State, action Action) (State, Effect) {
	next := s.clone()

	switch a := action.(type) {
	case Edit:
		if next.Mode != ModeView || next.Busy() || next.Modal != ModalNone {
			return next, noEffect
		}
		next.Mode = ModeEdit
		next.Unsaved = false
		next.Snapshot = types.CloneFailureReasons(next.FailureReasons)

	case ChangeValue:
		if next.Mode != ModeEdit || next.Busy() || next.Modal != ModalNone {
			return next, noEffect
		}
		if a.Index < 0 || a.Index >= len(next.FailureReasons) {
			return next, noEffect
		}
		value := a.Value
		if value < 0 {
			value = 0
		}
		next.FailureReasons[a.Index].Value = value
		next.Unsaved = true

	case Save:
		if next.Mode != ModeEdit || next.Busy() || next.Modal != ModalNone {
			return next, noEffect
		}
		next.Modal = ModalSaveEmail

	case Load:
		if next.Busy() || next.Modal != ModalNone {
			return next, noEffect
		}
		next.Modal = ModalLoadEmail

	case CloseModal:
		if next.Busy() || (next.Modal != ModalSaveEmail && next.Modal != ModalLoadEmail) {
			return next, noEffect
		}
		next.Modal = ModalNone
		next.PendingEmail = ""

	case SubmitEmail:
		email := strings.TrimSpace(a.Email)
		if email == "" || next.Busy() {
			return next, noEffect
		}
		switch next.Modal {
		case ModalSaveEmail:
			next.Phase = PhaseSaving
			next.PendingEmail = email
			return next, Effect{Kind: EffectLookup, Email: email}
		case ModalLoadEmail:
			next.Phase = PhaseLoading
			next.PendingEmail = email
			return next, Effect{Kind: EffectFetch, Email: email}
		}

	case SaveLookupDone:
		if next.Phase != PhaseSaving {
			return next, noEffect
		}
		switch {
		case a.Err != nil:
			return saveFailed(next), noEffect
		case a.Found:
			next.Phase = PhaseIdle
			next.Modal = ModalConfirmOverwrite
		default:
			return next, Effect{Kind: EffectInsert, Email: next.PendingEmail, Data: chartData(next)}
		}

	case SaveDone:
		if next.Phase != PhaseSaving {
			return next, noEffect
		}
		if a.Err != nil {
			return saveFailed(next), noEffect
		}
		next.Phase = PhaseIdle
		next.Mode = ModeView
		next.Unsaved = false
		next.Modal = ModalNone
		next.ActiveEmail = next.PendingEmail
		next.PendingEmail = ""
		next.Snapshot = nil
		next.Toast = &Toast{Message: MsgSaved, Kind: ToastSuccess}

	case LoadDone:
		if next.Phase != PhaseLoading {
			return next, noEffect
		}
		next.Phase = PhaseIdle
		switch {
		case errors.Is(a.Err, storage.ErrNotFound):
			next.Toast = &Toast{Message: MsgNotFound, Kind: ToastError}
		case a.Err != nil, a.Record == nil, !a.Record.ChartData.Valid():
			next.Toast = &Toast{Message: MsgLoadFailed, Kind: ToastError}
		default:
			next.FailureReasons = types.CloneFailureReasons(a.Record.ChartData.FailureReasons)
			next.ActiveEmail = next.PendingEmail
			next.PendingEmail = ""
			next.Mode = ModeView
			next.Unsaved = false
			next.Snapshot = nil
			next.Modal = ModalNone
			next.Toast = &Toast{Message: MsgLoaded, Kind: ToastSuccess}
		}

	case CancelEdit:
		if next.Mode != ModeEdit || next.Busy() || next.Modal != ModalNone {
			return next, noEffect
		}
		if next.Unsaved {
			next.Modal = ModalConfirmDiscard
			return next, noEffect
		}
		return discard(next), noEffect

	case Confirm:
		if next.Busy() {
			return next, noEffect
		}
		switch next.Modal {
		case ModalConfirmOverwrite:
			next.Phase = PhaseSaving
			next.Modal = ModalSaveEmail
			return next, Effect{Kind: EffectUpdate, Email: next.PendingEmail, Data: chartData(next)}
		case ModalConfirmDiscard:
			return discard(next), noEffect
		}

	case Cancel:
		if next.Busy() {
			return next, noEffect
		}
		switch next.Modal {
		case ModalConfirmOverwrite:
			next.Modal = ModalNone
			next.PendingEmail = ""
		case ModalConfirmDiscard:
			next.Modal = ModalNone
		}

	case DismissToast:
		next.Toast = nil

	case ExpireToasts:
		if next.Toast != nil && !next.Toast.ExpiresAt.IsZero() && !a.At.Before(next.Toast.ExpiresAt) {
			next.Toast = nil
		}
	}

	return next, noEffect
}

// saveFailed returns to edit mode with the save surface open for a retry
func saveFailed(s State) State {
	s.Phase = PhaseIdle
	s.Mode = ModeEdit
	s.Unsaved = true
	s.Modal = ModalSaveEmail
	s.Toast = &Toast{Message: MsgSaveFailed, Kind: ToastError}
	return s
}

// discard leaves edit mode and restores the pre-edit dataset
func discard(s State) State {
	if s.Snapshot != nil {
		s.FailureReasons = s.Snapshot
	}
	s.Snapshot = nil
	s.Mode = ModeView
	s.Unsaved = false
	s.Modal = ModalNone
	return s
}

func chartData(s State) types.ChartData {
	return types.ChartData{FailureReasons: types.CloneFailureReasons(s.FailureReasons)}
}
