package dialog

import (
	"strings"

	"github.com/olegsv/finkurs/core/telegram/state"
	"github.com/olegsv/finkurs/internal/domain"
)

// Prompt classifies the reply a step asks the transport to send. Formatting
// happens at the boundary; the session bag carries the data the text needs.
type Prompt string

const (
	// PromptNone means the effect result (or nothing) is the whole reply.
	PromptNone Prompt = ""
	// PromptAskRate asks for the rate of the currency held in the bag.
	PromptAskRate Prompt = "ask_rate"
	// PromptAskNewRate asks for a replacement rate.
	PromptAskNewRate Prompt = "ask_new_rate"
	// PromptAskAmount asks for the amount to convert.
	PromptAskAmount Prompt = "ask_amount"
	// PromptAskDate asks for the operation date.
	PromptAskDate Prompt = "ask_date"
	// PromptRetryNumber re-asks after a non-numeric or non-positive amount.
	PromptRetryNumber Prompt = "retry_number"
	// PromptRetryDate re-asks after a malformed date.
	PromptRetryDate Prompt = "retry_date"
	// PromptRetryEmpty re-asks after blank input where text is required.
	PromptRetryEmpty Prompt = "retry_empty"
	// PromptUnknownChoice re-asks listing the valid currency names.
	PromptUnknownChoice Prompt = "unknown_choice"
	// PromptCancelled acknowledges an aborted flow.
	PromptCancelled Prompt = "cancelled"
	// PromptCancelNoop acknowledges cancel with nothing open.
	PromptCancelNoop Prompt = "cancel_noop"
)

// Outcome is the result of one state machine step: the replacement session,
// at most one effect request, and the reply class.
type Outcome struct {
	Next   state.Session
	Effect *Effect
	Prompt Prompt
}

var closed = state.Session{State: state.StateNone}

// Flow entry points. Guard checks (admin role, registration, non-empty
// currency list) happen before these are called.

// BeginSaveCurrency opens the add-currency flow.
func BeginSaveCurrency() state.Session {
	return state.Session{State: StateAwaitingCurrencyName}
}

// BeginDeleteCurrency opens the delete flow with the currently known names.
func BeginDeleteCurrency(currencies []domain.Currency) state.Session {
	return state.Session{State: StateAwaitingCurrencyToDelete}.
		With(FieldChoices, EncodeChoices(currencies))
}

// BeginUpdateRate opens the change-rate flow with the currently known names.
func BeginUpdateRate(currencies []domain.Currency) state.Session {
	return state.Session{State: StateAwaitingCurrencyToUpdate}.
		With(FieldChoices, EncodeChoices(currencies))
}

// BeginConvert opens the conversion flow. Rates are snapshotted into the bag
// here; a rate change mid-flow is not observed.
func BeginConvert(currencies []domain.Currency) state.Session {
	return state.Session{State: StateAwaitingCurrencyChoice}.
		With(FieldChoices, EncodeChoices(currencies))
}

// BeginRegister opens the registration flow.
func BeginRegister() state.Session {
	return state.Session{State: StateAwaitingUsername}
}

// BeginOperation opens the record-operation flow after the out-of-band kind
// selection.
func BeginOperation(kind domain.OperationKind) state.Session {
	return state.Session{State: StateAwaitingOperationAmount}.
		With(FieldKind, string(kind))
}

// Step advances the machine. It is a pure, total function: every (state,
// input) pair yields either a transition or an explicit re-prompt that leaves
// the session untouched. Effects are requests; the caller runs them.
func Step(sess state.Session, in Input) Outcome {
	if !sess.Open() {
		if IsCancel(in) {
			return Outcome{Next: closed, Prompt: PromptCancelNoop}
		}
		return Outcome{Next: sess}
	}
	if IsCancel(in) {
		return Outcome{Next: closed, Prompt: PromptCancelled}
	}

	switch sess.State {
	case StateAwaitingCurrencyName:
		name := domain.NormalizeCurrencyName(in.Value)
		if name == "" {
			return Outcome{Next: sess, Prompt: PromptRetryEmpty}
		}
		next := sess.With(FieldCurrency, name).Next(StateAwaitingCurrencyRate)
		return Outcome{
			Next:   next,
			Effect: &Effect{Kind: EffectCheckCurrencyFree, Fields: next.Fields},
			Prompt: PromptAskRate,
		}

	case StateAwaitingCurrencyRate:
		rate, err := ParseAmount(in.Value)
		if err != nil {
			return Outcome{Next: sess, Prompt: PromptRetryNumber}
		}
		done := sess.With(FieldRate, rate.String())
		return Outcome{
			Next:   closed,
			Effect: &Effect{Kind: EffectPersistCurrency, Fields: done.Fields},
		}

	case StateAwaitingCurrencyToDelete:
		name := domain.NormalizeCurrencyName(in.Value)
		if _, ok := lookupChoice(sess, name); !ok {
			return Outcome{Next: sess, Prompt: PromptUnknownChoice}
		}
		done := sess.With(FieldCurrency, name)
		return Outcome{
			Next:   closed,
			Effect: &Effect{Kind: EffectDeleteCurrency, Fields: done.Fields},
		}

	case StateAwaitingCurrencyToUpdate:
		name := domain.NormalizeCurrencyName(in.Value)
		if _, ok := lookupChoice(sess, name); !ok {
			return Outcome{Next: sess, Prompt: PromptUnknownChoice}
		}
		return Outcome{
			Next:   sess.With(FieldCurrency, name).Next(StateAwaitingNewRate),
			Prompt: PromptAskNewRate,
		}

	case StateAwaitingNewRate:
		rate, err := ParseAmount(in.Value)
		if err != nil {
			return Outcome{Next: sess, Prompt: PromptRetryNumber}
		}
		done := sess.With(FieldRate, rate.String())
		return Outcome{
			Next:   closed,
			Effect: &Effect{Kind: EffectUpdateCurrency, Fields: done.Fields},
		}

	case StateAwaitingCurrencyChoice:
		name := domain.NormalizeCurrencyName(in.Value)
		choice, ok := lookupChoice(sess, name)
		if !ok {
			return Outcome{Next: sess, Prompt: PromptUnknownChoice}
		}
		next := sess.
			With(FieldCurrency, choice.Name).
			With(FieldRate, choice.Rate.String()).
			Next(StateAwaitingConvertAmount)
		return Outcome{Next: next, Prompt: PromptAskAmount}

	case StateAwaitingConvertAmount:
		amount, err := ParseAmount(in.Value)
		if err != nil {
			return Outcome{Next: sess, Prompt: PromptRetryNumber}
		}
		done := sess.With(FieldAmount, amount.String())
		return Outcome{
			Next:   closed,
			Effect: &Effect{Kind: EffectConvertAmount, Fields: done.Fields},
		}

	case StateAwaitingUsername:
		username := strings.TrimSpace(in.Value)
		if username == "" {
			return Outcome{Next: sess, Prompt: PromptRetryEmpty}
		}
		done := sess.With(FieldUsername, username)
		return Outcome{
			Next:   closed,
			Effect: &Effect{Kind: EffectRegisterUser, Fields: done.Fields},
		}

	case StateAwaitingOperationAmount:
		amount, err := ParseAmount(in.Value)
		if err != nil {
			return Outcome{Next: sess, Prompt: PromptRetryNumber}
		}
		return Outcome{
			Next:   sess.With(FieldAmount, amount.String()).Next(StateAwaitingOperationDate),
			Prompt: PromptAskDate,
		}

	case StateAwaitingOperationDate:
		date, err := ParseOperationDate(in.Value)
		if err != nil {
			return Outcome{Next: sess, Prompt: PromptRetryDate}
		}
		done := sess.With(FieldDate, date.Format(OperationDateLayout))
		return Outcome{
			Next:   closed,
			Effect: &Effect{Kind: EffectRecordOperation, Fields: done.Fields},
		}
	}

	// Unknown state tag, e.g. a stale record from an older build. Abort the
	// flow rather than trap the user in it.
	return Outcome{Next: closed, Prompt: PromptCancelled}
}
