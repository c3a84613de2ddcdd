package botapp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"

	"github.com/olegsv/finkurs/core/logger"
	tghelpers "github.com/olegsv/finkurs/core/telegram/helpers"
	"github.com/olegsv/finkurs/core/telegram/state"
	"github.com/olegsv/finkurs/internal/dialog"
	"github.com/olegsv/finkurs/internal/domain"
)

// CurrencyService is the slice of the currency client the bot needs.
type CurrencyService interface {
	List(ctx context.Context) ([]domain.Currency, error)
	Get(ctx context.Context, name string) (domain.Currency, error)
	Create(ctx context.Context, name string, rate decimal.Decimal) error
	UpdateRate(ctx context.Context, name string, rate decimal.Decimal) error
	Delete(ctx context.Context, name string) error
}

// RateService resolves live rates for the operations view.
type RateService interface {
	Rate(ctx context.Context, currency string) (decimal.Decimal, error)
}

// RoleService resolves and assigns user roles.
type RoleService interface {
	Check(ctx context.Context, userID int64) (domain.Role, error)
	Set(ctx context.Context, userID int64, role domain.Role) error
}

// UserStore persists registrations.
type UserStore interface {
	Create(ctx context.Context, name string, chatID int64) error
	GetByChatID(ctx context.Context, chatID int64) (domain.User, error)
}

// OperationStore persists income and expense records.
type OperationStore interface {
	Create(ctx context.Context, op domain.Operation) error
	ListByChat(ctx context.Context, chatID int64) ([]domain.Operation, error)
	CountByChat(ctx context.Context, chatID int64) (int, error)
}

// engine drives conversations: it reads the session, advances the pure
// state machine, runs the requested effect, and commits the next session.
type engine struct {
	sessions   state.Manager
	currencies CurrencyService
	users      UserStore
	operations OperationStore
}

// InProgress reports whether the chat has an open dialog flow.
func (e *engine) InProgress(ctx context.Context, chatID int64) bool {
	sess, err := e.sessions.Get(ctx, chatID)
	if err != nil {
		logger.TG.Warn("session read failed",
			slog.String("event", "dialog.session"),
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return sess.Open()
}

// HandleText feeds one inbound text message into the open flow.
func (e *engine) HandleText(c tele.Context) error {
	return e.step(c, dialog.Classify(c.Text()))
}

// step advances the machine with an already classified input.
func (e *engine) step(c tele.Context, in dialog.Input) error {
	ctx := tghelpers.BuildContext(c)
	chatID := c.Chat().ID

	sess, err := e.sessions.Get(ctx, chatID)
	if err != nil {
		return tghelpers.SendText(c, msgServiceDown)
	}

	out := dialog.Step(sess, in)
	if out.Effect != nil {
		return e.runEffect(ctx, c, chatID, sess, out)
	}
	if err := e.commit(ctx, chatID, sess, out.Next); err != nil {
		return tghelpers.SendText(c, msgServiceDown)
	}
	if text := promptText(out); text != "" {
		return tghelpers.SendText(c, text)
	}
	return nil
}

// begin replaces whatever flow is open with a fresh one (last-writer-wins)
// and sends the opening prompt.
func (e *engine) begin(c tele.Context, sess state.Session, prompt string) error {
	ctx := tghelpers.BuildContext(c)
	if err := e.sessions.Set(ctx, c.Chat().ID, sess); err != nil {
		return tghelpers.SendText(c, msgServiceDown)
	}
	return tghelpers.SendText(c, prompt)
}

// commit persists the post-step session: open sessions are written back,
// closed ones are deleted.
func (e *engine) commit(ctx context.Context, chatID int64, prev state.Session, next state.Session) error {
	if next.Open() {
		return e.sessions.Set(ctx, chatID, next)
	}
	if prev.Open() {
		return e.sessions.Clear(ctx, chatID)
	}
	return nil
}

// runEffect executes the single side effect a step requested. On a
// service failure the stored session is left untouched so the user can
// retry the same step.
func (e *engine) runEffect(ctx context.Context, c tele.Context, chatID int64, prev state.Session, out dialog.Outcome) error {
	eff := out.Effect
	switch eff.Kind {
	case dialog.EffectCheckCurrencyFree:
		name := eff.Field(dialog.FieldCurrency)
		_, err := e.currencies.Get(ctx, name)
		switch {
		case err == nil:
			if cerr := e.sessions.Clear(ctx, chatID); cerr != nil {
				return tghelpers.SendText(c, msgServiceDown)
			}
			return tghelpers.SendText(c, msgCurrencyExists)
		case domain.IsKind(err, domain.KindNotFound):
			if serr := e.sessions.Set(ctx, chatID, out.Next); serr != nil {
				return tghelpers.SendText(c, msgServiceDown)
			}
			return tghelpers.SendText(c, promptText(out))
		default:
			return tghelpers.SendText(c, msgServiceDown)
		}

	case dialog.EffectPersistCurrency:
		name := eff.Field(dialog.FieldCurrency)
		rate, perr := decimal.NewFromString(eff.Field(dialog.FieldRate))
		if perr != nil {
			return e.finish(ctx, c, chatID, msgServiceDown)
		}
		err := e.currencies.Create(ctx, name, rate)
		switch {
		case err == nil:
			return e.finish(ctx, c, chatID, fmt.Sprintf(msgCurrencySaved, name, rate.String()))
		case domain.IsKind(err, domain.KindConflict):
			return e.finish(ctx, c, chatID, msgCurrencyExists)
		default:
			return tghelpers.SendText(c, msgServiceDown)
		}

	case dialog.EffectDeleteCurrency:
		name := eff.Field(dialog.FieldCurrency)
		err := e.currencies.Delete(ctx, name)
		switch {
		case err == nil:
			return e.finish(ctx, c, chatID, fmt.Sprintf(msgCurrencyDeleted, name))
		case domain.IsKind(err, domain.KindNotFound):
			return e.finish(ctx, c, chatID, msgCurrencyNotFound)
		default:
			return tghelpers.SendText(c, msgServiceDown)
		}

	case dialog.EffectUpdateCurrency:
		name := eff.Field(dialog.FieldCurrency)
		rate, perr := decimal.NewFromString(eff.Field(dialog.FieldRate))
		if perr != nil {
			return e.finish(ctx, c, chatID, msgServiceDown)
		}
		err := e.currencies.UpdateRate(ctx, name, rate)
		switch {
		case err == nil:
			return e.finish(ctx, c, chatID, fmt.Sprintf(msgCurrencyUpdated, name, rate.String()))
		case domain.IsKind(err, domain.KindNotFound):
			return e.finish(ctx, c, chatID, msgCurrencyNotFound)
		default:
			return tghelpers.SendText(c, msgServiceDown)
		}

	case dialog.EffectConvertAmount:
		name := eff.Field(dialog.FieldCurrency)
		rate, rerr := decimal.NewFromString(eff.Field(dialog.FieldRate))
		amount, aerr := decimal.NewFromString(eff.Field(dialog.FieldAmount))
		if rerr != nil || aerr != nil || !rate.IsPositive() {
			return e.finish(ctx, c, chatID, msgServiceDown)
		}
		return e.finish(ctx, c, chatID, formatConvertResult(name, amount, rate))

	case dialog.EffectRegisterUser:
		username := eff.Field(dialog.FieldUsername)
		err := e.users.Create(ctx, username, chatID)
		switch {
		case err == nil:
			return e.finish(ctx, c, chatID, fmt.Sprintf(msgRegistered, username))
		case domain.IsKind(err, domain.KindConflict):
			return e.finish(ctx, c, chatID, msgAlreadyRegistered)
		default:
			return tghelpers.SendText(c, msgServiceDown)
		}

	case dialog.EffectRecordOperation:
		amount, aerr := decimal.NewFromString(eff.Field(dialog.FieldAmount))
		date, derr := dialog.ParseOperationDate(eff.Field(dialog.FieldDate))
		kind := domain.OperationKind(eff.Field(dialog.FieldKind))
		if aerr != nil || derr != nil || !kind.Valid() {
			return e.finish(ctx, c, chatID, msgServiceDown)
		}
		err := e.operations.Create(ctx, domain.Operation{
			OccurredOn: date,
			Amount:     amount,
			ChatID:     chatID,
			Kind:       kind,
		})
		switch {
		case err == nil:
			return e.finish(ctx, c, chatID,
				fmt.Sprintf(msgOperationSaved, string(kind), amount.String(), date.Format(dialog.OperationDateLayout)))
		case domain.IsKind(err, domain.KindNotFound):
			return e.finish(ctx, c, chatID, msgNotRegistered)
		default:
			return tghelpers.SendText(c, msgServiceDown)
		}
	}

	logger.TG.Warn("unhandled effect",
		slog.String("event", "dialog.effect"),
		slog.String("op", string(eff.Kind)),
	)
	return e.finish(ctx, c, chatID, msgServiceDown)
}

// finish clears the session and sends the terminal reply.
func (e *engine) finish(ctx context.Context, c tele.Context, chatID int64, text string) error {
	if err := e.sessions.Clear(ctx, chatID); err != nil {
		return tghelpers.SendText(c, msgServiceDown)
	}
	return tghelpers.SendText(c, text)
}

// promptText renders a prompt class against the post-step session bag.
func promptText(out dialog.Outcome) string {
	switch out.Prompt {
	case dialog.PromptAskRate:
		return fmt.Sprintf(msgAskRate, out.Next.Field(dialog.FieldCurrency))
	case dialog.PromptAskNewRate:
		return fmt.Sprintf(msgAskNewRate, out.Next.Field(dialog.FieldCurrency))
	case dialog.PromptAskAmount:
		return fmt.Sprintf(msgAskConvertAmount, out.Next.Field(dialog.FieldCurrency))
	case dialog.PromptAskDate:
		return msgAskOperationDate
	case dialog.PromptRetryNumber:
		return msgRetryNumber
	case dialog.PromptRetryDate:
		return msgRetryDate
	case dialog.PromptRetryEmpty:
		return msgRetryEmpty
	case dialog.PromptUnknownChoice:
		return fmt.Sprintf(msgUnknownChoicePfx, strings.Join(dialog.ChoiceNames(out.Next), ", "))
	case dialog.PromptCancelled:
		return msgCancelled
	case dialog.PromptCancelNoop:
		return msgCancelNoop
	}
	return ""
}
