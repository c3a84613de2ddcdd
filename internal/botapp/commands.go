package botapp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"

	"github.com/olegsv/finkurs/core/telegram/callbacks"
	tghelpers "github.com/olegsv/finkurs/core/telegram/helpers"
	"github.com/olegsv/finkurs/core/telegram/keyboard"
	"github.com/olegsv/finkurs/internal/dialog"
	"github.com/olegsv/finkurs/internal/domain"
)

func (a *App) handleStart(c tele.Context) error {
	return tghelpers.SendText(c, msgStart)
}

func (a *App) handleGetCurrencies(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	currencies, err := a.currencies.List(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgServiceDown)
	}
	return tghelpers.SendText(c, formatCurrencies(currencies))
}

func (a *App) handleConvert(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	currencies, err := a.currencies.List(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgServiceDown)
	}
	if len(currencies) == 0 {
		return tghelpers.SendText(c, msgNoCurrencies)
	}
	sess := dialog.BeginConvert(currencies)
	prompt := fmt.Sprintf(msgChooseConvertPfx, strings.Join(dialog.ChoiceNames(sess), ", "))
	return a.engine.begin(c, sess, prompt)
}

func (a *App) handleSaveCurrency(c tele.Context) error {
	return a.engine.begin(c, dialog.BeginSaveCurrency(), msgAskCurrencyName)
}

func (a *App) handleManageCurrency(c tele.Context) error {
	return tghelpers.SendText(c, msgManageCurrency,
		&tele.SendOptions{ReplyMarkup: manageCurrencyKeyboard()})
}

// handleManageButton is the text fallback: it receives the reply-keyboard
// labels sent by /manage_currency. Everything else is an unknown request.
func (a *App) handleManageButton(c tele.Context) error {
	switch c.Text() {
	case btnAddCurrency, btnDeleteCurrency, btnUpdateRate:
	case btnCancelManage:
		return tghelpers.SendText(c, msgCancelled,
			&tele.SendOptions{ReplyMarkup: keyboard.RemoveKeyboard()})
	default:
		return tghelpers.SendText(c, msgUnknownRequest)
	}

	// The labels reach here as plain text, outside the admin-gated command
	// routes, so the role check is repeated.
	if !a.isAdmin(c) {
		return tghelpers.SendText(c, msgAccessDenied)
	}

	if c.Text() == btnAddCurrency {
		return a.engine.begin(c, dialog.BeginSaveCurrency(), msgAskCurrencyName)
	}

	ctx := tghelpers.BuildContext(c)
	currencies, err := a.currencies.List(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgServiceDown)
	}
	if len(currencies) == 0 {
		return tghelpers.SendText(c, msgNoCurrencies)
	}

	switch c.Text() {
	case btnDeleteCurrency:
		sess := dialog.BeginDeleteCurrency(currencies)
		prompt := msgAskCurrencyToDel + fmt.Sprintf(msgChoicesSuffixPfx, strings.Join(dialog.ChoiceNames(sess), ", "))
		return a.engine.begin(c, sess, prompt)
	default:
		sess := dialog.BeginUpdateRate(currencies)
		prompt := msgAskCurrencyToUpd + fmt.Sprintf(msgChoicesSuffixPfx, strings.Join(dialog.ChoiceNames(sess), ", "))
		return a.engine.begin(c, sess, prompt)
	}
}

func (a *App) handleSetRole(c tele.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return tghelpers.SendText(c, msgSetRoleUsage)
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || userID <= 0 {
		return tghelpers.SendText(c, msgSetRoleUsage)
	}
	role, ok := domain.ParseRole(args[1])
	if !ok {
		return tghelpers.SendText(c, msgSetRoleUsage)
	}
	ctx := tghelpers.BuildContext(c)
	if err := a.roles.Set(ctx, userID, role); err != nil {
		return tghelpers.SendText(c, msgServiceDown)
	}
	return tghelpers.SendText(c, fmt.Sprintf(msgRoleSet, string(role), userID))
}

func (a *App) handleRegister(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	_, err := a.users.GetByChatID(ctx, c.Chat().ID)
	switch {
	case err == nil:
		return tghelpers.SendText(c, msgAlreadyRegistered)
	case domain.IsKind(err, domain.KindNotFound):
		return a.engine.begin(c, dialog.BeginRegister(), msgAskUsername)
	default:
		return tghelpers.SendText(c, msgServiceDown)
	}
}

func (a *App) handleAddOperation(c tele.Context) error {
	if !a.requireRegistered(c) {
		return nil
	}
	return tghelpers.SendText(c, msgChooseOpKind,
		&tele.SendOptions{ReplyMarkup: operationKindKeyboard()})
}

func (a *App) handleOperations(c tele.Context) error {
	if !a.requireRegistered(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	ops, err := a.operations.ListByChat(ctx, c.Chat().ID)
	if err != nil {
		return tghelpers.SendText(c, msgServiceDown)
	}
	if len(ops) == 0 {
		return tghelpers.SendText(c, msgNoOperations)
	}
	return tghelpers.SendText(c, msgChooseOpsCurrency,
		&tele.SendOptions{ReplyMarkup: operationsCurrencyKeyboard()})
}

func (a *App) handleProfile(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user, err := a.users.GetByChatID(ctx, c.Chat().ID)
	switch {
	case domain.IsKind(err, domain.KindNotFound):
		return tghelpers.SendText(c, msgNotRegistered)
	case err != nil:
		return tghelpers.SendText(c, msgServiceDown)
	}
	count, err := a.operations.CountByChat(ctx, c.Chat().ID)
	if err != nil {
		return tghelpers.SendText(c, msgServiceDown)
	}
	return tghelpers.SendText(c, formatProfile(user, count))
}

func (a *App) handleCancel(c tele.Context) error {
	return a.engine.step(c, dialog.Command("/cancel"))
}

// handleOperationKind consumes the income/expense inline button and opens
// the record-operation flow.
func (a *App) handleOperationKind(c tele.Context) error {
	kind := domain.OperationKind(callbacks.CallbackPayload(c))
	if !kind.Valid() {
		return tghelpers.SendText(c, msgUnknownRequest)
	}
	// The button may be pressed long after /add_operation; re-check.
	if !a.requireRegistered(c) {
		return nil
	}
	return a.engine.begin(c, dialog.BeginOperation(kind), msgAskOperationSum)
}

// handleOperationsCurrency renders the operation history in the chosen
// currency. Non-ruble amounts are divided by the live rate.
func (a *App) handleOperationsCurrency(c tele.Context) error {
	currency := domain.NormalizeCurrencyName(callbacks.CallbackPayload(c))
	if !a.requireRegistered(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	ops, err := a.operations.ListByChat(ctx, c.Chat().ID)
	if err != nil {
		return tghelpers.SendText(c, msgServiceDown)
	}

	rate := decimal.NewFromInt(1)
	if currency != "RUB" {
		rate, err = a.rates.Rate(ctx, currency)
		if err != nil {
			return tghelpers.SendText(c, msgServiceDown)
		}
	}
	return tghelpers.SendText(c, formatOperations(ops, currency, rate))
}

func (a *App) requireRegistered(c tele.Context) bool {
	ctx := tghelpers.BuildContext(c)
	_, err := a.users.GetByChatID(ctx, c.Chat().ID)
	switch {
	case err == nil:
		return true
	case domain.IsKind(err, domain.KindNotFound):
		_ = tghelpers.SendText(c, msgNotRegistered)
	default:
		_ = tghelpers.SendText(c, msgServiceDown)
	}
	return false
}

// isAdmin mirrors the admin middleware for paths outside the command
// routes. The static admin always passes; lookup failures deny.
func (a *App) isAdmin(c tele.Context) bool {
	userID := c.Sender().ID
	if a.cfg.Telegram.AdminID != 0 && userID == a.cfg.Telegram.AdminID {
		return true
	}
	ctx := tghelpers.BuildContext(c)
	role, err := a.roles.Check(ctx, userID)
	return err == nil && role == domain.RoleAdmin
}
