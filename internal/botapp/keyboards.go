package botapp

import (
	tele "gopkg.in/telebot.v4"

	"github.com/olegsv/finkurs/core/telegram/keyboard"
	"github.com/olegsv/finkurs/internal/domain"
)

// Callback keys.
const (
	cbOperationKind = "op_kind"
	cbOpsCurrency   = "ops_cur"
)

// Reply-keyboard labels for /manage_currency.
const (
	btnAddCurrency    = "Add currency"
	btnDeleteCurrency = "Delete currency"
	btnUpdateRate     = "Update rate"
	btnCancelManage   = "Cancel"
)

func manageCurrencyKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{btnAddCurrency, btnDeleteCurrency},
		[]string{btnUpdateRate, btnCancelManage},
	)
}

func operationKindKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "Income", Unique: cbOperationKind, Data: string(domain.KindIncome)},
		{Text: "Expense", Unique: cbOperationKind, Data: string(domain.KindExpense)},
	})
}

func operationsCurrencyKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "RUB", Unique: cbOpsCurrency, Data: "RUB"},
		{Text: "USD", Unique: cbOpsCurrency, Data: "USD"},
		{Text: "EUR", Unique: cbOpsCurrency, Data: "EUR"},
	})
}
