package botapp

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/olegsv/finkurs/internal/domain"
)

// formatCurrencies renders the saved currency list, one per line.
func formatCurrencies(currencies []domain.Currency) string {
	if len(currencies) == 0 {
		return msgNoCurrencies
	}
	var b strings.Builder
	b.WriteString("Saved currencies:\n")
	for _, c := range currencies {
		fmt.Fprintf(&b, "%s — %s RUB\n", c.Name, c.Rate.StringFixed(2))
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatOperations renders the operation history. Amounts are stored in
// rubles; a non-RUB view divides by the given rate with 2-dp rounding.
func formatOperations(ops []domain.Operation, currency string, rate decimal.Decimal) string {
	if len(ops) == 0 {
		return msgNoOperations
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Your operations (%s):\n", currency)
	for _, op := range ops {
		amount := op.Amount
		if !rate.Equal(decimal.NewFromInt(1)) {
			amount = amount.DivRound(rate, 2)
		}
		sign := "+"
		if op.Kind == domain.KindExpense {
			sign = "-"
		}
		fmt.Fprintf(&b, "%s  %s%s %s\n",
			op.OccurredOn.Format("02.01.2006"), sign, amount.StringFixed(2), currency)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatProfile renders the personal cabinet view.
func formatProfile(u domain.User, operationCount int) string {
	return fmt.Sprintf("Name: %s\nRegistered on: %s\nOperations recorded: %d",
		u.Name, u.RegisteredOn.Format("02.01.2006"), operationCount)
}

// formatConvertResult renders the conversion reply with 2-dp rounding.
func formatConvertResult(currency string, amount, rate decimal.Decimal) string {
	converted := amount.Mul(rate).Round(2)
	return fmt.Sprintf(msgConvertResult, amount.String(), currency, converted.StringFixed(2))
}
