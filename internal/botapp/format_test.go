package botapp

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegsv/finkurs/internal/domain"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("02.01.2006", s)
	require.NoError(t, err)
	return d
}

func TestFormatCurrencies(t *testing.T) {
	got := formatCurrencies([]domain.Currency{
		{Name: "EUR", Rate: dec(t, "89.71")},
		{Name: "USD", Rate: dec(t, "79.6")},
	})
	assert.Equal(t, "Saved currencies:\nEUR — 89.71 RUB\nUSD — 79.60 RUB", got)
}

func TestFormatCurrenciesEmpty(t *testing.T) {
	assert.Equal(t, msgNoCurrencies, formatCurrencies(nil))
}

func TestFormatOperationsInRubles(t *testing.T) {
	ops := []domain.Operation{
		{OccurredOn: date(t, "15.03.2026"), Amount: dec(t, "1500"), Kind: domain.KindIncome},
		{OccurredOn: date(t, "14.03.2026"), Amount: dec(t, "250.5"), Kind: domain.KindExpense},
	}
	got := formatOperations(ops, "RUB", decimal.NewFromInt(1))
	assert.Equal(t,
		"Your operations (RUB):\n15.03.2026  +1500.00 RUB\n14.03.2026  -250.50 RUB",
		got)
}

func TestFormatOperationsDividesByRate(t *testing.T) {
	ops := []domain.Operation{
		{OccurredOn: date(t, "01.02.2026"), Amount: dec(t, "796"), Kind: domain.KindIncome},
	}
	got := formatOperations(ops, "USD", dec(t, "79.6"))
	assert.Contains(t, got, "+10.00 USD")
}

func TestFormatOperationsRoundsHalfwayUp(t *testing.T) {
	ops := []domain.Operation{
		{OccurredOn: date(t, "01.02.2026"), Amount: dec(t, "100"), Kind: domain.KindExpense},
	}
	// 100 / 89.71 = 1.1147... -> 1.11
	got := formatOperations(ops, "EUR", dec(t, "89.71"))
	assert.Contains(t, got, "-1.11 EUR")
}

func TestFormatOperationsEmpty(t *testing.T) {
	assert.Equal(t, msgNoOperations, formatOperations(nil, "RUB", decimal.NewFromInt(1)))
}

func TestFormatProfile(t *testing.T) {
	u := domain.User{Name: "alex", RegisteredOn: date(t, "10.01.2026")}
	got := formatProfile(u, 7)
	assert.Equal(t, "Name: alex\nRegistered on: 10.01.2026\nOperations recorded: 7", got)
}

func TestFormatConvertResult(t *testing.T) {
	got := formatConvertResult("USD", dec(t, "10"), dec(t, "79.6"))
	assert.Equal(t, "10 USD = 796.00 RUB", got)
}

func TestFormatConvertResultRounds(t *testing.T) {
	got := formatConvertResult("EUR", dec(t, "1.5"), dec(t, "89.71"))
	assert.Equal(t, "1.5 EUR = 134.57 RUB", got)
}

func TestFormatConvertResultTenEuros(t *testing.T) {
	got := formatConvertResult("EUR", dec(t, "10"), dec(t, "89.71"))
	assert.Equal(t, "10 EUR = 897.10 RUB", got)
}

func TestConvertDividesBackWithinRounding(t *testing.T) {
	amount, rate := dec(t, "12.34"), dec(t, "79.6")
	converted := amount.Mul(rate).Round(2)
	back := converted.DivRound(rate, 2)
	assert.True(t, back.Sub(amount).Abs().LessThanOrEqual(dec(t, "0.01")),
		"got %s back from %s", back, amount)
}
