package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a stored exchange rate: 1 unit of Name costs Rate in rubles.
type Currency struct {
	ID   int64           `db:"id" json:"-"`
	Name string          `db:"name" json:"name"`
	Rate decimal.Decimal `db:"rate" json:"rate"`
}

// User is a registered bot user keyed by their chat identifier.
type User struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	ChatID       int64     `db:"chat_id"`
	RegisteredOn time.Time `db:"registered_on"`
}

// OperationKind distinguishes income from expense records.
type OperationKind string

const (
	KindIncome  OperationKind = "income"
	KindExpense OperationKind = "expense"
)

// Valid reports whether the kind is one of the two known values.
func (k OperationKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Operation is a single income or expense entry owned by a chat.
type Operation struct {
	ID         int64           `db:"id"`
	OccurredOn time.Time       `db:"occurred_on"`
	Amount     decimal.Decimal `db:"amount"`
	ChatID     int64           `db:"chat_id"`
	Kind       OperationKind   `db:"kind"`
}

// Role is the access level resolved for a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole normalizes raw input into a Role, reporting whether it is known.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

// NormalizeCurrencyName upper-cases and trims a user-entered currency token.
func NormalizeCurrencyName(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
