package dialog

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/olegsv/finkurs/core/telegram/state"
	"github.com/olegsv/finkurs/internal/domain"
)

// Dialog states, one linear chain per flow.
const (
	StateAwaitingCurrencyName     state.State = "awaiting_currency_name"
	StateAwaitingCurrencyRate     state.State = "awaiting_currency_rate"
	StateAwaitingCurrencyToDelete state.State = "awaiting_currency_to_delete"
	StateAwaitingCurrencyToUpdate state.State = "awaiting_currency_to_update"
	StateAwaitingNewRate          state.State = "awaiting_new_rate"
	StateAwaitingCurrencyChoice   state.State = "awaiting_currency_choice"
	StateAwaitingConvertAmount    state.State = "awaiting_convert_amount"
	StateAwaitingUsername         state.State = "awaiting_username"
	StateAwaitingOperationAmount  state.State = "awaiting_operation_amount"
	StateAwaitingOperationDate    state.State = "awaiting_operation_date"
)

// Field bag keys.
const (
	FieldCurrency = "currency"
	FieldRate     = "rate"
	FieldAmount   = "amount"
	FieldKind     = "kind"
	FieldUsername = "username"
	FieldDate     = "date"
	FieldChoices  = "choices"
)

// OperationDateLayout is the only accepted date format for operation entry.
const OperationDateLayout = "02.01.2006"

// Choice is one selectable currency with the rate snapshotted at the moment
// the list was fetched. The snapshot is not refreshed later in the flow.
type Choice struct {
	Name string
	Rate decimal.Decimal
}

type choiceRecord struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// EncodeChoices packs the selectable currencies into a bag value. JSON keeps
// names intact whatever characters they carry.
func EncodeChoices(currencies []domain.Currency) string {
	records := make([]choiceRecord, 0, len(currencies))
	for _, c := range currencies {
		records = append(records, choiceRecord{Name: c.Name, Rate: c.Rate})
	}
	b, err := json.Marshal(records)
	if err != nil {
		return ""
	}
	return string(b)
}

func decodeChoices(raw string) []Choice {
	if raw == "" {
		return nil
	}
	var records []choiceRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil
	}
	out := make([]Choice, 0, len(records))
	for _, r := range records {
		out = append(out, Choice{Name: r.Name, Rate: r.Rate})
	}
	return out
}

// ChoiceNames lists the valid currency names carried in the session bag,
// sorted for stable prompts.
func ChoiceNames(sess state.Session) []string {
	choices := decodeChoices(sess.Field(FieldChoices))
	names := make([]string, 0, len(choices))
	for _, c := range choices {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func lookupChoice(sess state.Session, name string) (Choice, bool) {
	for _, c := range decodeChoices(sess.Field(FieldChoices)) {
		if c.Name == name {
			return c, true
		}
	}
	return Choice{}, false
}

// ParseAmount parses a user-entered positive decimal, accepting both the
// comma and the point as decimal separator.
func ParseAmount(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, domain.ErrValidation("not a number")
	}
	if !d.IsPositive() {
		return decimal.Zero, domain.ErrValidation("amount must be positive")
	}
	return d, nil
}

// ParseOperationDate parses a DD.MM.YYYY operation date. No other layout is
// accepted.
func ParseOperationDate(raw string) (time.Time, error) {
	t, err := time.Parse(OperationDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, domain.ErrValidation("bad date format")
	}
	return t, nil
}
