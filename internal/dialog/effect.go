package dialog

// EffectKind names a side-effecting action requested by a transition. At most
// one effect is emitted per step; running it is the caller's job.
type EffectKind string

const (
	// EffectCheckCurrencyFree verifies the entered name is not taken yet.
	// It is the only intermediate effect: on conflict the flow terminates,
	// otherwise the already-computed next state is committed.
	EffectCheckCurrencyFree EffectKind = "check-currency-free"
	// EffectPersistCurrency stores a new currency with its rate.
	EffectPersistCurrency EffectKind = "persist-currency"
	// EffectDeleteCurrency removes a currency by name.
	EffectDeleteCurrency EffectKind = "delete-currency"
	// EffectUpdateCurrency replaces the rate of an existing currency.
	EffectUpdateCurrency EffectKind = "update-currency"
	// EffectConvertAmount multiplies amount by the snapshotted rate.
	EffectConvertAmount EffectKind = "convert-amount"
	// EffectRegisterUser stores a new user record.
	EffectRegisterUser EffectKind = "register-user"
	// EffectRecordOperation stores one income or expense entry.
	EffectRecordOperation EffectKind = "record-operation"
)

// Effect is a requested action with the fully assembled field bag.
type Effect struct {
	Kind   EffectKind
	Fields map[string]string
}

// Field returns an effect payload value, empty when absent.
func (e *Effect) Field(key string) string {
	if e == nil || e.Fields == nil {
		return ""
	}
	return e.Fields[key]
}
