package dialog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegsv/finkurs/core/telegram/state"
	"github.com/olegsv/finkurs/internal/domain"
)

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func sampleCurrencies(t *testing.T) []domain.Currency {
	return []domain.Currency{
		{Name: "EUR", Rate: mustDec(t, "89.71")},
		{Name: "USD", Rate: mustDec(t, "79.6")},
	}
}

func TestSaveCurrencyHappyPath(t *testing.T) {
	sess := BeginSaveCurrency()

	out := Step(sess, Text("usd"))
	assert.Equal(t, StateAwaitingCurrencyRate, out.Next.State)
	assert.Equal(t, "USD", out.Next.Field(FieldCurrency))
	require.NotNil(t, out.Effect)
	assert.Equal(t, EffectCheckCurrencyFree, out.Effect.Kind)
	assert.Equal(t, PromptAskRate, out.Prompt)

	out = Step(out.Next, Text("90,5"))
	assert.False(t, out.Next.Open())
	require.NotNil(t, out.Effect)
	assert.Equal(t, EffectPersistCurrency, out.Effect.Kind)
	assert.Equal(t, "USD", out.Effect.Field(FieldCurrency))
	assert.Equal(t, "90.5", out.Effect.Field(FieldRate))
}

func TestSaveCurrencyRejectsBadRate(t *testing.T) {
	sess := BeginSaveCurrency()
	sess = Step(sess, Text("usd")).Next

	for _, bad := range []string{"abc", "", "-5", "0", "1.2.3"} {
		out := Step(sess, Text(bad))
		assert.Equal(t, sess.State, out.Next.State, "input %q must not advance", bad)
		assert.Equal(t, sess.Fields, out.Next.Fields, "input %q must not touch the bag", bad)
		assert.Nil(t, out.Effect)
		assert.Equal(t, PromptRetryNumber, out.Prompt)
	}
}

func TestSaveCurrencyEmptyNameReprompts(t *testing.T) {
	out := Step(BeginSaveCurrency(), Text("   "))
	assert.Equal(t, StateAwaitingCurrencyName, out.Next.State)
	assert.Nil(t, out.Effect)
	assert.Equal(t, PromptRetryEmpty, out.Prompt)
}

func TestConvertFlowSnapshotsRate(t *testing.T) {
	sess := BeginConvert(sampleCurrencies(t))

	out := Step(sess, Text("eur"))
	assert.Equal(t, StateAwaitingConvertAmount, out.Next.State)
	assert.Equal(t, "EUR", out.Next.Field(FieldCurrency))
	assert.Equal(t, "89.71", out.Next.Field(FieldRate))

	out = Step(out.Next, Text("10"))
	assert.False(t, out.Next.Open())
	require.NotNil(t, out.Effect)
	assert.Equal(t, EffectConvertAmount, out.Effect.Kind)
	assert.Equal(t, "10", out.Effect.Field(FieldAmount))
	assert.Equal(t, "89.71", out.Effect.Field(FieldRate))
}

func TestConvertUnknownCurrencyReprompts(t *testing.T) {
	sess := BeginConvert(sampleCurrencies(t))
	out := Step(sess, Text("GBP"))
	assert.Equal(t, StateAwaitingCurrencyChoice, out.Next.State)
	assert.Equal(t, sess.Fields, out.Next.Fields)
	assert.Nil(t, out.Effect)
	assert.Equal(t, PromptUnknownChoice, out.Prompt)
	assert.Equal(t, []string{"EUR", "USD"}, ChoiceNames(out.Next))
}

func TestChoicesSurviveSeparatorCharacters(t *testing.T) {
	currencies := []domain.Currency{
		{Name: "A=B", Rate: mustDec(t, "1.5")},
		{Name: "C;D", Rate: mustDec(t, "2")},
	}
	sess := BeginConvert(currencies)
	assert.Equal(t, []string{"A=B", "C;D"}, ChoiceNames(sess))

	out := Step(sess, Text("a=b"))
	assert.Equal(t, StateAwaitingConvertAmount, out.Next.State)
	assert.Equal(t, "A=B", out.Next.Field(FieldCurrency))
	assert.Equal(t, "1.5", out.Next.Field(FieldRate))
}

func TestUpdateRateFlow(t *testing.T) {
	sess := BeginUpdateRate(sampleCurrencies(t))

	out := Step(sess, Text("chf"))
	assert.Equal(t, PromptUnknownChoice, out.Prompt)
	assert.Equal(t, StateAwaitingCurrencyToUpdate, out.Next.State)

	out = Step(sess, Text("usd"))
	assert.Equal(t, StateAwaitingNewRate, out.Next.State)

	out = Step(out.Next, Text("81,25"))
	require.NotNil(t, out.Effect)
	assert.Equal(t, EffectUpdateCurrency, out.Effect.Kind)
	assert.Equal(t, "USD", out.Effect.Field(FieldCurrency))
	assert.Equal(t, "81.25", out.Effect.Field(FieldRate))
	assert.False(t, out.Next.Open())
}

func TestDeleteCurrencyEmitsEffect(t *testing.T) {
	out := Step(BeginDeleteCurrency(sampleCurrencies(t)), Text("usd"))
	require.NotNil(t, out.Effect)
	assert.Equal(t, EffectDeleteCurrency, out.Effect.Kind)
	assert.Equal(t, "USD", out.Effect.Field(FieldCurrency))
	assert.False(t, out.Next.Open())
}

func TestDeleteCurrencyUnknownNameReprompts(t *testing.T) {
	sess := BeginDeleteCurrency(sampleCurrencies(t))
	out := Step(sess, Text("chf"))
	assert.Equal(t, StateAwaitingCurrencyToDelete, out.Next.State)
	assert.Equal(t, sess.Fields, out.Next.Fields)
	assert.Nil(t, out.Effect)
	assert.Equal(t, PromptUnknownChoice, out.Prompt)
	assert.Equal(t, []string{"EUR", "USD"}, ChoiceNames(out.Next))
}

func TestRegisterFlow(t *testing.T) {
	out := Step(BeginRegister(), Text("  ivan  "))
	require.NotNil(t, out.Effect)
	assert.Equal(t, EffectRegisterUser, out.Effect.Kind)
	assert.Equal(t, "ivan", out.Effect.Field(FieldUsername))
	assert.False(t, out.Next.Open())
}

func TestOperationFlow(t *testing.T) {
	sess := BeginOperation(domain.KindExpense)

	out := Step(sess, Text("-3"))
	assert.Equal(t, PromptRetryNumber, out.Prompt)
	assert.Equal(t, StateAwaitingOperationAmount, out.Next.State)

	out = Step(sess, Text("150,50"))
	assert.Equal(t, StateAwaitingOperationDate, out.Next.State)
	assert.Equal(t, PromptAskDate, out.Prompt)

	bad := Step(out.Next, Text("2024-11-15"))
	assert.Equal(t, StateAwaitingOperationDate, bad.Next.State)
	assert.Equal(t, out.Next.Fields, bad.Next.Fields)
	assert.Equal(t, PromptRetryDate, bad.Prompt)

	done := Step(out.Next, Text("15.11.2024"))
	require.NotNil(t, done.Effect)
	assert.Equal(t, EffectRecordOperation, done.Effect.Kind)
	assert.Equal(t, "expense", done.Effect.Field(FieldKind))
	assert.Equal(t, "150.5", done.Effect.Field(FieldAmount))
	assert.Equal(t, "15.11.2024", done.Effect.Field(FieldDate))
	assert.False(t, done.Next.Open())
}

func TestCancelClearsAnyOpenState(t *testing.T) {
	sessions := []state.Session{
		BeginSaveCurrency(),
		BeginConvert(sampleCurrencies(t)),
		BeginRegister(),
		BeginOperation(domain.KindIncome),
	}
	for _, sess := range sessions {
		for _, in := range []Input{Command("/cancel"), Button(CancelPayload)} {
			out := Step(sess, in)
			assert.False(t, out.Next.Open(), "state %s", sess.State)
			assert.Nil(t, out.Effect)
			assert.Equal(t, PromptCancelled, out.Prompt)
		}
	}
}

func TestCancelWithoutSessionIsAcknowledgedNoop(t *testing.T) {
	out := Step(state.Session{}, Command("/cancel"))
	assert.False(t, out.Next.Open())
	assert.Nil(t, out.Effect)
	assert.Equal(t, PromptCancelNoop, out.Prompt)
}

func TestStepIsTotalOverUnknownState(t *testing.T) {
	out := Step(state.Session{State: state.State("bogus")}, Text("hello"))
	assert.False(t, out.Next.Open())
	assert.Equal(t, PromptCancelled, out.Prompt)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, InputCommand, Classify("/start").Kind)
	assert.Equal(t, InputText, Classify("90.5").Kind)
}

func TestParseAmountSeparators(t *testing.T) {
	for _, raw := range []string{"90,5", "90.5", " 90.5 "} {
		d, err := ParseAmount(raw)
		require.NoError(t, err, raw)
		assert.True(t, d.Equal(mustDec(t, "90.5")), raw)
	}
}
