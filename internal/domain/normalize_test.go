package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() RawFields {
	return RawFields{
		FieldTimeIn:  "9:30",
		FieldTimeOut: "10:02",
	}
}

// --- NormalizeTime ---

func TestNormalizeTime_EquivalentShapes(t *testing.T) {
	for _, in := range []string{"9:30", "09:30", "930", "0930", " 9:30 ", "9:30 AM", "9:30am"} {
		got, ok := NormalizeTime(in)
		require.True(t, ok, in)
		assert.Equal(t, "09:30", got, in)
	}
}

func TestNormalizeTime_TwelveHour(t *testing.T) {
	cases := map[string]string{
		"10:02pm":  "22:02",
		"10:02 PM": "22:02",
		"12:00 AM": "00:00",
		"12:00 PM": "12:00",
		"12:59am":  "00:59",
		"1:05 pm":  "13:05",
		"11:59 PM": "23:59",
	}
	for in, want := range cases {
		got, ok := NormalizeTime(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNormalizeTime_Rejects(t *testing.T) {
	for _, in := range []string{
		"", "   ", "25:00", "24:00", "9:60", "13:00 PM", "0:30 AM",
		"960", "2400", "12345", "93", "9.30", "9:3", "nine thirty", "9:30 XM",
	} {
		got, ok := NormalizeTime(in)
		assert.False(t, ok, "%q should fail", in)
		assert.Empty(t, got, in)
	}
}

func TestNormalizeTime_BareDigitsPadding(t *testing.T) {
	got, ok := NormalizeTime("005")
	require.True(t, ok)
	assert.Equal(t, "00:05", got)

	got, ok = NormalizeTime("2359")
	require.True(t, ok)
	assert.Equal(t, "23:59", got)
}

func TestNormalizeTime_IdempotentOverAllClockTimes(t *testing.T) {
	for h := 0; h <= 23; h++ {
		for m := 0; m <= 59; m++ {
			for _, in := range []string{fmt.Sprintf("%d:%02d", h, m), fmt.Sprintf("%02d:%02d", h, m)} {
				once, ok := NormalizeTime(in)
				require.True(t, ok, in)
				twice, ok := NormalizeTime(once)
				require.True(t, ok, once)
				assert.Equal(t, once, twice)
			}
		}
	}
}

// --- Normalize ---

func TestNormalize_TimeGate(t *testing.T) {
	raw := validRaw()
	raw[FieldTimeOut] = "25:00"

	_, err := Normalize(raw, NormalizeOptions{})
	require.Error(t, err)

	var tfe *TimeFormatError
	require.True(t, errors.As(err, &tfe))
	assert.Equal(t, FieldTimeOut, tfe.Field)
	assert.Equal(t, "25:00", tfe.Value)
}

func TestNormalize_EmptyTimeFails(t *testing.T) {
	raw := validRaw()
	raw[FieldTimeIn] = ""

	_, err := Normalize(raw, NormalizeOptions{})
	var tfe *TimeFormatError
	require.True(t, errors.As(err, &tfe))
	assert.Equal(t, FieldTimeIn, tfe.Field)
}

func TestNormalize_FullInput(t *testing.T) {
	raw := RawFields{
		FieldTimeIn:          "930",
		FieldTimeOut:         "10:02pm",
		FieldProfitLoss:      " -40.5 ",
		FieldRunner:          "true",
		FieldOptionType:      "put",
		FieldOutcomeColor:    " red",
		FieldStrategy:        "3conf",
		FieldContractsCount:  "3",
		FieldDripPercent:     "12.25",
		FieldAmountLeveraged: "1500",
	}

	in, err := Normalize(raw, NormalizeOptions{StrictEnums: true})
	require.NoError(t, err)

	assert.Equal(t, "09:30", in.TimeIn)
	assert.Equal(t, "22:02", in.TimeOut)
	require.NotNil(t, in.ProfitLoss)
	assert.InDelta(t, -40.5, *in.ProfitLoss, 1e-9)
	require.NotNil(t, in.Runner)
	assert.True(t, *in.Runner)
	assert.Equal(t, OptionPut, *in.OptionType)
	assert.Equal(t, OutcomeRed, *in.OutcomeColor)
	assert.Equal(t, Strategy3Conf, *in.Strategy)
	assert.Equal(t, 3, *in.ContractsCount)
	assert.InDelta(t, 12.25, *in.DripPercent, 1e-9)
	assert.InDelta(t, 1500, *in.AmountLeveraged, 1e-9)
}

func TestNormalize_EmptyProfitLossOmittedFromPatch(t *testing.T) {
	raw := validRaw()
	raw[FieldProfitLoss] = ""

	in, err := Normalize(raw, NormalizeOptions{})
	require.NoError(t, err)
	assert.Nil(t, in.ProfitLoss)

	b, err := json.Marshal(in)
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(b, &obj))
	assert.NotContains(t, obj, "profitLoss")
	assert.Contains(t, obj, "timeIn")
	assert.Equal(t, false, obj["runner"])
}

func TestNormalize_ZeroIsKept(t *testing.T) {
	raw := validRaw()
	raw[FieldProfitLoss] = "0"

	in, err := Normalize(raw, NormalizeOptions{})
	require.NoError(t, err)
	require.NotNil(t, in.ProfitLoss)
	assert.Equal(t, 0.0, *in.ProfitLoss)
}

func TestNormalize_MalformedNumbersDroppedByDefault(t *testing.T) {
	raw := validRaw()
	raw[FieldProfitLoss] = "abc"
	raw[FieldDripPercent] = "NaN"
	raw[FieldAmountLeveraged] = "Inf"
	raw[FieldContractsCount] = "2.5"

	in, err := Normalize(raw, NormalizeOptions{})
	require.NoError(t, err)
	assert.Nil(t, in.ProfitLoss)
	assert.Nil(t, in.DripPercent)
	assert.Nil(t, in.AmountLeveraged)
	assert.Nil(t, in.ContractsCount)
}

func TestNormalize_StrictNumbers(t *testing.T) {
	raw := validRaw()
	raw[FieldProfitLoss] = "12,50"

	_, err := Normalize(raw, NormalizeOptions{StrictNumbers: true})
	var ife *InvalidFieldError
	require.True(t, errors.As(err, &ife))
	assert.Equal(t, FieldProfitLoss, ife.Field)

	raw[FieldProfitLoss] = "12.50"
	raw[FieldContractsCount] = "-1"
	_, err = Normalize(raw, NormalizeOptions{StrictNumbers: true})
	require.True(t, errors.As(err, &ife))
	assert.Equal(t, FieldContractsCount, ife.Field)
}

func TestNormalize_EnumsPermissiveByDefault(t *testing.T) {
	raw := validRaw()
	raw[FieldStrategy] = "scalp"
	raw[FieldOptionType] = "   "

	in, err := Normalize(raw, NormalizeOptions{})
	require.NoError(t, err)
	require.NotNil(t, in.Strategy)
	assert.Equal(t, Strategy("SCALP"), *in.Strategy)
	assert.Nil(t, in.OptionType)
}

func TestNormalize_StrictEnums(t *testing.T) {
	raw := validRaw()
	raw[FieldOutcomeColor] = "blue"

	_, err := Normalize(raw, NormalizeOptions{StrictEnums: true})
	var ife *InvalidFieldError
	require.True(t, errors.As(err, &ife))
	assert.Equal(t, FieldOutcomeColor, ife.Field)
	assert.Equal(t, "blue", ife.Value)
}

func TestNormalize_RunnerDefaultsFalse(t *testing.T) {
	for _, v := range []string{"", "false", "0", "maybe"} {
		raw := validRaw()
		raw[FieldRunner] = v
		in, err := Normalize(raw, NormalizeOptions{})
		require.NoError(t, err)
		require.NotNil(t, in.Runner)
		assert.False(t, *in.Runner, v)
	}
	raw := validRaw()
	raw[FieldRunner] = "on"
	in, err := Normalize(raw, NormalizeOptions{})
	require.NoError(t, err)
	assert.True(t, *in.Runner)
}

// --- ApplyCreateDefaults ---

func TestApplyCreateDefaults(t *testing.T) {
	raw := validRaw()
	raw[FieldProfitLoss] = "25"

	in, err := Normalize(raw, NormalizeOptions{})
	require.NoError(t, err)

	full, err := in.ApplyCreateDefaults()
	require.NoError(t, err)
	assert.Equal(t, OptionCall, *full.OptionType)
	assert.Equal(t, OutcomeGreen, *full.OutcomeColor)
	assert.Equal(t, StrategyORB15, *full.Strategy)
	assert.False(t, *full.Runner)
}

func TestApplyCreateDefaults_RequiresProfitLoss(t *testing.T) {
	in, err := Normalize(validRaw(), NormalizeOptions{})
	require.NoError(t, err)

	_, err = in.ApplyCreateDefaults()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTradeInput_IsEmpty(t *testing.T) {
	assert.True(t, TradeInput{}.IsEmpty())
	pl := 1.0
	assert.False(t, TradeInput{ProfitLoss: &pl}.IsEmpty())
}
