package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func makeTrade(id string, st Strategy, oc OutcomeColor, pl float64, date, ticker string) Trade {
	return Trade{
		ID:           id,
		DailyLogID:   "log-" + date,
		TimeIn:       "09:30",
		TimeOut:      "09:45",
		ProfitLoss:   pl,
		OptionType:   OptionCall,
		OutcomeColor: oc,
		Strategy:     st,
		LogDate:      day(date),
		Ticker:       ticker,
	}
}

func TestAggregate_Empty(t *testing.T) {
	a, err := Aggregate(nil)
	require.NoError(t, err)

	assert.Empty(t, a.Strategies)
	assert.NotNil(t, a.Strategies)
	assert.Empty(t, a.Weeks)
	assert.NotNil(t, a.Weeks)
	assert.Equal(t, 0, a.Summary.TotalTrades)
	assert.True(t, a.Summary.TotalProfitLoss.IsZero())
	assert.Equal(t, 0, a.Summary.WinRate)
	assert.True(t, a.Summary.AvgWin.IsZero())
	assert.True(t, a.Summary.AvgLoss.IsZero())
	assert.Empty(t, a.Summary.BestTicker)
}

func TestAggregate_StrategyRow(t *testing.T) {
	trades := []Trade{
		makeTrade("1", StrategyORB15, OutcomeGreen, 100, "2024-01-08", "SPY"),
		makeTrade("2", StrategyORB15, OutcomeRed, -40, "2024-01-08", "SPY"),
	}

	a, err := Aggregate(trades)
	require.NoError(t, err)
	require.Len(t, a.Strategies, 1)

	r := a.Strategies[0]
	assert.Equal(t, StrategyORB15, r.Strategy)
	assert.Equal(t, 2, r.Trades)
	assert.Equal(t, 1, r.Wins)
	assert.Equal(t, 1, r.Losses)
	assert.Equal(t, 50, r.WinRate)
	assert.Equal(t, "+60.00", r.TotalPLText())
}

func TestAggregate_StrategyOrderIsFirstAppearance(t *testing.T) {
	trades := []Trade{
		makeTrade("1", Strategy3Conf, OutcomeGreen, 10, "2024-01-08", "SPY"),
		makeTrade("2", StrategyORB5, OutcomeRed, -5, "2024-01-08", "SPY"),
		makeTrade("3", Strategy3Conf, OutcomeGreen, 10, "2024-01-09", "SPY"),
		makeTrade("4", StrategyORB15, OutcomeGreen, 1, "2024-01-09", "SPY"),
	}

	a, err := Aggregate(trades)
	require.NoError(t, err)
	require.Len(t, a.Strategies, 3)
	assert.Equal(t, Strategy3Conf, a.Strategies[0].Strategy)
	assert.Equal(t, StrategyORB5, a.Strategies[1].Strategy)
	assert.Equal(t, StrategyORB15, a.Strategies[2].Strategy)
	assert.Equal(t, 100, a.Strategies[0].WinRate)
	assert.Equal(t, 0, a.Strategies[1].WinRate)
	assert.Equal(t, "-5.00", a.Strategies[1].TotalPLText())
}

func TestAggregate_WinRateRounds(t *testing.T) {
	trades := []Trade{
		makeTrade("1", StrategyORB5, OutcomeGreen, 1, "2024-01-08", "SPY"),
		makeTrade("2", StrategyORB5, OutcomeGreen, 1, "2024-01-08", "SPY"),
		makeTrade("3", StrategyORB5, OutcomeRed, -1, "2024-01-08", "SPY"),
	}
	a, err := Aggregate(trades)
	require.NoError(t, err)
	assert.Equal(t, 67, a.Strategies[0].WinRate)
	assert.Equal(t, 67, a.Summary.WinRate)
}

func TestAggregate_WeekBoundaries(t *testing.T) {
	trades := []Trade{
		makeTrade("next", StrategyORB15, OutcomeRed, -10, "2024-01-15", "SPY"), // Monday, next week
		makeTrade("mon", StrategyORB15, OutcomeGreen, 20, "2024-01-08", "SPY"), // Monday
		makeTrade("sun", StrategyORB15, OutcomeRed, -5, "2024-01-14", "SPY"),   // Sunday, same week
	}

	a, err := Aggregate(trades)
	require.NoError(t, err)
	require.Len(t, a.Weeks, 2)

	assert.Equal(t, "2024-01-08", a.Weeks[0].WeekStart.Format(DateLayout))
	assert.Equal(t, 2, a.Weeks[0].Trades)
	assert.Equal(t, 50, a.Weeks[0].WinRate)
	assert.Equal(t, "+15.00", a.Weeks[0].TotalPLText())

	assert.Equal(t, "2024-01-15", a.Weeks[1].WeekStart.Format(DateLayout))
	assert.Equal(t, 1, a.Weeks[1].Trades)
	assert.Equal(t, 0, a.Weeks[1].WinRate)
	assert.Equal(t, "-10.00", a.Weeks[1].TotalPLText())
}

func TestWeekStart(t *testing.T) {
	cases := map[string]string{
		"2024-01-08": "2024-01-08", // Monday
		"2024-01-10": "2024-01-08", // Wednesday
		"2024-01-14": "2024-01-08", // Sunday
		"2024-03-01": "2024-02-26", // crosses month (leap year)
		"2025-01-01": "2024-12-30", // crosses year
	}
	for in, want := range cases {
		assert.Equal(t, want, WeekStart(day(in)).Format(DateLayout), in)
	}

	// Time of day and location do not leak into the bucket.
	ny := time.FixedZone("EST", -5*3600)
	got := WeekStart(time.Date(2024, 1, 14, 23, 30, 0, 0, ny))
	assert.Equal(t, "2024-01-08", got.Format(DateLayout))
	assert.Equal(t, 0, got.Hour())
}

func TestAggregate_Summary(t *testing.T) {
	trades := []Trade{
		makeTrade("1", StrategyORB15, OutcomeGreen, 100, "2024-01-08", "SPY"),
		makeTrade("2", StrategyORB5, OutcomeGreen, 50, "2024-01-09", "QQQ"),
		makeTrade("3", StrategyORB5, OutcomeRed, -30, "2024-01-09", "QQQ"),
		makeTrade("4", StrategyORB15, OutcomeRed, -10, "2024-01-10", "SPY"),
	}

	a, err := Aggregate(trades)
	require.NoError(t, err)

	s := a.Summary
	assert.Equal(t, 4, s.TotalTrades)
	assert.Equal(t, "+110.00", FormatMoney(s.TotalProfitLoss))
	assert.Equal(t, 50, s.WinRate)
	assert.True(t, s.AvgWin.Equal(decimal.NewFromInt(75)))
	assert.True(t, s.AvgLoss.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, "SPY", s.BestTicker)
}

func TestAggregate_BestTickerTieKeepsFirst(t *testing.T) {
	trades := []Trade{
		makeTrade("1", StrategyORB15, OutcomeGreen, 30, "2024-01-08", "QQQ"),
		makeTrade("2", StrategyORB15, OutcomeGreen, 30, "2024-01-09", "SPY"),
	}
	a, err := Aggregate(trades)
	require.NoError(t, err)
	assert.Equal(t, "QQQ", a.Summary.BestTicker)
}

func TestAggregate_NoWinsNoLosses(t *testing.T) {
	onlyLosses := []Trade{
		makeTrade("1", StrategyORB15, OutcomeRed, -12.5, "2024-01-08", "SPY"),
	}
	a, err := Aggregate(onlyLosses)
	require.NoError(t, err)
	assert.True(t, a.Summary.AvgWin.IsZero())
	assert.Equal(t, "-12.50", FormatAmount(a.Summary.AvgLoss))
	assert.Equal(t, 0, a.Summary.WinRate)
}

func TestAggregate_TotalZeroHasNoSign(t *testing.T) {
	trades := []Trade{
		makeTrade("1", StrategyORB15, OutcomeGreen, 40.1, "2024-01-08", "SPY"),
		makeTrade("2", StrategyORB15, OutcomeRed, -40.1, "2024-01-08", "SPY"),
	}
	a, err := Aggregate(trades)
	require.NoError(t, err)
	assert.Equal(t, "0.00", FormatMoney(a.Summary.TotalProfitLoss))
}

func TestAggregate_KeepsFullPrecision(t *testing.T) {
	trades := []Trade{
		makeTrade("1", StrategyORB15, OutcomeGreen, 0.1, "2024-01-08", "SPY"),
		makeTrade("2", StrategyORB15, OutcomeGreen, 0.2, "2024-01-08", "SPY"),
	}
	a, err := Aggregate(trades)
	require.NoError(t, err)
	assert.True(t, a.Strategies[0].TotalPL.Equal(decimal.RequireFromString("0.3")))
	assert.Equal(t, "+0.30", a.Strategies[0].TotalPLText())
}

func TestAggregate_MissingLogDate(t *testing.T) {
	bad := makeTrade("orphan", StrategyORB15, OutcomeGreen, 1, "2024-01-08", "SPY")
	bad.LogDate = time.Time{}

	_, err := Aggregate([]Trade{bad})
	var aie *AggregationInputError
	require.True(t, errors.As(err, &aie))
	assert.Equal(t, "orphan", aie.TradeID)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	trades := []Trade{
		makeTrade("2", StrategyORB15, OutcomeGreen, 5, "2024-01-15", "SPY"),
		makeTrade("1", StrategyORB15, OutcomeGreen, 5, "2024-01-08", "SPY"),
	}
	before := append([]Trade(nil), trades...)
	_, err := Aggregate(trades)
	require.NoError(t, err)
	assert.Equal(t, before, trades)
}

func TestLastWeeks(t *testing.T) {
	rows := []WeekRow{
		{WeekStart: day("2024-01-01")},
		{WeekStart: day("2024-01-08")},
		{WeekStart: day("2024-01-15")},
	}
	assert.Len(t, LastWeeks(rows, 0), 3)
	assert.Len(t, LastWeeks(rows, 8), 3)

	last := LastWeeks(rows, 2)
	require.Len(t, last, 2)
	assert.Equal(t, "2024-01-08", last[0].WeekStart.Format(DateLayout))
}

// --- formatting ---

func TestFormatPL(t *testing.T) {
	assert.Equal(t, "+60.00", FormatPL(60))
	assert.Equal(t, "0.00", FormatPL(0))
	assert.Equal(t, "-40.00", FormatPL(-40))
	assert.Equal(t, "-0.50", FormatPL(-0.5))
	assert.Equal(t, "+1234.57", FormatPL(1234.567))
	assert.Equal(t, "0.00", FormatPL(math.NaN()))
	assert.Equal(t, "0.00", FormatPL(math.Inf(1)))
	assert.Equal(t, "0.00", FormatPL(math.Inf(-1)))
}

func TestWinRate_ZeroGuard(t *testing.T) {
	assert.Equal(t, 0, WinRate(0, 0))
	assert.Equal(t, 100, WinRate(3, 3))
	assert.Equal(t, 33, WinRate(1, 3))
}
