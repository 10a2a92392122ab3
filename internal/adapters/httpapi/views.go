package httpapi

import (
	"time"

	"github.com/alejandrodnm/tradejournal/internal/domain"
)

// Vistas JSON: fechas como YYYY-MM-DD y dinero como número + string formateado.

type dailyLogView struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"`
	Ticker        string    `json:"ticker"`
	StrategyORB15 bool      `json:"strategyOrb15"`
	StrategyORB5  bool      `json:"strategyOrb5"`
	Strategy3Conf bool      `json:"strategy3Conf"`
	KeyLevels     string    `json:"keyLevels"`
	Feelings      string    `json:"feelings"`
	Reflections   string    `json:"reflections"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type dailyLogDetail struct {
	dailyLogView
	Trades []domain.Trade `json:"trades"`
}

func toDailyLogView(l domain.DailyLog) dailyLogView {
	return dailyLogView{
		ID:            l.ID,
		Date:          l.Date.Format(domain.DateLayout),
		Ticker:        l.Ticker,
		StrategyORB15: l.StrategyORB15,
		StrategyORB5:  l.StrategyORB5,
		Strategy3Conf: l.Strategy3Conf,
		KeyLevels:     l.KeyLevels,
		Feelings:      l.Feelings,
		Reflections:   l.Reflections,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toDailyLogDetail(l domain.DailyLog) dailyLogDetail {
	trades := l.Trades
	if trades == nil {
		trades = []domain.Trade{}
	}
	return dailyLogDetail{dailyLogView: toDailyLogView(l), Trades: trades}
}

type strategyView struct {
	Strategy   domain.Strategy `json:"strategy"`
	Trades     int             `json:"trades"`
	Wins       int             `json:"wins"`
	Losses     int             `json:"losses"`
	WinRate    int             `json:"winRate"`
	TotalPL    float64         `json:"totalPL"`
	TotalPLStr string          `json:"totalPLStr"`
}

type weekView struct {
	WeekStart  string  `json:"weekStart"`
	Trades     int     `json:"trades"`
	Wins       int     `json:"wins"`
	WinRate    int     `json:"winRate"`
	TotalPL    float64 `json:"totalPL"`
	TotalPLStr string  `json:"totalPLStr"`
}

type summaryView struct {
	TotalTrades        int     `json:"totalTrades"`
	TotalProfitLoss    float64 `json:"totalProfitLoss"`
	TotalProfitLossStr string  `json:"totalProfitLossStr"`
	WinRate            int     `json:"winRate"`
	AvgWin             float64 `json:"avgWin"`
	AvgWinStr          string  `json:"avgWinStr"`
	AvgLoss            float64 `json:"avgLoss"`
	AvgLossStr         string  `json:"avgLossStr"`
	BestTicker         string  `json:"bestTicker,omitempty"`
}

type analyticsView struct {
	Strategies []strategyView `json:"strategies"`
	Weeks      []weekView     `json:"weeks"`
	Summary    summaryView    `json:"summary"`
}

func toStrategyViews(rows []domain.StrategyRow) []strategyView {
	out := make([]strategyView, 0, len(rows))
	for _, r := range rows {
		out = append(out, strategyView{
			Strategy:   r.Strategy,
			Trades:     r.Trades,
			Wins:       r.Wins,
			Losses:     r.Losses,
			WinRate:    r.WinRate,
			TotalPL:    r.TotalPL.InexactFloat64(),
			TotalPLStr: r.TotalPLText(),
		})
	}
	return out
}

func toWeekViews(rows []domain.WeekRow) []weekView {
	out := make([]weekView, 0, len(rows))
	for _, r := range rows {
		out = append(out, weekView{
			WeekStart:  r.WeekStart.Format(domain.DateLayout),
			Trades:     r.Trades,
			Wins:       r.Wins,
			WinRate:    r.WinRate,
			TotalPL:    r.TotalPL.InexactFloat64(),
			TotalPLStr: r.TotalPLText(),
		})
	}
	return out
}

func toSummaryView(s domain.Summary) summaryView {
	return summaryView{
		TotalTrades:        s.TotalTrades,
		TotalProfitLoss:    s.TotalProfitLoss.InexactFloat64(),
		TotalProfitLossStr: domain.FormatMoney(s.TotalProfitLoss),
		WinRate:            s.WinRate,
		AvgWin:             s.AvgWin.InexactFloat64(),
		AvgWinStr:          domain.FormatAmount(s.AvgWin),
		AvgLoss:            s.AvgLoss.InexactFloat64(),
		AvgLossStr:         domain.FormatAmount(s.AvgLoss),
		BestTicker:         s.BestTicker,
	}
}
