package domain

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// StrategyRow es el rendimiento de una estrategia.
type StrategyRow struct {
	Strategy Strategy
	Trades   int
	Wins     int
	Losses   int
	WinRate  int // porcentaje, redondeado
	TotalPL  decimal.Decimal
}

// TotalPLText formatea TotalPL con las reglas de dinero.
func (r StrategyRow) TotalPLText() string { return FormatMoney(r.TotalPL) }

// WeekRow es el rendimiento de una semana que empieza en lunes.
type WeekRow struct {
	WeekStart time.Time // lunes, 00:00 UTC
	Trades    int
	Wins      int
	WinRate   int
	TotalPL   decimal.Decimal
}

// TotalPLText formatea TotalPL con las reglas de dinero.
func (r WeekRow) TotalPLText() string { return FormatMoney(r.TotalPL) }

// Summary es el rendimiento global de un conjunto de trades.
type Summary struct {
	TotalTrades     int
	TotalProfitLoss decimal.Decimal
	WinRate         int
	AvgWin          decimal.Decimal
	AvgLoss         decimal.Decimal
	BestTicker      string // vacío si no hay trades
}

// Analytics agrupa las tres vistas derivadas.
type Analytics struct {
	Strategies []StrategyRow
	Weeks      []WeekRow
	Summary    Summary
}

// Aggregate calcula las vistas por estrategia, semanal y resumen.
// El orden de entrada solo importa para desempates y el orden de las filas de
// estrategia; los trades nunca se modifican. Un slice vacío es válido y da ceros.
func Aggregate(trades []Trade) (Analytics, error) {
	for _, t := range trades {
		if t.LogDate.IsZero() {
			return Analytics{}, &AggregationInputError{TradeID: t.ID}
		}
	}
	return Analytics{
		Strategies: strategyView(trades),
		Weeks:      weeklyView(trades),
		Summary:    summaryView(trades),
	}, nil
}

func strategyView(trades []Trade) []StrategyRow {
	rows := make([]StrategyRow, 0)
	index := make(map[Strategy]int)

	for _, t := range trades {
		i, ok := index[t.Strategy]
		if !ok {
			i = len(rows)
			index[t.Strategy] = i
			rows = append(rows, StrategyRow{Strategy: t.Strategy})
		}
		r := &rows[i]
		r.Trades++
		if t.IsWin() {
			r.Wins++
		}
		if t.IsLoss() {
			r.Losses++
		}
		r.TotalPL = r.TotalPL.Add(plDecimal(t.ProfitLoss))
	}

	for i := range rows {
		rows[i].WinRate = WinRate(rows[i].Wins, rows[i].Trades)
	}
	return rows
}

func weeklyView(trades []Trade) []WeekRow {
	buckets := make(map[time.Time]*WeekRow)
	for _, t := range trades {
		ws := WeekStart(t.LogDate)
		b, ok := buckets[ws]
		if !ok {
			b = &WeekRow{WeekStart: ws}
			buckets[ws] = b
		}
		b.Trades++
		if t.IsWin() {
			b.Wins++
		}
		b.TotalPL = b.TotalPL.Add(plDecimal(t.ProfitLoss))
	}

	rows := make([]WeekRow, 0, len(buckets))
	for _, b := range buckets {
		b.WinRate = WinRate(b.Wins, b.Trades)
		rows = append(rows, *b)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].WeekStart.Before(rows[j].WeekStart)
	})
	return rows
}

func summaryView(trades []Trade) Summary {
	var s Summary
	var wins, losses int
	var sumWin, sumLoss decimal.Decimal

	// ticker → suma, en orden de primera aparición para el desempate
	tickerPL := make(map[string]decimal.Decimal)
	var tickers []string

	for _, t := range trades {
		pl := plDecimal(t.ProfitLoss)
		s.TotalTrades++
		s.TotalProfitLoss = s.TotalProfitLoss.Add(pl)
		if t.IsWin() {
			wins++
			sumWin = sumWin.Add(pl)
		}
		if t.IsLoss() {
			losses++
			sumLoss = sumLoss.Add(pl)
		}
		if t.Ticker == "" {
			continue
		}
		if _, seen := tickerPL[t.Ticker]; !seen {
			tickers = append(tickers, t.Ticker)
		}
		tickerPL[t.Ticker] = tickerPL[t.Ticker].Add(pl)
	}

	s.WinRate = WinRate(wins, s.TotalTrades)
	s.AvgWin = mean(sumWin, wins)
	s.AvgLoss = mean(sumLoss, losses)

	for i, tk := range tickers {
		if i == 0 || tickerPL[tk].GreaterThan(tickerPL[s.BestTicker]) {
			s.BestTicker = tk
		}
	}
	return s
}

// WeekStart devuelve el lunes igual o anterior a day, como fecha UTC.
func WeekStart(day time.Time) time.Time {
	d := truncateDay(day)
	back := (int(d.Weekday()) + 6) % 7 // lunes=0 … domingo=6
	return d.AddDate(0, 0, -back)
}

// WinRate devuelve round(wins/total*100), o 0 si total es 0.
func WinRate(wins, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(wins) / float64(total) * 100))
}

// LastWeeks conserva las n semanas más recientes, en orden ascendente. n <= 0 las conserva todas.
func LastWeeks(rows []WeekRow, n int) []WeekRow {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[len(rows)-n:]
}

func mean(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}

// plDecimal convierte un P/L guardado. NaN e Inf cuentan como cero para que
// una fila corrupta no arruine un total.
func plDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
