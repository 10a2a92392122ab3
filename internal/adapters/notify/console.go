package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alejandrodnm/tradejournal/internal/domain"
	"github.com/alejandrodnm/tradejournal/internal/ports"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Reporter: resumen + tabla por estrategia + tabla semanal.
type Console struct {
	out   io.Writer
	weeks int
}

var _ ports.Reporter = (*Console)(nil)

// NewConsole crea un reporter que escribe a stdout. weeks limita la tabla
// semanal a las últimas N semanas (0 = todas).
func NewConsole(weeks int) *Console {
	return &Console{out: os.Stdout, weeks: weeks}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer, weeks int) *Console {
	return &Console{out: w, weeks: weeks}
}

// Report imprime las tres vistas de analytics para el rango dado.
func (c *Console) Report(_ context.Context, rng domain.DateRange, a domain.Analytics) error {
	fmt.Fprintf(c.out, "\nTrade journal report (%s)\n", rangeLabel(rng))

	c.printSummary(a.Summary)
	c.printStrategies(a.Strategies)
	c.printWeeks(domain.LastWeeks(a.Weeks, c.weeks))
	return nil
}

func (c *Console) printSummary(s domain.Summary) {
	best := s.BestTicker
	if best == "" {
		best = "-"
	}
	fmt.Fprintf(c.out, "  Trades: %d | P&L: %s | Win rate: %d%%\n",
		s.TotalTrades, domain.FormatMoney(s.TotalProfitLoss), s.WinRate)
	fmt.Fprintf(c.out, "  Avg win: %s | Avg loss: %s | Best ticker: %s\n\n",
		domain.FormatAmount(s.AvgWin), domain.FormatAmount(s.AvgLoss), best)
}

func (c *Console) printStrategies(rows []domain.StrategyRow) {
	if len(rows) == 0 {
		fmt.Fprintln(c.out, "No strategy data.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Strategy", "Trades", "Wins", "Losses", "Win rate", "P&L")
	for _, r := range rows {
		table.Append(
			string(r.Strategy),
			fmt.Sprintf("%d", r.Trades),
			fmt.Sprintf("%d", r.Wins),
			fmt.Sprintf("%d", r.Losses),
			fmt.Sprintf("%d%%", r.WinRate),
			r.TotalPLText(),
		)
	}
	table.Render()
	fmt.Fprintln(c.out)
}

func (c *Console) printWeeks(rows []domain.WeekRow) {
	if len(rows) == 0 {
		fmt.Fprintln(c.out, "No weekly data.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Week of", "Trades", "Wins", "Win rate", "P&L")
	for _, r := range rows {
		table.Append(
			r.WeekStart.Format(domain.DateLayout),
			fmt.Sprintf("%d", r.Trades),
			fmt.Sprintf("%d", r.Wins),
			fmt.Sprintf("%d%%", r.WinRate),
			r.TotalPLText(),
		)
	}
	table.Render()
}

func rangeLabel(rng domain.DateRange) string {
	if rng.From.IsZero() && rng.To.IsZero() {
		return "all time"
	}
	from, to := "…", "…"
	if !rng.From.IsZero() {
		from = rng.From.Format(domain.DateLayout)
	}
	if !rng.To.IsZero() {
		to = rng.To.Format(domain.DateLayout)
	}
	return from + " to " + to
}
