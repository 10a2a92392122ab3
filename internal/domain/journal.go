package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout es el formato de día para fechas de sesión e inicios de semana.
const DateLayout = "2006-01-02"

// OptionType es el lado del contrato.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// OutcomeColor marca un trade como ganador (GREEN) o perdedor (RED).
type OutcomeColor string

const (
	OutcomeGreen OutcomeColor = "GREEN"
	OutcomeRed   OutcomeColor = "RED"
)

// Strategy es el setup con el que se tomó el trade.
type Strategy string

const (
	StrategyORB15 Strategy = "ORB15"
	StrategyORB5  Strategy = "ORB5"
	Strategy3Conf Strategy = "3CONF"
)

// Valid indica si o es un tipo de opción conocido.
func (o OptionType) Valid() bool { return o == OptionCall || o == OptionPut }

// Valid indica si c es un color de resultado conocido.
func (c OutcomeColor) Valid() bool { return c == OutcomeGreen || c == OutcomeRed }

// Valid indica si s es una estrategia conocida.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyORB15, StrategyORB5, Strategy3Conf:
		return true
	}
	return false
}

// Trade es un trade persistido. El storage copia LogDate y Ticker de su
// DailyLog para que analytics agrupe sin una segunda consulta.
type Trade struct {
	ID              string       `json:"id"`
	DailyLogID      string       `json:"dailyLogId"`
	TimeIn          string       `json:"timeIn"`
	TimeOut         string       `json:"timeOut"`
	ProfitLoss      float64      `json:"profitLoss"`
	Runner          bool         `json:"runner"`
	OptionType      OptionType   `json:"optionType"`
	OutcomeColor    OutcomeColor `json:"outcomeColor"`
	Strategy        Strategy     `json:"strategy"`
	ContractsCount  *int         `json:"contractsCount,omitempty"`
	DripPercent     *float64     `json:"dripPercent,omitempty"`
	AmountLeveraged *float64     `json:"amountLeveraged,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`

	LogDate time.Time `json:"-"`
	Ticker  string    `json:"-"`
}

// IsWin indica si el trade está marcado GREEN.
func (t Trade) IsWin() bool { return t.OutcomeColor == OutcomeGreen }

// IsLoss indica si el trade está marcado RED.
func (t Trade) IsLoss() bool { return t.OutcomeColor == OutcomeRed }

// DailyLog es una sesión de trading: fecha, ticker y sus trades.
type DailyLog struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	Ticker        string    `json:"ticker"`
	StrategyORB15 bool      `json:"strategyOrb15"`
	StrategyORB5  bool      `json:"strategyOrb5"`
	Strategy3Conf bool      `json:"strategy3Conf"`
	KeyLevels     string    `json:"keyLevels"`
	Feelings      string    `json:"feelings"`
	Reflections   string    `json:"reflections"`
	Trades        []Trade   `json:"trades"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DailyLogInput es el payload para abrir una sesión.
type DailyLogInput struct {
	Date          string `json:"date"`
	Ticker        string `json:"ticker"`
	StrategyORB15 bool   `json:"strategyOrb15"`
	StrategyORB5  bool   `json:"strategyOrb5"`
	Strategy3Conf bool   `json:"strategy3Conf"`
}

// NotesInput reemplaza las notas libres de una sesión.
type NotesInput struct {
	KeyLevels   string `json:"keyLevels"`
	Feelings    string `json:"feelings"`
	Reflections string `json:"reflections"`
}

// NewDailyLog valida in y devuelve una sesión sin ID ni timestamps.
func NewDailyLog(in DailyLogInput) (DailyLog, error) {
	dateStr := strings.TrimSpace(in.Date)
	ticker := strings.ToUpper(strings.TrimSpace(in.Ticker))
	if dateStr == "" || ticker == "" {
		return DailyLog{}, fmt.Errorf("date and ticker are required: %w", ErrInvalidInput)
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return DailyLog{}, err
	}
	return DailyLog{
		Date:          date,
		Ticker:        ticker,
		StrategyORB15: in.StrategyORB15,
		StrategyORB5:  in.StrategyORB5,
		Strategy3Conf: in.Strategy3Conf,
	}, nil
}

// ParseDate parsea un día YYYY-MM-DD a medianoche UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", s, ErrInvalidInput)
	}
	return d, nil
}

// DateRange acota una consulta por fecha de sesión. Un límite cero queda abierto.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange construye un rango a partir de strings YYYY-MM-DD opcionales.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	var err error
	if strings.TrimSpace(from) != "" {
		if r.From, err = ParseDate(from); err != nil {
			return DateRange{}, err
		}
	}
	if strings.TrimSpace(to) != "" {
		if r.To, err = ParseDate(to); err != nil {
			return DateRange{}, err
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return DateRange{}, fmt.Errorf("from %s is after to %s: %w",
			r.From.Format(DateLayout), r.To.Format(DateLayout), ErrInvalidInput)
	}
	return r, nil
}

// Contains indica si day cae dentro del rango, límites incluidos.
func (r DateRange) Contains(day time.Time) bool {
	d := truncateDay(day)
	if !r.From.IsZero() && d.Before(truncateDay(r.From)) {
		return false
	}
	if !r.To.IsZero() && d.After(truncateDay(r.To)) {
		return false
	}
	return true
}

// Key es una forma estable del rango, usable como clave de map.
func (r DateRange) Key() string {
	f, t := "*", "*"
	if !r.From.IsZero() {
		f = r.From.Format(DateLayout)
	}
	if !r.To.IsZero() {
		t = r.To.Format(DateLayout)
	}
	return f + ".." + t
}

// Page selecciona una página de sesiones, la más reciente primero.
type Page struct {
	Number int
	Limit  int
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Normalized aplica defaults y acota el límite.
func (p Page) Normalized() Page {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

// Offset es el número de filas que se saltan antes de esta página.
func (p Page) Offset() int {
	n := p.Normalized()
	return (n.Number - 1) * n.Limit
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
