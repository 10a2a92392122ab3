package storage

// sqlite.go: almacenamiento del diario de trading.
//
// Estrategia:
//   - `daily_logs`: una fila por sesión (fecha + ticker + notas).
//   - `trades`: una fila por trade, referenciando su sesión.
//   - Fechas como TEXT 'YYYY-MM-DD': el orden lexicográfico coincide con el
//     cronológico, así los filtros por rango son comparaciones de strings.
//   - Timestamps como RFC3339 en UTC; el orden de inserción lo da rowid.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alejandrodnm/tradejournal/internal/domain"
	"github.com/alejandrodnm/tradejournal/internal/ports"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily_logs (
    id             TEXT PRIMARY KEY,
    date           TEXT    NOT NULL,
    ticker         TEXT    NOT NULL,
    strategy_orb15 INTEGER NOT NULL DEFAULT 0,
    strategy_orb5  INTEGER NOT NULL DEFAULT 0,
    strategy_3conf INTEGER NOT NULL DEFAULT 0,
    key_levels     TEXT    NOT NULL DEFAULT '',
    feelings       TEXT    NOT NULL DEFAULT '',
    reflections    TEXT    NOT NULL DEFAULT '',
    created_at     TEXT    NOT NULL,
    updated_at     TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
    id               TEXT PRIMARY KEY,
    daily_log_id     TEXT    NOT NULL REFERENCES daily_logs(id),
    time_in          TEXT    NOT NULL,
    time_out         TEXT    NOT NULL,
    profit_loss      REAL    NOT NULL DEFAULT 0,
    runner           INTEGER NOT NULL DEFAULT 0,
    option_type      TEXT    NOT NULL,
    outcome_color    TEXT    NOT NULL,
    strategy         TEXT    NOT NULL,
    contracts_count  INTEGER,
    drip_percent     REAL,
    amount_leveraged REAL,
    created_at       TEXT    NOT NULL,
    updated_at       TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_daily_logs_date ON daily_logs(date DESC);
CREATE INDEX IF NOT EXISTS idx_trades_log      ON trades(daily_log_id);
`

const tradeColumns = `
	t.id, t.daily_log_id, t.time_in, t.time_out, t.profit_loss, t.runner,
	t.option_type, t.outcome_color, t.strategy, t.contracts_count,
	t.drip_percent, t.amount_leveraged, t.created_at, t.updated_at,
	l.date, l.ticker`

const logColumns = `
	id, date, ticker, strategy_orb15, strategy_orb5, strategy_3conf,
	key_levels, feelings, reflections, created_at, updated_at`

// SQLiteStorage implementa ports.JournalStorage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.JournalStorage = (*SQLiteStorage)(nil)

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica el schema.
// Acepta ":memory:" para tests.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer; además mantiene viva la DB :memory:
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	return &SQLiteStorage{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- daily logs ---

// CreateDailyLog inserta la sesión con un id nuevo y la devuelve.
func (s *SQLiteStorage) CreateDailyLog(ctx context.Context, log domain.DailyLog) (domain.DailyLog, error) {
	now := s.now()
	log.ID = uuid.New().String()
	log.CreatedAt = now
	log.UpdatedAt = now
	log.Trades = []domain.Trade{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_logs (`+logColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.Date.Format(domain.DateLayout), log.Ticker,
		boolInt(log.StrategyORB15), boolInt(log.StrategyORB5), boolInt(log.Strategy3Conf),
		log.KeyLevels, log.Feelings, log.Reflections,
		formatTS(now), formatTS(now),
	)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("storage.CreateDailyLog: %w", err)
	}
	return log, nil
}

// GetDailyLog carga una sesión con sus trades.
func (s *SQLiteStorage) GetDailyLog(ctx context.Context, id string) (domain.DailyLog, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+logColumns+` FROM daily_logs WHERE id = ?`, id)
	log, err := scanDailyLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyLog{}, fmt.Errorf("storage.GetDailyLog: daily log %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("storage.GetDailyLog: %w", err)
	}

	trades, err := s.queryTrades(ctx, `WHERE t.daily_log_id = ? ORDER BY t.time_in ASC, t.rowid ASC`, id)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("storage.GetDailyLog: trades: %w", err)
	}
	log.Trades = trades
	return log, nil
}

// ListDailyLogs devuelve una página de sesiones sin sus trades.
func (s *SQLiteStorage) ListDailyLogs(ctx context.Context, page domain.Page) ([]domain.DailyLog, error) {
	p := page.Normalized()
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+logColumns+`
		FROM daily_logs
		ORDER BY date DESC, rowid DESC
		LIMIT ? OFFSET ?`, p.Limit, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("storage.ListDailyLogs: query: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.DailyLog, 0, p.Limit)
	for rows.Next() {
		log, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("storage.ListDailyLogs: scan row: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// UpdateDailyLogNotes reemplaza las tres notas libres.
func (s *SQLiteStorage) UpdateDailyLogNotes(ctx context.Context, id string, notes domain.NotesInput) (domain.DailyLog, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE daily_logs SET key_levels = ?, feelings = ?, reflections = ?, updated_at = ?
		WHERE id = ?`,
		notes.KeyLevels, notes.Feelings, notes.Reflections, formatTS(s.now()), id,
	)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("storage.UpdateDailyLogNotes: %w", err)
	}
	if err := requireAffected(res, "daily log", id); err != nil {
		return domain.DailyLog{}, fmt.Errorf("storage.UpdateDailyLogNotes: %w", err)
	}
	return s.GetDailyLog(ctx, id)
}

// DeleteDailyLog borra la sesión y sus trades en una transacción.
func (s *SQLiteStorage) DeleteDailyLog(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.DeleteDailyLog: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE daily_log_id = ?`, id); err != nil {
		return fmt.Errorf("storage.DeleteDailyLog: trades: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM daily_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage.DeleteDailyLog: %w", err)
	}
	if err := requireAffected(res, "daily log", id); err != nil {
		return fmt.Errorf("storage.DeleteDailyLog: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.DeleteDailyLog: commit: %w", err)
	}
	return nil
}

// --- trades ---

// CreateTrade inserta un trade bajo dailyLogID. in ya debe traer los
// defaults de creación (ver domain.TradeInput.ApplyCreateDefaults).
func (s *SQLiteStorage) CreateTrade(ctx context.Context, dailyLogID string, in domain.TradeInput) (domain.Trade, error) {
	if in.TimeIn == "" || in.TimeOut == "" || in.ProfitLoss == nil ||
		in.OptionType == nil || in.OutcomeColor == nil || in.Strategy == nil {
		return domain.Trade{}, fmt.Errorf("storage.CreateTrade: incomplete input: %w", domain.ErrInvalidInput)
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_logs WHERE id = ?`, dailyLogID).Scan(&exists)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("storage.CreateTrade: lookup daily log: %w", err)
	}
	if exists == 0 {
		return domain.Trade{}, fmt.Errorf("storage.CreateTrade: daily log %s: %w", dailyLogID, ports.ErrNotFound)
	}

	runner := in.Runner != nil && *in.Runner
	now := formatTS(s.now())
	id := uuid.New().String()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trades (id, daily_log_id, time_in, time_out, profit_loss, runner,
		                    option_type, outcome_color, strategy, contracts_count,
		                    drip_percent, amount_leveraged, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, dailyLogID, in.TimeIn, in.TimeOut, *in.ProfitLoss, boolInt(runner),
		string(*in.OptionType), string(*in.OutcomeColor), string(*in.Strategy),
		nullInt(in.ContractsCount), nullFloat(in.DripPercent), nullFloat(in.AmountLeveraged),
		now, now,
	)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("storage.CreateTrade: insert: %w", err)
	}
	return s.getTrade(ctx, id)
}

// UpdateTrade escribe solo los campos presentes en in.
func (s *SQLiteStorage) UpdateTrade(ctx context.Context, id string, in domain.TradeInput) (domain.Trade, error) {
	sets, args := tradeSetClauses(in)
	if len(sets) == 0 {
		return s.getTrade(ctx, id) // no-op, pero ErrNotFound si no existe
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTS(s.now()), id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE trades SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("storage.UpdateTrade: %w", err)
	}
	if err := requireAffected(res, "trade", id); err != nil {
		return domain.Trade{}, fmt.Errorf("storage.UpdateTrade: %w", err)
	}
	return s.getTrade(ctx, id)
}

// DeleteTrade borra un trade y devuelve el id de la sesión a la que pertenecía.
func (s *SQLiteStorage) DeleteTrade(ctx context.Context, id string) (string, error) {
	var dailyLogID string
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM trades WHERE id = ? RETURNING daily_log_id`, id).Scan(&dailyLogID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("storage.DeleteTrade: trade %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("storage.DeleteTrade: %w", err)
	}
	return dailyLogID, nil
}

// ListTrades devuelve los trades cuya sesión está en el rango, en orden
// cronológico (fecha de sesión, timeIn, inserción).
func (s *SQLiteStorage) ListTrades(ctx context.Context, rng domain.DateRange) ([]domain.Trade, error) {
	var where []string
	var args []any
	if !rng.From.IsZero() {
		where = append(where, "l.date >= ?")
		args = append(args, rng.From.Format(domain.DateLayout))
	}
	if !rng.To.IsZero() {
		where = append(where, "l.date <= ?")
		args = append(args, rng.To.Format(domain.DateLayout))
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}
	trades, err := s.queryTrades(ctx, clause+` ORDER BY l.date ASC, t.time_in ASC, t.rowid ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("storage.ListTrades: %w", err)
	}
	return trades, nil
}

// --- helpers internos ---

func (s *SQLiteStorage) getTrade(ctx context.Context, id string) (domain.Trade, error) {
	trades, err := s.queryTrades(ctx, `WHERE t.id = ?`, id)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("storage.getTrade: %w", err)
	}
	if len(trades) == 0 {
		return domain.Trade{}, fmt.Errorf("storage.getTrade: trade %s: %w", id, ports.ErrNotFound)
	}
	return trades[0], nil
}

// queryTrades ejecuta el select trades ⋈ daily_logs con la cláusula final dada.
func (s *SQLiteStorage) queryTrades(ctx context.Context, tail string, args ...any) ([]domain.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades t
		JOIN daily_logs l ON l.id = t.daily_log_id
		`+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	trades := make([]domain.Trade, 0)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func tradeSetClauses(in domain.TradeInput) ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if in.TimeIn != "" {
		add("time_in", in.TimeIn)
	}
	if in.TimeOut != "" {
		add("time_out", in.TimeOut)
	}
	if in.ProfitLoss != nil {
		add("profit_loss", *in.ProfitLoss)
	}
	if in.Runner != nil {
		add("runner", boolInt(*in.Runner))
	}
	if in.OptionType != nil {
		add("option_type", string(*in.OptionType))
	}
	if in.OutcomeColor != nil {
		add("outcome_color", string(*in.OutcomeColor))
	}
	if in.Strategy != nil {
		add("strategy", string(*in.Strategy))
	}
	if in.ContractsCount != nil {
		add("contracts_count", *in.ContractsCount)
	}
	if in.DripPercent != nil {
		add("drip_percent", *in.DripPercent)
	}
	if in.AmountLeveraged != nil {
		add("amount_leveraged", *in.AmountLeveraged)
	}
	return sets, args
}

// scanner es compatible con *sql.Row y *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDailyLog(sc scanner) (domain.DailyLog, error) {
	var log domain.DailyLog
	var date, created, updated string
	var orb15, orb5, conf3 int
	if err := sc.Scan(
		&log.ID, &date, &log.Ticker, &orb15, &orb5, &conf3,
		&log.KeyLevels, &log.Feelings, &log.Reflections, &created, &updated,
	); err != nil {
		return domain.DailyLog{}, err
	}
	log.Date, _ = time.Parse(domain.DateLayout, date)
	log.StrategyORB15 = orb15 == 1
	log.StrategyORB5 = orb5 == 1
	log.Strategy3Conf = conf3 == 1
	log.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	log.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return log, nil
}

func scanTrade(sc scanner) (domain.Trade, error) {
	var t domain.Trade
	var runner int
	var optionType, outcome, strategy, created, updated, logDate string
	var contracts sql.NullInt64
	var drip, leveraged sql.NullFloat64

	if err := sc.Scan(
		&t.ID, &t.DailyLogID, &t.TimeIn, &t.TimeOut, &t.ProfitLoss, &runner,
		&optionType, &outcome, &strategy, &contracts,
		&drip, &leveraged, &created, &updated,
		&logDate, &t.Ticker,
	); err != nil {
		return domain.Trade{}, err
	}

	t.Runner = runner == 1
	t.OptionType = domain.OptionType(optionType)
	t.OutcomeColor = domain.OutcomeColor(outcome)
	t.Strategy = domain.Strategy(strategy)
	if contracts.Valid {
		c := int(contracts.Int64)
		t.ContractsCount = &c
	}
	if drip.Valid {
		t.DripPercent = &drip.Float64
	}
	if leveraged.Valid {
		t.AmountLeveraged = &leveraged.Float64
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	// Una fecha ilegible queda en cero; el agregador lo reporta como
	// AggregationInputError en lugar de inventar una semana.
	t.LogDate, _ = time.Parse(domain.DateLayout, logDate)
	return t, nil
}

func requireAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ports.ErrNotFound)
	}
	return nil
}

func formatTS(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
