package ports

import (
	"context"

	"github.com/alejandrodnm/tradejournal/internal/domain"
)

// DailyLogStorage persiste las sesiones diarias.
type DailyLogStorage interface {
	CreateDailyLog(ctx context.Context, log domain.DailyLog) (domain.DailyLog, error)

	// GetDailyLog devuelve la sesión con sus trades ordenados por timeIn.
	GetDailyLog(ctx context.Context, id string) (domain.DailyLog, error)

	// ListDailyLogs devuelve una página de sesiones, la fecha más reciente primero.
	// Las sesiones devueltas no incluyen trades.
	ListDailyLogs(ctx context.Context, page domain.Page) ([]domain.DailyLog, error)

	UpdateDailyLogNotes(ctx context.Context, id string, notes domain.NotesInput) (domain.DailyLog, error)

	// DeleteDailyLog borra la sesión y todos sus trades.
	DeleteDailyLog(ctx context.Context, id string) error
}

// TradeStorage persiste los trades de cada sesión.
type TradeStorage interface {
	// CreateTrade falla con ErrNotFound si dailyLogID no existe.
	CreateTrade(ctx context.Context, dailyLogID string, in domain.TradeInput) (domain.Trade, error)

	// UpdateTrade aplica solo los campos presentes en in. Un input vacío no
	// modifica nada pero sigue fallando con ErrNotFound si el trade no existe.
	UpdateTrade(ctx context.Context, id string, in domain.TradeInput) (domain.Trade, error)

	// DeleteTrade devuelve el id de la sesión del trade borrado.
	DeleteTrade(ctx context.Context, id string) (string, error)

	// ListTrades devuelve los trades cuya sesión cae dentro de rng (inclusive).
	ListTrades(ctx context.Context, rng domain.DateRange) ([]domain.Trade, error)
}

// JournalStorage es el almacenamiento completo del diario.
type JournalStorage interface {
	DailyLogStorage
	TradeStorage

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
