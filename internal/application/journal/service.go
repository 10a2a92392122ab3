package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/tradejournal/internal/domain"
	"github.com/alejandrodnm/tradejournal/internal/ports"
)

// Service orquesta el diario: normaliza input crudo, persiste y publica
// un ChangeEvent tras cada mutación exitosa.
type Service struct {
	store ports.JournalStorage
	opts  domain.NormalizeOptions
	now   func() time.Time

	mu        sync.RWMutex
	listeners []ports.ChangeListener
}

// New crea el servicio sobre el storage dado.
func New(store ports.JournalStorage, opts domain.NormalizeOptions) *Service {
	return &Service{
		store: store,
		opts:  opts,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// OnChange registra un listener. Los listeners se llaman en orden de registro,
// de forma síncrona, después de que la mutación se haya confirmado.
func (s *Service) OnChange(l ports.ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Service) publish(kind domain.ChangeKind, dailyLogID, tradeID string) {
	ev := domain.ChangeEvent{Kind: kind, DailyLogID: dailyLogID, TradeID: tradeID, At: s.now()}

	s.mu.RLock()
	listeners := append([]ports.ChangeListener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}

// --- daily logs ---

// CreateDailyLog valida y guarda una sesión nueva.
func (s *Service) CreateDailyLog(ctx context.Context, in domain.DailyLogInput) (domain.DailyLog, error) {
	log, err := domain.NewDailyLog(in)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("journal.CreateDailyLog: %w", err)
	}
	created, err := s.store.CreateDailyLog(ctx, log)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("journal.CreateDailyLog: %w", err)
	}
	s.publish(domain.DailyLogCreated, created.ID, "")
	return created, nil
}

// GetDailyLog devuelve la sesión con sus trades.
func (s *Service) GetDailyLog(ctx context.Context, id string) (domain.DailyLog, error) {
	log, err := s.store.GetDailyLog(ctx, id)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("journal.GetDailyLog: %w", err)
	}
	return log, nil
}

// ListDailyLogs pagina las sesiones, más recientes primero.
func (s *Service) ListDailyLogs(ctx context.Context, page domain.Page) ([]domain.DailyLog, error) {
	logs, err := s.store.ListDailyLogs(ctx, page.Normalized())
	if err != nil {
		return nil, fmt.Errorf("journal.ListDailyLogs: %w", err)
	}
	return logs, nil
}

// UpdateNotes reemplaza keyLevels, feelings y reflections.
func (s *Service) UpdateNotes(ctx context.Context, id string, notes domain.NotesInput) (domain.DailyLog, error) {
	log, err := s.store.UpdateDailyLogNotes(ctx, id, notes)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("journal.UpdateNotes: %w", err)
	}
	s.publish(domain.DailyLogUpdated, id, "")
	return log, nil
}

// DeleteDailyLog borra la sesión y todos sus trades.
func (s *Service) DeleteDailyLog(ctx context.Context, id string) error {
	if err := s.store.DeleteDailyLog(ctx, id); err != nil {
		return fmt.Errorf("journal.DeleteDailyLog: %w", err)
	}
	s.publish(domain.DailyLogDeleted, id, "")
	return nil
}

// --- trades ---

// CreateTrade normaliza los valores del formulario de entrada, aplica los
// defaults de creación y guarda el trade bajo dailyLogID.
func (s *Service) CreateTrade(ctx context.Context, dailyLogID string, raw domain.RawFields) (domain.Trade, error) {
	in, err := domain.Normalize(raw, s.opts)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("journal.CreateTrade: %w", err)
	}
	in, err = in.ApplyCreateDefaults()
	if err != nil {
		return domain.Trade{}, fmt.Errorf("journal.CreateTrade: %w", err)
	}

	tr, err := s.store.CreateTrade(ctx, dailyLogID, in)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("journal.CreateTrade: %w", err)
	}
	slog.Debug("trade created", "id", tr.ID, "daily_log_id", dailyLogID, "pl", domain.FormatPL(tr.ProfitLoss))
	s.publish(domain.TradeCreated, dailyLogID, tr.ID)
	return tr, nil
}

// UpdateTrade normaliza los valores del formulario de edición y aplica solo
// los campos presentes. timeIn y timeOut siguen siendo obligatorios.
func (s *Service) UpdateTrade(ctx context.Context, id string, raw domain.RawFields) (domain.Trade, error) {
	in, err := domain.Normalize(raw, s.opts)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("journal.UpdateTrade: %w", err)
	}

	tr, err := s.store.UpdateTrade(ctx, id, in)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("journal.UpdateTrade: %w", err)
	}
	s.publish(domain.TradeUpdated, tr.DailyLogID, tr.ID)
	return tr, nil
}

// DeleteTrade borra un trade.
func (s *Service) DeleteTrade(ctx context.Context, id string) error {
	dailyLogID, err := s.store.DeleteTrade(ctx, id)
	if err != nil {
		return fmt.Errorf("journal.DeleteTrade: %w", err)
	}
	s.publish(domain.TradeDeleted, dailyLogID, id)
	return nil
}

// ListTrades devuelve los trades del rango en orden cronológico.
func (s *Service) ListTrades(ctx context.Context, rng domain.DateRange) ([]domain.Trade, error) {
	trades, err := s.store.ListTrades(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("journal.ListTrades: %w", err)
	}
	return trades, nil
}
