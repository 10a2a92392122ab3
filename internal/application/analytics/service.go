package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/tradejournal/internal/domain"
)

// TradeLister es lo mínimo que el servicio necesita del storage.
type TradeLister interface {
	ListTrades(ctx context.Context, rng domain.DateRange) ([]domain.Trade, error)
}

// Service calcula las vistas de analytics y las cachea por rango hasta que
// llega un ChangeEvent.
type Service struct {
	trades TradeLister

	mu    sync.Mutex
	cache map[string]domain.Analytics
	gen   uint64 // se incrementa en cada Invalidate
}

// New crea el servicio.
func New(trades TradeLister) *Service {
	return &Service{trades: trades, cache: make(map[string]domain.Analytics)}
}

// Compute devuelve las vistas para los trades cuyo día de sesión cae en rng.
func (s *Service) Compute(ctx context.Context, rng domain.DateRange) (domain.Analytics, error) {
	key := rng.Key()

	s.mu.Lock()
	if a, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return a, nil
	}
	gen := s.gen
	s.mu.Unlock()

	trades, err := s.trades.ListTrades(ctx, rng)
	if err != nil {
		return domain.Analytics{}, fmt.Errorf("analytics.Compute: list trades: %w", err)
	}
	a, err := domain.Aggregate(trades)
	if err != nil {
		return domain.Analytics{}, fmt.Errorf("analytics.Compute: %w", err)
	}

	// Si hubo un Invalidate mientras se listaba, el resultado puede ser
	// anterior a la mutación: se devuelve pero no se cachea.
	s.mu.Lock()
	if s.gen == gen {
		s.cache[key] = a
	}
	s.mu.Unlock()

	slog.Debug("analytics computed", "range", key, "trades", a.Summary.TotalTrades)
	return a, nil
}

// Weeks devuelve las últimas n semanas del rango (n <= 0: todas).
func (s *Service) Weeks(ctx context.Context, rng domain.DateRange, n int) ([]domain.WeekRow, error) {
	a, err := s.Compute(ctx, rng)
	if err != nil {
		return nil, err
	}
	return domain.LastWeeks(a.Weeks, n), nil
}

// Invalidate descarta todo lo cacheado. Tiene la firma de ports.ChangeListener
// para registrarse con journal.Service.OnChange.
func (s *Service) Invalidate(ev domain.ChangeEvent) {
	s.mu.Lock()
	n := len(s.cache)
	s.gen++
	s.cache = make(map[string]domain.Analytics)
	s.mu.Unlock()

	if n > 0 {
		slog.Debug("analytics cache invalidated", "kind", ev.Kind, "entries", n)
	}
}
