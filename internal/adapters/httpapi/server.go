package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alejandrodnm/tradejournal/internal/domain"
	"golang.org/x/time/rate"
)

// Journal es lo que la API necesita del servicio de diario.
type Journal interface {
	CreateDailyLog(ctx context.Context, in domain.DailyLogInput) (domain.DailyLog, error)
	GetDailyLog(ctx context.Context, id string) (domain.DailyLog, error)
	ListDailyLogs(ctx context.Context, page domain.Page) ([]domain.DailyLog, error)
	UpdateNotes(ctx context.Context, id string, notes domain.NotesInput) (domain.DailyLog, error)
	DeleteDailyLog(ctx context.Context, id string) error

	CreateTrade(ctx context.Context, dailyLogID string, raw domain.RawFields) (domain.Trade, error)
	UpdateTrade(ctx context.Context, id string, raw domain.RawFields) (domain.Trade, error)
	DeleteTrade(ctx context.Context, id string) error
	ListTrades(ctx context.Context, rng domain.DateRange) ([]domain.Trade, error)
}

// Analytics es lo que la API necesita del servicio de analytics.
type Analytics interface {
	Compute(ctx context.Context, rng domain.DateRange) (domain.Analytics, error)
	Weeks(ctx context.Context, rng domain.DateRange, n int) ([]domain.WeekRow, error)
}

// Config contiene la configuración del servidor HTTP.
type Config struct {
	Addr              string
	RequestsPerSecond float64
	Burst             int
	ReadTimeout       time.Duration
	DefaultWeeks      int // semanas por defecto en /analytics y /analytics/weekly
}

// Server expone el diario como API JSON.
type Server struct {
	cfg       Config
	journal   Journal
	analytics Analytics
	limiter   *rate.Limiter
}

// NewServer crea el servidor. Un RequestsPerSecond <= 0 desactiva el límite.
func NewServer(cfg Config, j Journal, a Analytics) *Server {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Server{
		cfg:       cfg,
		journal:   j,
		analytics: a,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

// Handler devuelve el router con el middleware aplicado.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /daily-logs", s.handleListDailyLogs)
	mux.HandleFunc("POST /daily-logs", s.handleCreateDailyLog)
	mux.HandleFunc("GET /daily-logs/{id}", s.handleGetDailyLog)
	mux.HandleFunc("PUT /daily-logs/{id}", s.handleUpdateNotes)
	mux.HandleFunc("DELETE /daily-logs/{id}", s.handleDeleteDailyLog)

	mux.HandleFunc("GET /trades", s.handleListTrades)
	mux.HandleFunc("POST /trades", s.handleCreateTrade)
	mux.HandleFunc("PATCH /trades/{id}", s.handleUpdateTrade)
	mux.HandleFunc("DELETE /trades/{id}", s.handleDeleteTrade)

	mux.HandleFunc("GET /analytics", s.handleAnalytics)
	mux.HandleFunc("GET /analytics/strategies", s.handleStrategies)
	mux.HandleFunc("GET /analytics/weekly", s.handleWeekly)
	mux.HandleFunc("GET /analytics/summary", s.handleSummary)

	return s.logRequests(s.rateLimit(mux))
}

// Run sirve hasta que ctx se cancele y luego hace un shutdown ordenado.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.cfg.Addr,
		Handler:     s.Handler(),
		ReadTimeout: s.cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpapi.Run: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpapi.Run: shutdown: %w", err)
	}
	slog.Info("http server stopped")
	return nil
}

// rateLimit aplica un token bucket global; sin tokens responde 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start).Round(time.Microsecond),
		)
	})
}
