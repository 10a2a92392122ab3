package httpapi

import (
	"net/http"
	"strings"

	"github.com/alejandrodnm/tradejournal/internal/domain"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- daily logs ---

func (s *Server) handleListDailyLogs(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logs, err := s.journal.ListDailyLogs(r.Context(), domain.Page{Number: page, Limit: limit})
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]dailyLogView, 0, len(logs))
	for _, l := range logs {
		views = append(views, toDailyLogView(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{"dailyLogs": views})
}

func (s *Server) handleCreateDailyLog(w http.ResponseWriter, r *http.Request) {
	var in domain.DailyLogInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	log, err := s.journal.CreateDailyLog(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"dailyLog": toDailyLogDetail(log)})
}

func (s *Server) handleGetDailyLog(w http.ResponseWriter, r *http.Request) {
	log, err := s.journal.GetDailyLog(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dailyLog": toDailyLogDetail(log)})
}

func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var notes domain.NotesInput
	if err := decodeJSON(w, r, &notes); err != nil {
		writeError(w, r, err)
		return
	}
	log, err := s.journal.UpdateNotes(r.Context(), r.PathValue("id"), notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dailyLog": toDailyLogDetail(log)})
}

func (s *Server) handleDeleteDailyLog(w http.ResponseWriter, r *http.Request) {
	if err := s.journal.DeleteDailyLog(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- trades ---

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	trades, err := s.journal.ListTrades(r.Context(), rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trades": trades})
}

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeRawFields(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logID := strings.TrimSpace(raw["dailyLogId"])
	if logID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "dailyLogId is required", Field: "dailyLogId"})
		return
	}
	delete(raw, "dailyLogId")

	tr, err := s.journal.CreateTrade(r.Context(), logID, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"trade": tr})
}

func (s *Server) handleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeRawFields(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tr, err := s.journal.UpdateTrade(r.Context(), r.PathValue("id"), raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trade": tr})
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := s.journal.DeleteTrade(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- analytics ---

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	weeks, err := queryInt(r, "weeks", s.cfg.DefaultWeeks)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.analytics.Compute(r.Context(), rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyticsView{
		Strategies: toStrategyViews(a.Strategies),
		Weeks:      toWeekViews(domain.LastWeeks(a.Weeks, weeks)),
		Summary:    toSummaryView(a.Summary),
	})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.analytics.Compute(r.Context(), rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"strategies": toStrategyViews(a.Strategies)})
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := queryInt(r, "weeks", s.cfg.DefaultWeeks)
	if err != nil {
		writeError(w, r, err)
		return
	}
	weeks, err := s.analytics.Weeks(r.Context(), rng, n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"weeks": toWeekViews(weeks)})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.analytics.Compute(r.Context(), rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryView(a.Summary))
}
