package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alejandrodnm/tradejournal/internal/domain"
	"github.com/alejandrodnm/tradejournal/internal/ports"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("http encode response", "err", err)
	}
}

// writeError traduce errores de dominio/storage a códigos HTTP.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		tfe *domain.TimeFormatError
		ife *domain.InvalidFieldError
		aie *domain.AggregationInputError
	)
	switch {
	case errors.As(err, &tfe):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: tfe.Error(), Field: tfe.Field})
	case errors.As(err, &ife):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ife.Error(), Field: ife.Field})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, ports.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.As(err, &aie):
		slog.Error("analytics data integrity", "path", r.URL.Path, "trade_id", aie.TradeID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "data integrity: " + aie.Error()})
	default:
		slog.Error("http handler failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %v: %w", err, domain.ErrInvalidInput)
	}
	return nil
}

// decodeRawFields lee un objeto JSON y convierte cada valor escalar al texto
// que habría enviado el formulario. null se convierte en "".
func decodeRawFields(w http.ResponseWriter, r *http.Request) (domain.RawFields, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %v: %w", err, domain.ErrInvalidInput)
	}

	raw := make(domain.RawFields, len(body))
	for k, v := range body {
		switch val := v.(type) {
		case nil:
			raw[k] = ""
		case string:
			raw[k] = val
		case json.Number:
			raw[k] = val.String()
		case bool:
			raw[k] = strconv.FormatBool(val)
		default:
			return nil, &domain.InvalidFieldError{Field: k, Value: fmt.Sprint(val), Reason: "must be a string, number, boolean or null"}
		}
	}
	return raw, nil
}

// queryInt lee un entero opcional de la query string; vacío → def.
func queryInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s %q must be a non-negative integer: %w", name, s, domain.ErrInvalidInput)
	}
	return n, nil
}

func queryRange(r *http.Request) (domain.DateRange, error) {
	q := r.URL.Query()
	return domain.ParseDateRange(q.Get("from"), q.Get("to"))
}
