package ports

import (
	"context"

	"github.com/alejandrodnm/tradejournal/internal/domain"
)

// Reporter presenta las analíticas al usuario.
type Reporter interface {
	// Report muestra el resumen, el rendimiento por estrategia y el semanal.
	// En la implementación de consola, imprime tablas formateadas.
	Report(ctx context.Context, rng domain.DateRange, a domain.Analytics) error
}

// ChangeListener recibe cada mutación confirmada del diario.
// Se invoca de forma síncrona tras el commit; no debe bloquear.
type ChangeListener func(domain.ChangeEvent)
