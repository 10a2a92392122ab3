package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marca input corregible por el usuario fuera de los campos de
// hora (fecha de sesión ausente, rango inválido, campos obligatorios al crear).
var ErrInvalidInput = errors.New("invalid input")

// TimeFormatError lo devuelve Normalize cuando timeIn o timeOut no se pueden
// convertir en una hora. El usuario debe volver a introducir el valor.
type TimeFormatError struct {
	Field string
	Value string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("%s %q: time must be H:MM or HH:MM (e.g. 9:30 or 10:02)", e.Field, e.Value)
}

// InvalidFieldError solo aparece en los modos estrictos: números malformados
// o enums fuera del conjunto permitido.
type InvalidFieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

// AggregationInputError señala un trade sin fecha de sesión. Es un problema
// de integridad del storage, no algo que el usuario pueda corregir.
type AggregationInputError struct {
	TradeID string
}

func (e *AggregationInputError) Error() string {
	return fmt.Sprintf("trade %s has no daily log date", e.TradeID)
}
