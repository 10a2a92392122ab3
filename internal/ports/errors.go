package ports

import "errors"

// Los adapters envuelven con estos errores las búsquedas de ids inexistentes.
var (
	ErrNotFound = errors.New("resource not found")
)
