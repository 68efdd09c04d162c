package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidQuantity     = fmt.Errorf("%w: la cantidad debe ser mayor que cero", ErrInvalidInput)
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidState        = errors.New("operación no permitida en el estado actual")
	ErrInvalidTransition   = errors.New("transición de estado inválida")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente la operación")
)

// ValidationError describe un campo de entrada rechazado antes de cualquier escritura.
// errors.Is(err, ErrInvalidInput) es true para cualquier ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError para el campo indicado.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// RepositoryError envuelve un fallo del almacenamiento subyacente. Se propaga tal cual al caller.
type RepositoryError struct {
	Op  string
	Err error
}

// NewRepositoryError envuelve err; devuelve nil si err es nil.
func NewRepositoryError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RepositoryError{Op: op, Err: err}
}

func (e *RepositoryError) Error() string {
	return "repositorio: " + e.Op + ": " + e.Err.Error()
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// Códigos estables expuestos a la capa HTTP y a los reportes de lote.
const (
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicate         = "DUPLICATE"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidState      = "INVALID_STATE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeConflict          = "CONCURRENCY_CONFLICT"
	CodeRepository        = "REPOSITORY"
	CodeInternal          = "INTERNAL"
)

// ErrorCode clasifica err según la taxonomía del dominio.
// Los errores de negocio tienen prioridad sobre RepositoryError porque el adaptador puede envolverlos.
func ErrorCode(err error) string {
	var repoErr *RepositoryError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrDuplicate):
		return CodeDuplicate
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrConcurrencyConflict):
		return CodeConflict
	case errors.As(err, &repoErr):
		return CodeRepository
	default:
		return CodeInternal
	}
}
