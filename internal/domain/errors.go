package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrLastSize     = errors.New("un producto debe tener al menos una talla")
	ErrUnauthorized = errors.New("no autorizado")
)

// ValidationError describe un campo rechazado antes de tocar la base de datos.
// Siempre cumple errors.Is(err, ErrInvalidInput); Err añade la causa concreta
// (ErrDuplicate, ErrLastSize) cuando aplica.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// Invalid construye un ValidationError simple.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFound envuelve ErrNotFound con el recurso buscado.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// PersistenceError falla de la capa de almacenamiento (transacción, conexión).
// Op identifica la operación de negocio que estaba en curso.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistencia (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsBusiness indica si err pertenece a la taxonomía de dominio (no debe envolverse como PersistenceError).
func IsBusiness(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthorized)
}
