package service

import (
	"errors"
	"fmt"
)

var (
	// ErrConflicto: the source changed between read and write.
	ErrConflicto    = errors.New("El saldo de la fuente cambió, recalcule la operación")
	ErrNoEncontrado = errors.New("recurso no encontrado")

	// ErrCredenciales covers an unknown login, an inactive account and a wrong
	// password alike.
	ErrCredenciales = errors.New("Usuario o contraseña incorrectos")
	ErrSesion       = errors.New("La sesión expiró, inicie sesión nuevamente")
)

// ValidacionError carries field-keyed messages for a 422 response.
type ValidacionError struct {
	Campos map[string]string
}

func (e *ValidacionError) Error() string {
	return fmt.Sprintf("Error de validacion (%d campos)", len(e.Campos))
}

func errorCampo(campo, msg string) *ValidacionError {
	return &ValidacionError{Campos: map[string]string{campo: msg}}
}
