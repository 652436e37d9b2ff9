package eta

import (
	"errors"
	"fmt"
	"strings"
)

// Kind clasifica un error del pipeline de envío para que el llamador lo trate de forma exhaustiva.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAlreadySubmitted
	KindNotSubmittable
	KindAuth
	KindRejected
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindAlreadySubmitted:
		return "ALREADY_SUBMITTED"
	case KindNotSubmittable:
		return "NOT_SUBMITTABLE"
	case KindAuth:
		return "AUTH_ERROR"
	case KindRejected:
		return "REJECTED"
	case KindTransient:
		return "TRANSIENT"
	}
	return "UNKNOWN"
}

var (
	// ErrAlreadySubmitted la factura ya tiene uuid asignado por la ETA.
	ErrAlreadySubmitted = errors.New("eta: la factura ya fue enviada a la ETA")
	// ErrNotSubmittable el estado de negocio (draft, cancelled, ...) no permite el envío.
	ErrNotSubmittable = errors.New("eta: el estado de la factura no permite el envío")
	// ErrNotCancellable solo se cancelan documentos válidos con uuid.
	ErrNotCancellable = errors.New("eta: el documento no se puede cancelar en su estado actual")
	// ErrNotSubmittedYet la factura no tiene uuid que consultar.
	ErrNotSubmittedYet = errors.New("eta: la factura no tiene uuid asignado")
	// ErrMalformedResponse la respuesta de la ETA no permite conciliar el lote.
	ErrMalformedResponse = errors.New("eta: respuesta de envío mal formada")
	// ErrNotSent el fallo ocurrió antes de que la petición saliera (p. ej. al obtener el token).
	// Se combina con el error de la causa, que conserva su clase.
	ErrNotSent = errors.New("eta: la petición no llegó a enviarse")
)

// ValidationError defectos locales detectados antes de cualquier llamada de red.
type ValidationError struct {
	Defects []string
}

func (e *ValidationError) Error() string {
	return "eta: factura inválida: " + strings.Join(e.Defects, "; ")
}

// AuthError credenciales ausentes o rechazadas por el servicio de identidad.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "eta: autenticación fallida"
	}
	return "eta: autenticación fallida: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

// RejectedError rechazo de negocio del documento por parte de la ETA.
// Messages conserva los mensajes por campo en el orden recibido.
type RejectedError struct {
	Messages []string
}

func (e *RejectedError) Error() string {
	return "eta: documento rechazado: " + e.Joined()
}

// Joined devuelve los mensajes unidos tal como se persisten en eta_error_message.
func (e *RejectedError) Joined() string {
	return strings.Join(e.Messages, "; ")
}

// TransientError fallo de red, timeout o 5xx; el único tipo que se reintenta.
type TransientError struct {
	StatusCode int // 0 si no hubo respuesta HTTP
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("eta: error transitorio (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("eta: error transitorio: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// KindOf clasifica err recorriendo la cadena de wrapping.
func KindOf(err error) Kind {
	var (
		ve *ValidationError
		ae *AuthError
		re *RejectedError
		te *TransientError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, ErrAlreadySubmitted):
		return KindAlreadySubmitted
	case errors.Is(err, ErrNotSubmittable), errors.Is(err, ErrNotCancellable), errors.Is(err, ErrNotSubmittedYet):
		return KindNotSubmittable
	case errors.As(err, &ae):
		return KindAuth
	case errors.As(err, &re):
		return KindRejected
	case errors.As(err, &te):
		return KindTransient
	}
	return KindUnknown
}

// IsTransient indica si err admite reintento.
func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}
