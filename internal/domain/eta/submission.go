package eta

import (
	"strings"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
)

// DocumentOutcome resultado síncrono de un documento dentro de un lote: Accepted o Rejected.
type DocumentOutcome interface {
	isDocumentOutcome()
}

// Accepted documento aceptado en el envío; los identificadores los asigna la ETA.
type Accepted struct {
	InternalID string
	UUID       string
	LongID     string
	HashKey    string
}

// Rejected documento rechazado en el envío con su error estructurado.
type Rejected struct {
	InternalID string
	Error      AuthorityError
}

func (Accepted) isDocumentOutcome() {}
func (Rejected) isDocumentOutcome() {}

// AuthorityError error estructurado de la ETA (con detalle por campo).
type AuthorityError struct {
	Code         string
	Message      string
	Target       string
	PropertyPath string
	Details      []AuthorityError
}

// Messages aplana el error: un mensaje por detalle hoja, prefijado con la ruta del campo.
func (e AuthorityError) Messages() []string {
	if len(e.Details) == 0 {
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			msg = e.Code
		}
		if e.PropertyPath != "" {
			return []string{e.PropertyPath + ": " + msg}
		}
		return []string{msg}
	}
	var out []string
	for _, d := range e.Details {
		out = append(out, d.Messages()...)
	}
	return out
}

// Submission respuesta de un envío de lote. Outcomes está indexado por huella del documento;
// cada documento enviado aparece exactamente una vez.
type Submission struct {
	SubmissionID string
	Outcomes     map[string]DocumentOutcome
}

// RemoteStatus estado del documento tal como lo informa la ETA.
type RemoteStatus string

const (
	RemoteSubmitted RemoteStatus = "Submitted"
	RemoteValid     RemoteStatus = "Valid"
	RemoteInvalid   RemoteStatus = "Invalid"
	RemoteRejected  RemoteStatus = "Rejected"
	RemoteCancelled RemoteStatus = "Cancelled"
)

// DocumentStatus resultado de consultar un documento ya aceptado.
type DocumentStatus struct {
	UUID   string
	Status RemoteStatus
	Errors []string // errores de los pasos de validación (Invalid)
}

// LocalStatus traduce el estado remoto al sub-estado local. ok=false si sigue en proceso
// o el estado no se reconoce.
func (s DocumentStatus) LocalStatus() (status string, ok bool) {
	switch s.Status {
	case RemoteValid:
		return entity.ETAStatusValid, true
	case RemoteInvalid:
		return entity.ETAStatusInvalid, true
	case RemoteRejected:
		return entity.ETAStatusRejected, true
	case RemoteCancelled:
		return entity.ETAStatusCancelled, true
	}
	return "", false
}
