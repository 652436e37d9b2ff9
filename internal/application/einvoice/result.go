package einvoice

import (
	"time"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
)

// Result vista de los campos ETA de una factura tras una operación.
type Result struct {
	InvoiceID    string
	Status       string
	UUID         string
	LongID       string
	HashKey      string
	SubmissionID string
	Fingerprint  string
	ErrorMessage string
	Errors       []string // mensajes individuales de la ETA (rejected, invalid)
	SubmittedAt  *time.Time
}

func resultOf(inv *entity.Invoice) *Result {
	return &Result{
		InvoiceID:    inv.ID,
		Status:       inv.CurrentETAStatus(),
		UUID:         inv.ETAUUID,
		LongID:       inv.ETALongID,
		HashKey:      inv.ETAHashKey,
		SubmissionID: inv.ETASubmissionID,
		Fingerprint:  inv.ETAFingerprint,
		ErrorMessage: inv.ETAErrorMessage,
		Errors:       inv.ETAErrorMessages,
		SubmittedAt:  inv.ETASubmittedAt,
	}
}

// ReconcileReport resumen de un ciclo de conciliación por lotes.
type ReconcileReport struct {
	Checked int
	Updated int
	Failed  int
}
