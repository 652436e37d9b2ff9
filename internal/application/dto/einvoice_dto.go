package dto

import "time"

// ETAStatusResponse campos ETA persistidos de una factura.
type ETAStatusResponse struct {
	InvoiceID    string     `json:"invoiceId"`
	Status       string     `json:"status"`
	UUID         string     `json:"uuid,omitempty"`
	LongID       string     `json:"longId,omitempty"`
	HashKey      string     `json:"hashKey,omitempty"`
	SubmissionID string     `json:"submissionId,omitempty"`
	Fingerprint  string     `json:"fingerprint,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	Errors       []string   `json:"errors,omitempty"`
	SubmittedAt  *time.Time `json:"submittedAt,omitempty"`
}

// CancelETARequest body para POST /api/invoices/:id/eta/cancel.
type CancelETARequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ETAErrorResponse error del envío con el detalle que el cliente debe corregir.
// Defects lleva los defectos locales (VALIDATION); Messages, los mensajes de la ETA (REJECTED).
type ETAErrorResponse struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Defects  []string `json:"defects,omitempty"`
	Messages []string `json:"messages,omitempty"`
}
