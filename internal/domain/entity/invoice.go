package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

// Estados de negocio de la factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusConfirmed = "confirmed"
	InvoiceStatusApproved  = "approved"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Estados de envío a la ETA (sub-estado independiente del estado de negocio).
const (
	ETAStatusNone      = "none"      // Nunca enviada
	ETAStatusPending   = "pending"   // Envío con resultado desconocido (reintentos agotados)
	ETAStatusSubmitted = "submitted" // Aceptada en el envío, validación asíncrona pendiente
	ETAStatusValid     = "valid"     // Validada por la ETA
	ETAStatusInvalid   = "invalid"   // Invalidada por la ETA tras el procesamiento
	ETAStatusRejected  = "rejected"  // Rechazada en el envío (o por el receptor)
	ETAStatusCancelled = "cancelled" // Cancelada ante la ETA
)

// Invoice representa la cabecera de una factura con su sub-estado ETA.
type Invoice struct {
	ID         string
	CompanyID  string
	CustomerID string
	Number     string // internalID del documento ETA
	Date       time.Time
	Currency   string
	Status     string // ver InvoiceStatus*

	Subtotal      decimal.Decimal // suma de salesTotal de las líneas
	DiscountTotal decimal.Decimal
	NetTotal      decimal.Decimal
	VATTotal      decimal.Decimal
	Total         decimal.Decimal

	Lines []*InvoiceLine

	// Campos ETA: solo los escribe el orquestador de envío.
	ETAStatus       string
	ETAUUID         string
	ETALongID       string
	ETAHashKey      string
	ETASubmissionID string
	ETAFingerprint  string // SHA-256 de la serialización canónica del último intento decidido
	ETAErrorMessage string
	// ETAErrorMessages mensajes de la ETA tal como llegaron; ETAErrorMessage es su versión unida.
	ETAErrorMessages []string
	ETASubmittedAt   *time.Time
	// ETACheckedAt última consulta de estado del conciliador periódico.
	ETACheckedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSubmittable indica si el estado de negocio permite enviar la factura a la ETA.
func (i *Invoice) IsSubmittable() bool {
	switch i.Status {
	case InvoiceStatusConfirmed, InvoiceStatusApproved, InvoiceStatusSent:
		return true
	}
	return false
}

// HasAuthorityUUID indica si la ETA ya asignó un uuid (nunca se reenvía).
func (i *Invoice) HasAuthorityUUID() bool {
	return i.ETAUUID != ""
}

// CurrentETAStatus devuelve el sub-estado ETA, tratando el vacío como "none".
func (i *Invoice) CurrentETAStatus() string {
	if i.ETAStatus == "" {
		return ETAStatusNone
	}
	return i.ETAStatus
}

// RecomputeTotals recalcula cada línea y los totales de cabecera como suma de las líneas.
func (i *Invoice) RecomputeTotals() {
	amounts := make([]eta.LineAmounts, 0, len(i.Lines))
	for _, l := range i.Lines {
		l.Recompute()
		amounts = append(amounts, l.Amounts())
	}
	t := eta.SumLines(amounts)
	i.Subtotal = t.Sales
	i.DiscountTotal = t.Discount
	i.NetTotal = t.Net
	i.VATTotal = t.VAT
	i.Total = t.Total
}
