package billing

import (
	"context"

	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con el repo de facturas atado a ella.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}
