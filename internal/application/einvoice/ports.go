// Package einvoice orquesta el envío de facturas a la ETA: guardas de estado, validación,
// construcción del documento canónico, envío y registro del veredicto.
package einvoice

import (
	"context"

	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con el repo de facturas atado a ella.
// Si fn devuelve nil se confirma; en otro caso se revierte.
type TxRunner interface {
	RunSubmission(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// DocumentBuilder construye el documento canónico firmado y su huella.
type DocumentBuilder interface {
	Build(a domaineta.Aggregate) (*domaineta.BuiltDocument, error)
}
