package repository

import (
	"context"
	"time"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// Los métodos que devuelven una factura cargan también sus líneas ordenadas por posición.
type InvoiceRepository interface {
	// Create inserta la cabecera y sus líneas.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error)
	// GetForUpdate bloquea la fila de la factura hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error)
	// UpdateETA escribe solo los campos eta_* de la factura.
	UpdateETA(ctx context.Context, invoice *entity.Invoice) error
	// ListByETAStatus devuelve cabeceras (sin líneas) en el sub-estado indicado: primero las nunca
	// consultadas, luego por eta_checked_at y updated_at ascendentes.
	ListByETAStatus(ctx context.Context, etaStatus string, limit int) ([]*entity.Invoice, error)
	// MarkChecked registra una consulta de estado aunque el sub-estado no cambie.
	MarkChecked(ctx context.Context, companyID, id string, at time.Time) error
}
