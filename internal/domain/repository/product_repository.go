package repository

import (
	"context"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByIDs devuelve los productos encontrados indexados por ID; los inexistentes se omiten.
	GetByIDs(ctx context.Context, companyID string, ids []string) (map[string]*entity.Product, error)
}
