package repository

import (
	"context"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer (receptor).
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error)
}
