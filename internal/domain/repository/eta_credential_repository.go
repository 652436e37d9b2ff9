package repository

import (
	"context"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
)

// ETACredentialRepository almacén cifrado de credenciales ETA por empresa.
type ETACredentialRepository interface {
	// GetByCompany devuelve nil, nil si la empresa no tiene credenciales.
	GetByCompany(ctx context.Context, companyID string) (*entity.ETACredential, error)
	Upsert(ctx context.Context, cred *entity.ETACredential) error
}
