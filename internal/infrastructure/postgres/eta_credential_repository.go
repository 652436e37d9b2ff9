package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
)

var _ repository.ETACredentialRepository = (*ETACredentialRepo)(nil)

// ETACredentialRepo almacén de credenciales ETA; el secreto se guarda ya cifrado.
type ETACredentialRepo struct {
	q Querier
}

// NewETACredentialRepository construye el adaptador.
func NewETACredentialRepository(q Querier) *ETACredentialRepo {
	return &ETACredentialRepo{q: q}
}

// GetByCompany devuelve nil, nil si la empresa no tiene credenciales configuradas.
func (r *ETACredentialRepo) GetByCompany(ctx context.Context, companyID string) (*entity.ETACredential, error) {
	query := `
		SELECT company_id, client_id, client_secret_encrypted, environment, updated_at
		FROM eta_credentials WHERE company_id = $1`
	var c entity.ETACredential
	err := r.q.QueryRow(ctx, query, companyID).Scan(
		&c.CompanyID, &c.ClientID, &c.ClientSecretEncrypted, &c.Environment, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get eta credential: %w", err)
	}
	return &c, nil
}

// Upsert crea o reemplaza las credenciales de la empresa.
func (r *ETACredentialRepo) Upsert(ctx context.Context, c *entity.ETACredential) error {
	query := `
		INSERT INTO eta_credentials (company_id, client_id, client_secret_encrypted, environment, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id) DO UPDATE SET
			client_id = EXCLUDED.client_id,
			client_secret_encrypted = EXCLUDED.client_secret_encrypted,
			environment = EXCLUDED.environment,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, c.CompanyID, c.ClientID, c.ClientSecretEncrypted, c.Environment, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert eta credential: %w", err)
	}
	return nil
}
