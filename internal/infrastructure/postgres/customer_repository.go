package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente receptor.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO customers (id, company_id, name, receiver_type, tax_id, email, phone,
		                       ` + addressColumns + `, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	args := []any{c.ID, c.CompanyID, c.Name, c.ReceiverType, c.TaxID, c.Email, c.Phone}
	args = append(args, addressArgs(c.Address)...)
	args = append(args, c.CreatedAt, c.UpdatedAt)
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente de la empresa; nil, nil si no existe o pertenece a otra empresa.
func (r *CustomerRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error) {
	query := `
		SELECT id, company_id, name, receiver_type, tax_id, email, phone,
		       ` + addressColumns + `, created_at, updated_at
		FROM customers WHERE id = $1 AND company_id = $2`
	var c entity.Customer
	var addr addressRow
	dest := []any{&c.ID, &c.CompanyID, &c.Name, &c.ReceiverType, &c.TaxID, &c.Email, &c.Phone}
	dest = append(dest, addr.dest()...)
	dest = append(dest, &c.CreatedAt, &c.UpdatedAt)
	if err := r.q.QueryRow(ctx, query, id, companyID).Scan(dest...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	c.Address = addr.toEntity()
	return &c, nil
}
