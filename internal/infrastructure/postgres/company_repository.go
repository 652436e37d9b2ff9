package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// addressColumns columnas de dirección compartidas por companies y customers (en este orden).
const addressColumns = `branch_id, country, governate, region_city, street, building_number,
		       postal_code, floor, room, landmark, additional_information`

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa emisora.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, tax_registration_number, activity_code, default_item_type, default_item_code,
		                       ` + addressColumns + `, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	args := []any{c.ID, c.Name, c.TaxRegistrationNumber, c.ActivityCode, c.DefaultItemType, c.DefaultItemCode}
	args = append(args, addressArgs(c.Address)...)
	args = append(args, c.Status, c.CreatedAt, c.UpdatedAt)
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `
		SELECT id, name, tax_registration_number, activity_code, default_item_type, default_item_code,
		       ` + addressColumns + `, status, created_at, updated_at
		FROM companies WHERE id = $1`
	var c entity.Company
	var addr addressRow
	dest := []any{&c.ID, &c.Name, &c.TaxRegistrationNumber, &c.ActivityCode, &c.DefaultItemType, &c.DefaultItemCode}
	dest = append(dest, addr.dest()...)
	dest = append(dest, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err := r.q.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	c.Address = addr.toEntity()
	return &c, nil
}

// addressRow destino de escaneo de una dirección con columnas opcionales.
type addressRow struct {
	entity.Address
	postalCode, floor, room, landmark, additional *string
}

func (a *addressRow) dest() []any {
	return []any{
		&a.BranchID, &a.Country, &a.Governate, &a.RegionCity, &a.Street, &a.BuildingNumber,
		&a.postalCode, &a.floor, &a.room, &a.landmark, &a.additional,
	}
}

func (a *addressRow) toEntity() entity.Address {
	out := a.Address
	out.PostalCode = derefStr(a.postalCode)
	out.Floor = derefStr(a.floor)
	out.Room = derefStr(a.room)
	out.Landmark = derefStr(a.landmark)
	out.AdditionalInformation = derefStr(a.additional)
	return out
}

func addressArgs(a entity.Address) []any {
	return []any{
		a.BranchID, a.Country, a.Governate, a.RegionCity, a.Street, a.BuildingNumber,
		nullIfEmpty(a.PostalCode), nullIfEmpty(a.Floor), nullIfEmpty(a.Room),
		nullIfEmpty(a.Landmark), nullIfEmpty(a.AdditionalInformation),
	}
}
