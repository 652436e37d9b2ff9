package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eta-einvoice/internal/application/dto"
	"github.com/jhoicas/eta-einvoice/internal/application/usecase"
	"github.com/jhoicas/eta-einvoice/internal/domain"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
)

type companyRepo struct{ byID map[string]*entity.Company }

func (r *companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.byID[c.ID] = c
	return nil
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return r.byID[id], nil
}

type credRepo struct{ byCompany map[string]*entity.ETACredential }

func (r *credRepo) GetByCompany(_ context.Context, companyID string) (*entity.ETACredential, error) {
	return r.byCompany[companyID], nil
}

func (r *credRepo) Upsert(_ context.Context, c *entity.ETACredential) error {
	r.byCompany[c.CompanyID] = c
	return nil
}

// reverseSealer cifrado de juguete: invierte los bytes.
type reverseSealer struct{ err error }

func (s reverseSealer) Seal(p []byte) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]byte, len(p))
	for i := range p {
		out[len(p)-1-i] = p[i]
	}
	return out, nil
}

func newCompanyUC(sealer usecase.SecretSealer) (*usecase.CompanyUseCase, *companyRepo, *credRepo) {
	companies := &companyRepo{byID: map[string]*entity.Company{}}
	creds := &credRepo{byCompany: map[string]*entity.ETACredential{}}
	return usecase.NewCompanyUseCase(companies, creds, sealer, ""), companies, creds
}

func validCompany() dto.CreateCompanyRequest {
	return dto.CreateCompanyRequest{
		Name:                  "Acme Egypt",
		TaxRegistrationNumber: "100-324-932",
		ActivityCode:          "4620",
		Address: dto.AddressDTO{
			Governate: "Cairo", RegionCity: "Nasr City", Street: "El Tayaran", BuildingNumber: "12",
		},
	}
}

func TestCompanyCreate_NormalizaRINYDireccion(t *testing.T) {
	uc, companies, _ := newCompanyUC(reverseSealer{})

	out, err := uc.Create(context.Background(), validCompany())
	require.NoError(t, err)

	assert.Equal(t, "100324932", out.TaxRegistrationNumber)
	assert.Equal(t, "active", out.Status)
	stored := companies.byID[out.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "0", stored.Address.BranchID)
	assert.Equal(t, "EG", stored.Address.Country)
}

func TestCompanyCreate_RechazaRINInvalido(t *testing.T) {
	uc, companies, _ := newCompanyUC(reverseSealer{})
	in := validCompany()
	in.TaxRegistrationNumber = "12345"

	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, companies.byID)
}

func TestCompanyCreate_RechazaTipoDeItemDesconocido(t *testing.T) {
	uc, _, _ := newCompanyUC(reverseSealer{})
	in := validCompany()
	in.DefaultItemType = "UPC"

	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetETACredentials_GuardaSecretoCifrado(t *testing.T) {
	uc, _, creds := newCompanyUC(reverseSealer{})
	company, err := uc.Create(context.Background(), validCompany())
	require.NoError(t, err)

	out, err := uc.SetETACredentials(context.Background(), company.ID, dto.SetETACredentialsRequest{
		ClientID: " cid ", ClientSecret: "abc",
	})
	require.NoError(t, err)

	assert.Equal(t, "cid", out.ClientID)
	assert.Equal(t, "preprod", out.Environment, "ambiente por defecto")
	stored := creds.byCompany[company.ID]
	require.NotNil(t, stored)
	assert.Equal(t, []byte("cba"), stored.ClientSecretEncrypted)
}

func TestSetETACredentials_Errores(t *testing.T) {
	uc, _, creds := newCompanyUC(reverseSealer{})
	ctx := context.Background()
	company, err := uc.Create(ctx, validCompany())
	require.NoError(t, err)

	_, err = uc.SetETACredentials(ctx, company.ID, dto.SetETACredentialsRequest{ClientID: "cid"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "secreto requerido")

	_, err = uc.SetETACredentials(ctx, company.ID, dto.SetETACredentialsRequest{ClientID: "cid", ClientSecret: "s", Environment: "staging"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ambiente desconocido")

	_, err = uc.SetETACredentials(ctx, "no-existe", dto.SetETACredentialsRequest{ClientID: "cid", ClientSecret: "s"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	failing, companies, failingCreds := newCompanyUC(reverseSealer{err: errors.New("sin clave")})
	companies.byID[company.ID] = &entity.Company{ID: company.ID}
	_, err = failing.SetETACredentials(ctx, company.ID, dto.SetETACredentialsRequest{ClientID: "cid", ClientSecret: "s"})
	assert.EqualError(t, err, "sin clave")

	assert.Empty(t, creds.byCompany)
	assert.Empty(t, failingCreds.byCompany)
}
