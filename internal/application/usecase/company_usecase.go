package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/eta-einvoice/internal/application/dto"
	"github.com/jhoicas/eta-einvoice/internal/domain"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

// SecretSealer cifra el client_secret antes de persistirlo.
type SecretSealer interface {
	Seal(plaintext []byte) ([]byte, error)
}

// CompanyUseCase aplica reglas de negocio para empresas emisoras (casos de uso).
type CompanyUseCase struct {
	repo   repository.CompanyRepository
	creds  repository.ETACredentialRepository
	sealer SecretSealer
	defEnv string
}

// NewCompanyUseCase construye el caso de uso. defaultEnv se usa cuando las credenciales no indican ambiente.
func NewCompanyUseCase(repo repository.CompanyRepository, creds repository.ETACredentialRepository, sealer SecretSealer, defaultEnv string) *CompanyUseCase {
	if defaultEnv == "" {
		defaultEnv = eta.EnvironmentPreprod
	}
	return &CompanyUseCase{repo: repo, creds: creds, sealer: sealer, defEnv: defaultEnv}
}

// Create crea una nueva empresa. Genera ID y estado inicial.
// Devuelve domain.ErrInvalidInput si el RIN o el código de ítem por defecto no son válidos.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.ActivityCode) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := eta.ValidateRIN(in.TaxRegistrationNumber); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.DefaultItemType != "" && !eta.ValidItemTypes[in.DefaultItemType] {
		return nil, fmt.Errorf("%w: tipo de ítem %q", domain.ErrInvalidInput, in.DefaultItemType)
	}
	now := time.Now()
	company := &entity.Company{
		ID:                    uuid.New().String(),
		Name:                  strings.TrimSpace(in.Name),
		TaxRegistrationNumber: eta.NormalizeID(in.TaxRegistrationNumber),
		ActivityCode:          strings.TrimSpace(in.ActivityCode),
		DefaultItemType:       in.DefaultItemType,
		DefaultItemCode:       in.DefaultItemCode,
		Address:               AddressFromDTO(in.Address),
		Status:                "active",
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	return entityToCompanyResponse(company), nil
}

// SetETACredentials registra o reemplaza las credenciales del portal ETA de la empresa.
// El secreto solo se persiste cifrado.
func (uc *CompanyUseCase) SetETACredentials(ctx context.Context, companyID string, in dto.SetETACredentialsRequest) (*dto.ETACredentialsResponse, error) {
	if strings.TrimSpace(in.ClientID) == "" || in.ClientSecret == "" {
		return nil, domain.ErrInvalidInput
	}
	env := in.Environment
	if env == "" {
		env = uc.defEnv
	}
	if !eta.ValidEnvironments[env] {
		return nil, fmt.Errorf("%w: ambiente %q", domain.ErrInvalidInput, env)
	}
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	sealed, err := uc.sealer.Seal([]byte(in.ClientSecret))
	if err != nil {
		return nil, err
	}
	cred := &entity.ETACredential{
		CompanyID:             companyID,
		ClientID:              strings.TrimSpace(in.ClientID),
		ClientSecretEncrypted: sealed,
		Environment:           env,
		UpdatedAt:             time.Now(),
	}
	if err := uc.creds.Upsert(ctx, cred); err != nil {
		return nil, err
	}
	return &dto.ETACredentialsResponse{
		CompanyID:   cred.CompanyID,
		ClientID:    cred.ClientID,
		Environment: cred.Environment,
		UpdatedAt:   cred.UpdatedAt,
	}, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:                    c.ID,
		Name:                  c.Name,
		TaxRegistrationNumber: c.TaxRegistrationNumber,
		ActivityCode:          c.ActivityCode,
		DefaultItemType:       c.DefaultItemType,
		DefaultItemCode:       c.DefaultItemCode,
		Address:               AddressToDTO(c.Address),
		Status:                c.Status,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

// AddressFromDTO convierte la dirección de entrada; sede "0" y país EG por defecto.
func AddressFromDTO(a dto.AddressDTO) entity.Address {
	branch := a.BranchID
	if branch == "" {
		branch = "0"
	}
	country := strings.ToUpper(strings.TrimSpace(a.Country))
	if country == "" {
		country = eta.CountryEG
	}
	return entity.Address{
		BranchID:              branch,
		Country:               country,
		Governate:             a.Governate,
		RegionCity:            a.RegionCity,
		Street:                a.Street,
		BuildingNumber:        a.BuildingNumber,
		PostalCode:            a.PostalCode,
		Floor:                 a.Floor,
		Room:                  a.Room,
		Landmark:              a.Landmark,
		AdditionalInformation: a.AdditionalInformation,
	}
}

// AddressToDTO convierte la dirección de la entidad para respuestas.
func AddressToDTO(a entity.Address) dto.AddressDTO {
	return dto.AddressDTO{
		BranchID:              a.BranchID,
		Country:               a.Country,
		Governate:             a.Governate,
		RegionCity:            a.RegionCity,
		Street:                a.Street,
		BuildingNumber:        a.BuildingNumber,
		PostalCode:            a.PostalCode,
		Floor:                 a.Floor,
		Room:                  a.Room,
		Landmark:              a.Landmark,
		AdditionalInformation: a.AdditionalInformation,
	}
}
