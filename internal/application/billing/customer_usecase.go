package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/eta-einvoice/internal/application/dto"
	"github.com/jhoicas/eta-einvoice/internal/application/usecase"
	"github.com/jhoicas/eta-einvoice/internal/domain"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

// CustomerUseCase casos de uso para clientes (receptores de la factura).
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente. El identificador se valida según el tipo de receptor;
// el umbral de 50.000 EGP para personas se comprueba al enviar la factura.
func (uc *CustomerUseCase) Create(ctx context.Context, companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	rt := strings.ToUpper(strings.TrimSpace(in.ReceiverType))
	if rt == "" {
		rt = eta.ReceiverTypeBusiness
	}
	if !eta.ValidReceiverTypes[rt] {
		return nil, fmt.Errorf("%w: tipo de receptor %q", domain.ErrInvalidInput, in.ReceiverType)
	}
	taxID, err := normalizeReceiverID(rt, in.TaxID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         strings.TrimSpace(in.Name),
		ReceiverType: rt,
		TaxID:        taxID,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      usecase.AddressFromDTO(in.Address),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente de la empresa.
func (uc *CustomerUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

func normalizeReceiverID(receiverType, id string) (string, error) {
	id = strings.TrimSpace(id)
	switch receiverType {
	case eta.ReceiverTypeBusiness:
		if err := eta.ValidateRIN(id); err != nil {
			return "", err
		}
		return eta.NormalizeID(id), nil
	case eta.ReceiverTypePerson:
		if id == "" {
			return "", nil
		}
		if err := eta.ValidateNationalID(id); err != nil {
			return "", err
		}
		return eta.NormalizeID(id), nil
	}
	if id == "" {
		return "", fmt.Errorf("eta: el receptor extranjero requiere identificación")
	}
	return id, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:           c.ID,
		CompanyID:    c.CompanyID,
		Name:         c.Name,
		ReceiverType: c.ReceiverType,
		TaxID:        c.TaxID,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      usecase.AddressToDTO(c.Address),
	}
}
