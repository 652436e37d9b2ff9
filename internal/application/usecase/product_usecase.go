package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/eta-einvoice/internal/application/dto"
	"github.com/jhoicas/eta-einvoice/internal/domain"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

var maxVATRate = decimal.NewFromInt(100)

// ProductUseCase casos de uso para el catálogo de productos con su codificación ETA.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Tipo y código de ítem van juntos o ninguno
// (en ese caso se usa el código por defecto de la empresa al enviar).
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.VATRate.IsNegative() || in.VATRate.GreaterThan(maxVATRate) {
		return nil, domain.ErrInvalidInput
	}
	if !eta.FitsPlaces(in.Price, eta.QuantityPlaces) || !eta.FitsPlaces(in.VATRate, eta.PercentPlaces) {
		return nil, fmt.Errorf("%w: precio hasta %d decimales, IVA hasta %d", domain.ErrInvalidInput, eta.QuantityPlaces, eta.PercentPlaces)
	}
	if (in.ETAItemType == "") != (in.ETAItemCode == "") {
		return nil, fmt.Errorf("%w: eta_item_type y eta_item_code van juntos", domain.ErrInvalidInput)
	}
	if in.ETAItemType != "" && !eta.ValidItemTypes[in.ETAItemType] {
		return nil, fmt.Errorf("%w: tipo de ítem %q", domain.ErrInvalidInput, in.ETAItemType)
	}
	if in.UnitType == "" {
		in.UnitType = eta.UnitEach
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         strings.TrimSpace(in.SKU),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		VATRate:     in.VATRate,
		ETAItemType: in.ETAItemType,
		ETAItemCode: in.ETAItemCode,
		UnitType:    in.UnitType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		VATRate:     p.VATRate,
		ETAItemType: p.ETAItemType,
		ETAItemCode: p.ETAItemCode,
		UnitType:    p.UnitType,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
