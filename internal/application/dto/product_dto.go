package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto con su codificación ETA.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	ETAItemType string          `json:"eta_item_type" validate:"omitempty,oneof=GS1 EGS"`
	ETAItemCode string          `json:"eta_item_code"`
	UnitType    string          `json:"unit_type"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	ETAItemType string          `json:"eta_item_type,omitempty"`
	ETAItemCode string          `json:"eta_item_code,omitempty"`
	UnitType    string          `json:"unit_type"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
