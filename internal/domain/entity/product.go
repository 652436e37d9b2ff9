package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio del catálogo.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	VATRate     decimal.Decimal // 14 = 14 %
	ETAItemType string          // GS1 | EGS
	ETAItemCode string
	UnitType    string // EA, KGM, ...
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
