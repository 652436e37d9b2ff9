package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
// ReceiverType: B (contribuyente), P (persona), F (extranjero).
type CreateCustomerRequest struct {
	Name         string     `json:"name"`
	ReceiverType string     `json:"receiver_type"`
	TaxID        string     `json:"tax_id"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Address      AddressDTO `json:"address"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	Name         string     `json:"name"`
	ReceiverType string     `json:"receiver_type"`
	TaxID        string     `json:"tax_id,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Address      AddressDTO `json:"address"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Confirm deja la factura en estado confirmed, lista para enviarse a la ETA.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id"`
	Number     string               `json:"number,omitempty"` // opcional; si va vacío se genera
	Date       *time.Time           `json:"date,omitempty"`
	Confirm    bool                 `json:"confirm"`
	Items      []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de factura. Con ProductID, UnitPrice cero toma el precio del producto
// y IVA, ítem y unidad salen del producto. Sin ProductID es una línea libre: description y
// vat_rate son obligatorios; el ítem puede omitirse y se usa el de la empresa.
// Cantidad y precio admiten hasta 5 decimales; descuento e IVA, 2.
type InvoiceItemRequest struct {
	ProductID       string           `json:"product_id,omitempty"`
	Description     string           `json:"description,omitempty"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	VATRate         *decimal.Decimal `json:"vat_rate,omitempty"`
	ETAItemType     string           `json:"eta_item_type,omitempty"`
	ETAItemCode     string           `json:"eta_item_code,omitempty"`
	UnitType        string           `json:"unit_type,omitempty"`
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	CompanyID     string                `json:"company_id"`
	CustomerID    string                `json:"customer_id"`
	CustomerName  string                `json:"customer_name,omitempty"`
	Number        string                `json:"number"`
	Date          string                `json:"date"`
	Currency      string                `json:"currency"`
	Status        string                `json:"status"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	DiscountTotal decimal.Decimal       `json:"discount_total"`
	NetTotal      decimal.Decimal       `json:"net_total"`
	VATTotal      decimal.Decimal       `json:"vat_total"`
	Total         decimal.Decimal       `json:"total"`
	ETAStatus     string                `json:"eta_status"`
	ETAUUID       string                `json:"eta_uuid,omitempty"`
	Lines         []InvoiceLineResponse `json:"lines"`
}

// InvoiceLineResponse línea de detalle en la respuesta.
type InvoiceLineResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	VAT             decimal.Decimal `json:"vat"`
	Total           decimal.Decimal `json:"total"`
}
