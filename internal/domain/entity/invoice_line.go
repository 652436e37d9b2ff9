package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

// InvoiceLine representa una línea de la factura.
// Subtotal, Discount, VAT y Total son derivados: se recalculan con Recompute
// cada vez que cambia cantidad, precio, descuento o tarifa.
type InvoiceLine struct {
	ID              string
	InvoiceID       string
	Position        int
	ProductID       string // opcional: líneas de texto libre
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal // 10 = 10 %
	VATRate         decimal.Decimal // 14 = 14 %
	ETAItemType     string          // GS1 | EGS; vacío = tomar del producto o de la empresa
	ETAItemCode     string
	UnitType        string

	Subtotal decimal.Decimal
	Discount decimal.Decimal
	VAT      decimal.Decimal
	Total    decimal.Decimal
}

// Recompute recalcula los importes derivados con la regla de redondeo por etapas.
func (l *InvoiceLine) Recompute() {
	a := eta.ComputeLine(l.Quantity, l.UnitPrice, l.DiscountPercent, l.VATRate)
	l.Subtotal = a.Sales
	l.Discount = a.Discount
	l.VAT = a.VAT
	l.Total = a.Total
}

// Amounts devuelve los importes derivados de la línea (sin recalcular).
func (l *InvoiceLine) Amounts() eta.LineAmounts {
	return eta.LineAmounts{
		Sales:    l.Subtotal,
		Discount: l.Discount,
		Net:      l.Subtotal.Sub(l.Discount),
		VAT:      l.VAT,
		Total:    l.Total,
	}
}
