package eta

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineAmounts importes derivados de una línea tras aplicar el redondeo por etapas.
type LineAmounts struct {
	Sales    decimal.Decimal // round2(cantidad × precio)
	Discount decimal.Decimal // round2(sales × descuento%)
	Net      decimal.Decimal // sales − discount
	VAT      decimal.Decimal // round2(net × IVA%)
	Total    decimal.Decimal // net + VAT
}

// Totals agregados del documento: sumas simples de los importes ya redondeados por línea.
type Totals struct {
	Sales    decimal.Decimal
	Discount decimal.Decimal
	Net      decimal.Decimal
	VAT      decimal.Decimal
	Total    decimal.Decimal
}

// RoundMinor redondea a la unidad mínima de la moneda (2 decimales, mitad alejándose de cero).
func RoundMinor(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnitPlaces)
}

// FitsPlaces indica si d no tiene decimales significativos más allá de places.
// Una entrada que no cabe cambiaría al guardarse y dejaría los importes derivados desalineados.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

// ComputeLine aplica la regla de redondeo de la ETA: primero el descuento, redondeado,
// y después el IVA sobre la base neta ya descontada.
func ComputeLine(quantity, unitPrice, discountPercent, vatRate decimal.Decimal) LineAmounts {
	sales := RoundMinor(quantity.Mul(unitPrice))
	discount := RoundMinor(sales.Mul(discountPercent).Div(hundred))
	net := sales.Sub(discount)
	vat := RoundMinor(net.Mul(vatRate).Div(hundred))
	return LineAmounts{
		Sales:    sales,
		Discount: discount,
		Net:      net,
		VAT:      vat,
		Total:    net.Add(vat),
	}
}

// SumLines suma los importes de línea sin volver a redondear.
func SumLines(lines []LineAmounts) Totals {
	var t Totals
	for _, l := range lines {
		t.Sales = t.Sales.Add(l.Sales)
		t.Discount = t.Discount.Add(l.Discount)
		t.Net = t.Net.Add(l.Net)
		t.VAT = t.VAT.Add(l.VAT)
		t.Total = t.Total.Add(l.Total)
	}
	return t
}

// FormatAmount escribe un importe con exactamente WirePlaces decimales, punto como separador
// y sin agrupación de miles.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(WirePlaces)
}
