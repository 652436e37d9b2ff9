package eta_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeLine_DescuentoAntesDeIVA(t *testing.T) {
	got := eta.ComputeLine(dec("3"), dec("100.005"), dec("10"), dec("14"))

	assert.Equal(t, "300.02", got.Sales.StringFixed(2), "3 × 100.005 = 300.015 → 300.02")
	assert.Equal(t, "30.00", got.Discount.StringFixed(2), "10 % de 300.02 = 30.002 → 30.00")
	assert.Equal(t, "270.02", got.Net.StringFixed(2))
	assert.Equal(t, "37.80", got.VAT.StringFixed(2), "14 % de 270.02 = 37.8028 → 37.80")
	assert.Equal(t, "307.82", got.Total.StringFixed(2))
}

func TestComputeLine_MitadSeAlejaDeCero(t *testing.T) {
	got := eta.ComputeLine(dec("1"), dec("0.125"), decimal.Zero, decimal.Zero)
	assert.Equal(t, "0.13", got.Sales.StringFixed(2))

	neg := eta.ComputeLine(dec("-1"), dec("0.125"), decimal.Zero, decimal.Zero)
	assert.Equal(t, "-0.13", neg.Sales.StringFixed(2))
}

func TestComputeLine_SinIVA(t *testing.T) {
	got := eta.ComputeLine(dec("2"), dec("50"), decimal.Zero, decimal.Zero)
	assert.True(t, got.VAT.IsZero())
	assert.True(t, got.Total.Equal(dec("100")))
}

func TestSumLines_SumaExactaDeLineasRedondeadas(t *testing.T) {
	lines := []eta.LineAmounts{
		eta.ComputeLine(dec("3"), dec("100.005"), dec("10"), dec("14")),
		eta.ComputeLine(dec("1"), dec("0.333"), decimal.Zero, dec("14")),
		eta.ComputeLine(dec("7"), dec("0.333"), dec("5"), dec("14")),
	}
	totals := eta.SumLines(lines)

	want := decimal.Zero
	for _, l := range lines {
		want = want.Add(l.Total)
	}
	assert.True(t, totals.Total.Equal(want), "total del documento = suma de totales de línea")
	assert.True(t, totals.Total.Equal(totals.Net.Add(totals.VAT)))
	assert.True(t, totals.Net.Equal(totals.Sales.Sub(totals.Discount)))
}

func TestFormatAmount_CincoDecimales(t *testing.T) {
	assert.Equal(t, "307.82000", eta.FormatAmount(dec("307.82")))
	assert.Equal(t, "0.00000", eta.FormatAmount(decimal.Zero))
	assert.Equal(t, "1234567.50000", eta.FormatAmount(dec("1234567.5")))
}

func TestFitsPlaces(t *testing.T) {
	assert.True(t, eta.FitsPlaces(decimal.RequireFromString("1.00004"), eta.QuantityPlaces))
	assert.True(t, eta.FitsPlaces(decimal.RequireFromString("1.500000"), eta.QuantityPlaces), "ceros a la derecha no cuentan")
	assert.False(t, eta.FitsPlaces(decimal.RequireFromString("1.000004"), eta.QuantityPlaces))
	assert.True(t, eta.FitsPlaces(decimal.RequireFromString("10.13"), eta.PercentPlaces))
	assert.False(t, eta.FitsPlaces(decimal.RequireFromString("10.125"), eta.PercentPlaces))
}
