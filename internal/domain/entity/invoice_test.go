package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecomputeTotals_SumaDeLineasRedondeadas(t *testing.T) {
	inv := &entity.Invoice{Lines: []*entity.InvoiceLine{
		{Quantity: d("3"), UnitPrice: d("100.005"), DiscountPercent: d("10"), VATRate: d("14")},
		{Quantity: d("1"), UnitPrice: d("0.335"), VATRate: d("14")},
	}}
	inv.RecomputeTotals()

	l1 := inv.Lines[0]
	assert.Equal(t, "300.02", l1.Subtotal.StringFixed(2))
	assert.Equal(t, "30.00", l1.Discount.StringFixed(2))
	assert.Equal(t, "37.80", l1.VAT.StringFixed(2))
	assert.Equal(t, "307.82", l1.Total.StringFixed(2))

	l2 := inv.Lines[1]
	assert.Equal(t, "0.34", l2.Subtotal.StringFixed(2))
	assert.Equal(t, "0.05", l2.VAT.StringFixed(2))

	assert.True(t, inv.Subtotal.Equal(l1.Subtotal.Add(l2.Subtotal)))
	assert.True(t, inv.VATTotal.Equal(l1.VAT.Add(l2.VAT)))
	assert.True(t, inv.Total.Equal(l1.Total.Add(l2.Total)))
	assert.True(t, inv.NetTotal.Equal(inv.Subtotal.Sub(inv.DiscountTotal)))
}

func TestInvoice_EstadosETA(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceStatusDraft}
	assert.False(t, inv.IsSubmittable())
	assert.Equal(t, entity.ETAStatusNone, inv.CurrentETAStatus())
	assert.False(t, inv.HasAuthorityUUID())

	for _, s := range []string{entity.InvoiceStatusConfirmed, entity.InvoiceStatusApproved, entity.InvoiceStatusSent} {
		inv.Status = s
		assert.True(t, inv.IsSubmittable(), s)
	}
	inv.Status = entity.InvoiceStatusCancelled
	assert.False(t, inv.IsSubmittable())

	inv.ETAUUID = "X"
	assert.True(t, inv.HasAuthorityUUID())
}
