package eta_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
	infraeta "github.com/jhoicas/eta-einvoice/internal/infrastructure/eta"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func address() entity.Address {
	return entity.Address{Country: "EG", Governate: "Cairo", RegionCity: "Nasr City", Street: "El Tayaran", BuildingNumber: "12"}
}

func aggregate() domaineta.Aggregate {
	inv := &entity.Invoice{
		ID: "inv-1", CompanyID: "co-1", Number: "F-0001",
		Date:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("EET", 2*3600)),
		Status: entity.InvoiceStatusConfirmed,
		Lines: []*entity.InvoiceLine{
			{Position: 1, ProductID: "p-1", Description: "Consultoría", Quantity: dec("3"), UnitPrice: dec("100.005"), DiscountPercent: dec("10"), VATRate: dec("14")},
			{Position: 2, Description: "Envío", Quantity: dec("1"), UnitPrice: dec("20"), DiscountPercent: decimal.Zero, VATRate: decimal.Zero},
		},
	}
	inv.RecomputeTotals()
	return domaineta.Aggregate{
		Invoice: inv,
		Company: &entity.Company{
			ID: "co-1", Name: "Acme Egypt", TaxRegistrationNumber: "100-324-932", ActivityCode: "4620",
			DefaultItemType: "EGS", DefaultItemCode: "EG-100324932-1", Address: address(),
		},
		Customer: &entity.Customer{ID: "cu-1", Name: "Nile Trading", ReceiverType: "B", TaxID: "200100300", Address: address()},
		Products: map[string]*entity.Product{
			"p-1": {ID: "p-1", SKU: "SKU-1", ETAItemType: "GS1", ETAItemCode: "10003752", UnitType: "EA"},
		},
	}
}

type fakeSigner struct {
	got []byte
}

func (f *fakeSigner) Sign(canonical []byte) (string, error) {
	f.got = append([]byte(nil), canonical...)
	return "c2lnbmF0dXJl", nil
}

func decodeNumbers(t *testing.T, payload []byte) map[string]any {
	t.Helper()
	d := json.NewDecoder(bytes.NewReader(payload))
	d.UseNumber()
	var m map[string]any
	require.NoError(t, d.Decode(&m))
	return m
}

func TestBuild_DeterministaYCincoDecimales(t *testing.T) {
	b := infraeta.NewBuilder(infraeta.DefaultTolerance, nil)

	first, err := b.Build(aggregate())
	require.NoError(t, err)
	second, err := b.Build(aggregate())
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint, second.Fingerprint, "misma factura, misma huella")
	assert.Equal(t, first.Payload, second.Payload)
	assert.Equal(t, infraeta.Fingerprint(first.Canonical), first.Fingerprint)

	doc := decodeNumbers(t, first.Payload)
	assert.Equal(t, json.Number("327.82000"), doc["totalAmount"])
	assert.Equal(t, json.Number("320.02000"), doc["totalSalesAmount"])
	assert.Equal(t, json.Number("30.00000"), doc["totalDiscountAmount"])
	assert.Equal(t, json.Number("290.02000"), doc["netAmount"])
	assert.Equal(t, "0.9", doc["documentTypeVersion"], "sin firmante se emite la versión sin firma")
	assert.Equal(t, "2026-03-01T08:00:00Z", doc["dateTimeIssued"], "la fecha viaja en UTC")
	assert.NotContains(t, doc, "signatures")

	issuer := doc["issuer"].(map[string]any)
	assert.Equal(t, "100324932", issuer["id"], "el RIN viaja sin separadores")
}

func TestBuild_MapeoDeLineasEImpuestos(t *testing.T) {
	built, err := infraeta.NewBuilder(infraeta.DefaultTolerance, nil).Build(aggregate())
	require.NoError(t, err)

	var doc infraeta.Document
	require.NoError(t, json.Unmarshal(built.Payload, &doc))
	require.Len(t, doc.InvoiceLines, 2)

	l1 := doc.InvoiceLines[0]
	assert.Equal(t, "GS1", l1.ItemType)
	assert.Equal(t, "10003752", l1.ItemCode)
	assert.Equal(t, "SKU-1", l1.InternalCode)
	assert.Equal(t, "V009", l1.TaxableItems[0].SubType)
	assert.True(t, l1.TaxableItems[0].Amount.Decimal().Equal(dec("37.80")))

	l2 := doc.InvoiceLines[1]
	assert.Equal(t, "EGS", l2.ItemType, "sin producto se usa el código por defecto de la empresa")
	assert.Equal(t, "EG-100324932-1", l2.ItemCode)
	assert.Equal(t, "EA", l2.UnitType)
	assert.Equal(t, "2", l2.InternalCode)
	assert.Equal(t, "V003", l2.TaxableItems[0].SubType, "tarifa cero → V003")

	require.Len(t, doc.TaxTotals, 1)
	assert.Equal(t, "T1", doc.TaxTotals[0].TaxType)
	assert.True(t, doc.TaxTotals[0].Amount.Decimal().Equal(dec("37.80")))
}

func TestBuild_TotalDelDocumentoEsSumaDeLineas(t *testing.T) {
	built, err := infraeta.NewBuilder(infraeta.DefaultTolerance, nil).Build(aggregate())
	require.NoError(t, err)

	var doc infraeta.Document
	require.NoError(t, json.Unmarshal(built.Payload, &doc))
	sum := decimal.Zero
	for _, l := range doc.InvoiceLines {
		sum = sum.Add(l.Total.Decimal())
	}
	assert.True(t, doc.TotalAmount.Decimal().Equal(sum))
}

func TestBuild_DesviacionDeTotalesEsDefecto(t *testing.T) {
	a := aggregate()
	a.Invoice.Total = a.Invoice.Total.Add(dec("0.02"))

	_, err := infraeta.NewBuilder(infraeta.DefaultTolerance, nil).Build(a)
	var ve *domaineta.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Defects, 1)
	assert.Contains(t, ve.Defects[0], "total almacenado")
}

func TestBuild_DesviacionDentroDeTolerancia(t *testing.T) {
	a := aggregate()
	a.Invoice.Total = a.Invoice.Total.Add(dec("0.01"))

	_, err := infraeta.NewBuilder(infraeta.DefaultTolerance, nil).Build(a)
	assert.NoError(t, err)
}

func TestBuild_FirmaSobreLaSerializacionCanonica(t *testing.T) {
	signer := &fakeSigner{}
	built, err := infraeta.NewBuilder(infraeta.DefaultTolerance, signer).Build(aggregate())
	require.NoError(t, err)

	assert.Equal(t, built.Canonical, signer.got, "se firma exactamente la serialización canónica")
	assert.NotContains(t, string(built.Canonical), `"SIGNATURES"`)

	var doc infraeta.Document
	require.NoError(t, json.Unmarshal(built.Payload, &doc))
	assert.Equal(t, "1.0", doc.DocumentTypeVersion)
	require.Len(t, doc.Signatures, 1)
	assert.Equal(t, "I", doc.Signatures[0].SignatureType)
	assert.Equal(t, "c2lnbmF0dXJl", doc.Signatures[0].Value)

	recanon, err := infraeta.Serialize(built.Payload)
	require.NoError(t, err)
	assert.Equal(t, built.Canonical, recanon, "la firma no altera la huella")
}
