package eta

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

// dateTimeLayout formato de dateTimeIssued (UTC, sin fracciones).
const dateTimeLayout = "2006-01-02T15:04:05Z"

// DefaultTolerance diferencia máxima admitida entre totales almacenados y recalculados.
var DefaultTolerance = decimal.RequireFromString("0.01")

// Builder construye el documento canónico, su huella y su firma.
type Builder struct {
	tolerance decimal.Decimal
	signer    eta.Signer // nil: documento sin firma (versión 0.9, solo preprod)
}

// NewBuilder crea el builder. Una tolerancia negativa usa DefaultTolerance.
func NewBuilder(tolerance decimal.Decimal, signer eta.Signer) *Builder {
	if tolerance.IsNegative() {
		tolerance = DefaultTolerance
	}
	return &Builder{tolerance: tolerance, signer: signer}
}

// Build proyecta el agregado en el documento de la ETA. Recalcula todos los importes desde
// cantidad, precio, descuento e IVA; si difieren de los almacenados más allá de la tolerancia
// devuelve *ValidationError. La huella no depende de la firma.
func (b *Builder) Build(a domaineta.Aggregate) (*domaineta.BuiltDocument, error) {
	if a.Invoice == nil || a.Company == nil || a.Customer == nil {
		return nil, fmt.Errorf("eta: faltan factura, empresa o cliente en el agregado")
	}
	doc, err := b.document(a)
	if err != nil {
		return nil, err
	}

	unsigned, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("eta: serializar documento: %w", err)
	}
	canonical, err := Serialize(unsigned)
	if err != nil {
		return nil, err
	}

	payload := unsigned
	if b.signer != nil {
		sig, err := b.signer.Sign(canonical)
		if err != nil {
			return nil, fmt.Errorf("eta: firmar documento: %w", err)
		}
		doc.Signatures = []Signature{{SignatureType: eta.SignatureTypeIssuer, Value: sig}}
		if payload, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("eta: serializar documento firmado: %w", err)
		}
	}

	return &domaineta.BuiltDocument{
		InternalID:  doc.InternalID,
		Fingerprint: Fingerprint(canonical),
		Canonical:   canonical,
		Payload:     payload,
	}, nil
}

func (b *Builder) document(a domaineta.Aggregate) (*Document, error) {
	inv := a.Invoice
	currency := inv.Currency
	if currency == "" {
		currency = eta.CurrencyEGP
	}

	amounts := a.LineAmounts()
	var drift []string
	lines := make([]Line, 0, len(inv.Lines))
	for i, l := range inv.Lines {
		ref, ok := domaineta.ResolveItem(l, a.Product(l), a.Company)
		if !ok {
			return nil, &domaineta.ValidationError{Defects: []string{
				fmt.Sprintf("línea %d: sin código de artículo ETA resoluble", i+1),
			}}
		}
		la := amounts[i]
		if !b.within(l.Total, la.Total) || !b.within(l.VAT, la.VAT) {
			drift = append(drift, fmt.Sprintf("línea %d: total almacenado %s / IVA %s difiere del recalculado %s / %s",
				i+1, l.Total.StringFixed(2), l.VAT.StringFixed(2), la.Total.StringFixed(2), la.VAT.StringFixed(2)))
		}
		lines = append(lines, b.line(l, a.Product(l), ref, la, currency))
	}

	totals := eta.SumLines(amounts)
	drift = append(drift, b.headerDrift(inv, totals)...)
	if len(drift) > 0 {
		return nil, &domaineta.ValidationError{Defects: drift}
	}

	version := eta.DocumentVersionUnsigned
	if b.signer != nil {
		version = eta.DocumentVersionSigned
	}

	return &Document{
		Issuer:                   issuer(a.Company),
		Receiver:                 receiver(a.Customer),
		DocumentType:             eta.DocumentTypeInvoice,
		DocumentTypeVersion:      version,
		DateTimeIssued:           inv.Date.UTC().Format(dateTimeLayout),
		TaxpayerActivityCode:     a.Company.ActivityCode,
		InternalID:               inv.Number,
		InvoiceLines:             lines,
		TotalDiscountAmount:      Amount(totals.Discount),
		TotalSalesAmount:         Amount(totals.Sales),
		NetAmount:                Amount(totals.Net),
		TaxTotals:                []TaxTotal{{TaxType: eta.TaxTypeVAT, Amount: Amount(totals.VAT)}},
		TotalAmount:              Amount(totals.Total),
		ExtraDiscountAmount:      Amount(decimal.Zero),
		TotalItemsDiscountAmount: Amount(decimal.Zero),
	}, nil
}

func (b *Builder) line(l *entity.InvoiceLine, p *entity.Product, ref domaineta.ItemRef, la eta.LineAmounts, currency string) Line {
	internalCode := strconv.Itoa(l.Position)
	if p != nil && p.SKU != "" {
		internalCode = p.SKU
	}
	subType := eta.TaxSubTypeVATGeneral
	if l.VATRate.IsZero() {
		subType = eta.TaxSubTypeVATExempt
	}
	return Line{
		Description:      l.Description,
		ItemType:         ref.Type,
		ItemCode:         ref.Code,
		UnitType:         ref.Unit,
		Quantity:         Amount(l.Quantity),
		InternalCode:     internalCode,
		SalesTotal:       Amount(la.Sales),
		Total:            Amount(la.Total),
		ValueDifference:  Amount(decimal.Zero),
		TotalTaxableFees: Amount(decimal.Zero),
		NetTotal:         Amount(la.Net),
		ItemsDiscount:    Amount(decimal.Zero),
		UnitValue:        UnitValue{CurrencySold: currency, AmountEGP: Amount(l.UnitPrice)},
		Discount:         Discount{Rate: Amount(l.DiscountPercent), Amount: Amount(la.Discount)},
		TaxableItems: []TaxableItem{{
			TaxType: eta.TaxTypeVAT,
			Amount:  Amount(la.VAT),
			SubType: subType,
			Rate:    Amount(l.VATRate),
		}},
	}
}

func (b *Builder) headerDrift(inv *entity.Invoice, t eta.Totals) []string {
	checks := []struct {
		name           string
		stored, actual decimal.Decimal
	}{
		{"subtotal", inv.Subtotal, t.Sales},
		{"descuento", inv.DiscountTotal, t.Discount},
		{"IVA", inv.VATTotal, t.VAT},
		{"total", inv.Total, t.Total},
	}
	var out []string
	for _, c := range checks {
		if !b.within(c.stored, c.actual) {
			out = append(out, fmt.Sprintf("%s almacenado %s difiere del recalculado %s",
				c.name, c.stored.StringFixed(2), c.actual.StringFixed(2)))
		}
	}
	return out
}

func (b *Builder) within(stored, actual decimal.Decimal) bool {
	return stored.Sub(actual).Abs().LessThanOrEqual(b.tolerance)
}

func issuer(c *entity.Company) Party {
	return Party{
		Address: address(c.Address),
		Type:    eta.ReceiverTypeBusiness,
		ID:      eta.NormalizeID(c.TaxRegistrationNumber),
		Name:    c.Name,
	}
}

func receiver(c *entity.Customer) Party {
	id := c.TaxID
	if c.ReceiverType != eta.ReceiverTypeForeigner {
		id = eta.NormalizeID(id)
	}
	return Party{
		Address: address(c.Address),
		Type:    c.ReceiverType,
		ID:      id,
		Name:    c.Name,
	}
}

func address(a entity.Address) Address {
	branch := a.BranchID
	if branch == "" {
		branch = "0"
	}
	country := a.Country
	if country == "" {
		country = eta.CountryEG
	}
	return Address{
		BranchID:              branch,
		Country:               country,
		Governate:             a.Governate,
		RegionCity:            a.RegionCity,
		Street:                a.Street,
		BuildingNumber:        a.BuildingNumber,
		PostalCode:            a.PostalCode,
		Floor:                 a.Floor,
		Room:                  a.Room,
		Landmark:              a.Landmark,
		AdditionalInformation: a.AdditionalInformation,
	}
}
