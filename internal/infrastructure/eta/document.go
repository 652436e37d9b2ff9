// Package eta implementa el documento canónico de la ETA (Egipto), su serialización para
// huella y firma, y el cliente HTTP del protocolo (token, envío, estado, cancelación).
package eta

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

// Amount importe que viaja como número JSON con exactamente 5 decimales.
type Amount decimal.Decimal

// MarshalJSON escribe el número sin comillas y sin depender del locale.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(eta.FormatAmount(decimal.Decimal(a))), nil
}

// UnmarshalJSON acepta el número tal como lo devuelve la ETA.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*a = Amount(d)
	return nil
}

// Decimal devuelve el valor como decimal.Decimal.
func (a Amount) Decimal() decimal.Decimal { return decimal.Decimal(a) }

// Document documento de factura v1.0. El orden de los campos es el del esquema de la ETA
// y determina la serialización canónica.
type Document struct {
	Issuer                   Party       `json:"issuer"`
	Receiver                 Party       `json:"receiver"`
	DocumentType             string      `json:"documentType"`
	DocumentTypeVersion      string      `json:"documentTypeVersion"`
	DateTimeIssued           string      `json:"dateTimeIssued"`
	TaxpayerActivityCode     string      `json:"taxpayerActivityCode"`
	InternalID               string      `json:"internalID"`
	InvoiceLines             []Line      `json:"invoiceLines"`
	TotalDiscountAmount      Amount      `json:"totalDiscountAmount"`
	TotalSalesAmount         Amount      `json:"totalSalesAmount"`
	NetAmount                Amount      `json:"netAmount"`
	TaxTotals                []TaxTotal  `json:"taxTotals"`
	TotalAmount              Amount      `json:"totalAmount"`
	ExtraDiscountAmount      Amount      `json:"extraDiscountAmount"`
	TotalItemsDiscountAmount Amount      `json:"totalItemsDiscountAmount"`
	Signatures               []Signature `json:"signatures,omitempty"`
}

// Party emisor o receptor.
type Party struct {
	Address Address `json:"address"`
	Type    string  `json:"type"`
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name"`
}

// Address dirección de la parte.
type Address struct {
	BranchID              string `json:"branchID,omitempty"`
	Country               string `json:"country"`
	Governate             string `json:"governate"`
	RegionCity            string `json:"regionCity"`
	Street                string `json:"street"`
	BuildingNumber        string `json:"buildingNumber"`
	PostalCode            string `json:"postalCode,omitempty"`
	Floor                 string `json:"floor,omitempty"`
	Room                  string `json:"room,omitempty"`
	Landmark              string `json:"landmark,omitempty"`
	AdditionalInformation string `json:"additionalInformation,omitempty"`
}

// Line línea de factura.
type Line struct {
	Description      string        `json:"description"`
	ItemType         string        `json:"itemType"`
	ItemCode         string        `json:"itemCode"`
	UnitType         string        `json:"unitType"`
	Quantity         Amount        `json:"quantity"`
	InternalCode     string        `json:"internalCode"`
	SalesTotal       Amount        `json:"salesTotal"`
	Total            Amount        `json:"total"`
	ValueDifference  Amount        `json:"valueDifference"`
	TotalTaxableFees Amount        `json:"totalTaxableFees"`
	NetTotal         Amount        `json:"netTotal"`
	ItemsDiscount    Amount        `json:"itemsDiscount"`
	UnitValue        UnitValue     `json:"unitValue"`
	Discount         Discount      `json:"discount"`
	TaxableItems     []TaxableItem `json:"taxableItems"`
}

// UnitValue precio unitario.
type UnitValue struct {
	CurrencySold string `json:"currencySold"`
	AmountEGP    Amount `json:"amountEGP"`
}

// Discount descuento de línea.
type Discount struct {
	Rate   Amount `json:"rate"`
	Amount Amount `json:"amount"`
}

// TaxableItem impuesto aplicado a una línea.
type TaxableItem struct {
	TaxType string `json:"taxType"`
	Amount  Amount `json:"amount"`
	SubType string `json:"subType"`
	Rate    Amount `json:"rate"`
}

// TaxTotal total por tipo de impuesto.
type TaxTotal struct {
	TaxType string `json:"taxType"`
	Amount  Amount `json:"amount"`
}

// Signature firma del documento.
type Signature struct {
	SignatureType string `json:"signatureType"`
	Value         string `json:"value"`
}
