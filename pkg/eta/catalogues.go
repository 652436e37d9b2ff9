// Package eta contiene catálogos y validaciones alineados al SDK de facturación
// electrónica de la Autoridad Tributaria de Egipto (ETA), esquema de documento v1.0.
package eta

// =============================================================================
// Tipos de documento y versiones
// =============================================================================

const (
	DocumentTypeInvoice = "I" // Factura
	DocumentTypeCredit  = "C" // Nota crédito
	DocumentTypeDebit   = "D" // Nota débito

	// DocumentVersionSigned exige firma en signatures[].
	DocumentVersionSigned = "1.0"
	// DocumentVersionUnsigned solo es aceptada por el ambiente preprod.
	DocumentVersionUnsigned = "0.9"

	SignatureTypeIssuer = "I"
)

// =============================================================================
// Tipos de receptor (receiver.type)
// =============================================================================

const (
	ReceiverTypeBusiness  = "B" // Contribuyente registrado: id = número de registro tributario (9 dígitos)
	ReceiverTypePerson    = "P" // Persona natural: id = número nacional (14 dígitos)
	ReceiverTypeForeigner = "F" // Extranjero: id = pasaporte u otro
)

// ValidReceiverTypes tipos de receptor aceptados por la ETA.
var ValidReceiverTypes = map[string]bool{
	ReceiverTypeBusiness:  true,
	ReceiverTypePerson:    true,
	ReceiverTypeForeigner: true,
}

// =============================================================================
// Codificación de ítems (itemType)
// =============================================================================

const (
	ItemTypeGS1 = "GS1" // Código global GS1
	ItemTypeEGS = "EGS" // Código interno registrado ante la ETA (EG-<RIN>-<código>)
)

// ValidItemTypes tipos de codificación de ítem aceptados.
var ValidItemTypes = map[string]bool{
	ItemTypeGS1: true,
	ItemTypeEGS: true,
}

// =============================================================================
// Unidades de medida (unitType) - códigos de uso frecuente
// =============================================================================

const (
	UnitEach     = "EA"  // Unidad
	UnitKilogram = "KGM" // Kilogramo
	UnitLitre    = "LTR" // Litro
	UnitMetre    = "MTR" // Metro
	UnitBox      = "BOX" // Caja
	UnitHour     = "HUR" // Hora
)

// ValidUnitTypes códigos de unidad de medida válidos.
var ValidUnitTypes = map[string]bool{
	UnitEach: true, UnitKilogram: true, UnitLitre: true,
	UnitMetre: true, UnitBox: true, UnitHour: true,
}

// =============================================================================
// Impuestos (taxableItems[].taxType / subType)
// =============================================================================

const (
	TaxTypeVAT = "T1" // Impuesto al valor agregado

	TaxSubTypeVATExempt  = "V003" // Bienes o servicios exentos (tarifa 0)
	TaxSubTypeVATGeneral = "V009" // Bienes generales (tarifa > 0)
)

// =============================================================================
// Moneda y precisión
// =============================================================================

const (
	CurrencyEGP = "EGP"
	CountryEG   = "EG"

	// MinorUnitPlaces posiciones decimales de la libra egipcia (piastras).
	MinorUnitPlaces = 2
	// WirePlaces posiciones decimales fijas con las que se serializan los montos.
	WirePlaces = 5
	// QuantityPlaces máximo de decimales de cantidad y precio unitario; coincide con la columna.
	QuantityPlaces = 5
	// PercentPlaces máximo de decimales de descuento e IVA.
	PercentPlaces = 2
)

// =============================================================================
// Ambientes
// =============================================================================

const (
	EnvironmentPreprod    = "preprod"
	EnvironmentProduction = "production"
)

// ValidEnvironments ambientes soportados por el cliente.
var ValidEnvironments = map[string]bool{
	EnvironmentPreprod:    true,
	EnvironmentProduction: true,
}

// PersonIDThreshold total (EGP) a partir del cual un receptor persona debe identificarse.
const PersonIDThreshold = 50000
