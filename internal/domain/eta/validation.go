// Package eta contiene las reglas de dominio del envío de facturas a la ETA (Egipto):
// validación previa, grafo de sub-estados, taxonomía de errores y resultados del protocolo.
// Todo es puro: sin red ni base de datos.
package eta

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

// Verdict resultado de la validación: lista vacía = lista para enviar.
type Verdict struct {
	Defects []string
}

// Ready indica que no hay defectos.
func (v Verdict) Ready() bool { return len(v.Defects) == 0 }

// Err devuelve *ValidationError con los defectos, o nil si está lista.
func (v Verdict) Err() error {
	if v.Ready() {
		return nil
	}
	return &ValidationError{Defects: v.Defects}
}

var personIDThreshold = decimal.NewFromInt(eta.PersonIDThreshold)

// Validate comprueba campos obligatorios y reglas de negocio de la ETA sobre datos ya cargados.
// Los defectos salen en orden estable: empresa, receptor, cabecera y líneas.
func Validate(a Aggregate) Verdict {
	var defects []string
	add := func(format string, args ...any) {
		defects = append(defects, fmt.Sprintf(format, args...))
	}

	inv := a.Invoice
	if inv == nil {
		return Verdict{Defects: []string{"factura nula"}}
	}

	// 1. Emisor
	if a.Company == nil {
		add("empresa emisora no encontrada")
	} else {
		if a.Company.TaxRegistrationNumber == "" {
			add("la empresa no tiene número de registro tributario")
		} else if err := eta.ValidateRIN(a.Company.TaxRegistrationNumber); err != nil {
			add("número de registro tributario de la empresa: %v", err)
		}
		if a.Company.ActivityCode == "" {
			add("la empresa no tiene código de actividad (taxpayerActivityCode)")
		}
		validateAddress("empresa", a.Company.Address, add)
	}

	// 2. Receptor
	totals := eta.SumLines(a.LineAmounts())
	if a.Customer == nil {
		add("cliente no encontrado")
	} else {
		c := a.Customer
		if c.Name == "" {
			add("el cliente no tiene nombre")
		}
		switch c.ReceiverType {
		case eta.ReceiverTypeBusiness:
			if c.TaxID == "" {
				add("cliente empresa sin número de registro tributario")
			} else if err := eta.ValidateRIN(c.TaxID); err != nil {
				add("número de registro tributario del cliente: %v", err)
			}
			validateAddress("cliente", c.Address, add)
		case eta.ReceiverTypePerson:
			if c.TaxID != "" || totals.Total.GreaterThanOrEqual(personIDThreshold) {
				if err := eta.ValidateNationalID(c.TaxID); err != nil {
					add("número nacional del cliente: %v", err)
				}
			}
		case eta.ReceiverTypeForeigner:
			if c.TaxID == "" {
				add("cliente extranjero sin identificación")
			}
		default:
			add("tipo de receptor %q inválido (B, P o F)", c.ReceiverType)
		}
	}

	// 3. Cabecera
	if inv.Number == "" {
		add("la factura no tiene número interno")
	}
	if inv.Date.IsZero() {
		add("la factura no tiene fecha de emisión")
	}
	if inv.Currency != "" && inv.Currency != eta.CurrencyEGP {
		add("moneda %q no soportada (solo %s)", inv.Currency, eta.CurrencyEGP)
	}

	// 4. Líneas
	if len(inv.Lines) == 0 {
		add("la factura no tiene líneas")
	}
	for i, l := range inv.Lines {
		n := i + 1
		if l.Description == "" {
			add("línea %d: sin descripción", n)
		}
		ref, ok := ResolveItem(l, a.Product(l), a.Company)
		if !ok {
			add("línea %d: sin código de artículo ETA resoluble", n)
		} else if !eta.ValidItemTypes[ref.Type] {
			add("línea %d: tipo de artículo %q inválido", n, ref.Type)
		}
		if !eta.ValidUnitTypes[ref.Unit] {
			add("línea %d: unidad %q inválida", n, ref.Unit)
		}
		if !l.Quantity.IsPositive() {
			add("línea %d: la cantidad debe ser mayor que cero", n)
		}
		if !l.UnitPrice.IsPositive() {
			add("línea %d: el precio unitario debe ser mayor que cero", n)
		}
		if l.DiscountPercent.IsNegative() || l.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			add("línea %d: descuento fuera de rango (0-100)", n)
		}
		if l.VATRate.IsNegative() || l.VATRate.GreaterThan(decimal.NewFromInt(100)) {
			add("línea %d: tarifa de IVA fuera de rango (0-100)", n)
		}
	}

	return Verdict{Defects: defects}
}

func validateAddress(owner string, addr entity.Address, add func(string, ...any)) {
	if addr.Country == "" {
		add("%s: dirección sin país", owner)
	}
	if addr.Governate == "" {
		add("%s: dirección sin gobernación", owner)
	}
	if addr.RegionCity == "" {
		add("%s: dirección sin ciudad", owner)
	}
	if addr.Street == "" {
		add("%s: dirección sin calle", owner)
	}
	if addr.BuildingNumber == "" {
		add("%s: dirección sin número de edificio", owner)
	}
}
