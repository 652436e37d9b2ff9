package eta

import (
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

// Aggregate factura con todo lo necesario ya cargado para validar y construir el documento.
type Aggregate struct {
	Invoice  *entity.Invoice
	Company  *entity.Company
	Customer *entity.Customer
	Products map[string]*entity.Product // por ID; las líneas de texto libre no tienen producto
}

// ItemRef clasificación ETA resuelta para una línea.
type ItemRef struct {
	Type string
	Code string
	Unit string
}

// ResolveItem resuelve el código ETA de la línea: primero el de la propia línea, después el del
// producto y por último el código EGS por defecto de la empresa. ok=false si no hay ninguno.
func ResolveItem(line *entity.InvoiceLine, product *entity.Product, company *entity.Company) (ItemRef, bool) {
	var ref ItemRef
	switch {
	case line.ETAItemCode != "":
		ref.Type, ref.Code = line.ETAItemType, line.ETAItemCode
	case product != nil && product.ETAItemCode != "":
		ref.Type, ref.Code = product.ETAItemType, product.ETAItemCode
	case company != nil && company.DefaultItemCode != "":
		ref.Type, ref.Code = company.DefaultItemType, company.DefaultItemCode
	}
	if ref.Type == "" {
		ref.Type = eta.ItemTypeEGS
	}
	switch {
	case line.UnitType != "":
		ref.Unit = line.UnitType
	case product != nil && product.UnitType != "":
		ref.Unit = product.UnitType
	default:
		ref.Unit = eta.UnitEach
	}
	return ref, ref.Code != ""
}

// LineAmounts recalcula los importes de todas las líneas desde cantidad, precio,
// descuento e IVA, ignorando los importes almacenados.
func (a Aggregate) LineAmounts() []eta.LineAmounts {
	out := make([]eta.LineAmounts, 0, len(a.Invoice.Lines))
	for _, l := range a.Invoice.Lines {
		out = append(out, eta.ComputeLine(l.Quantity, l.UnitPrice, l.DiscountPercent, l.VATRate))
	}
	return out
}

// Product devuelve el producto de la línea, o nil si es de texto libre o no está cargado.
func (a Aggregate) Product(line *entity.InvoiceLine) *entity.Product {
	if line.ProductID == "" || a.Products == nil {
		return nil
	}
	return a.Products[line.ProductID]
}
