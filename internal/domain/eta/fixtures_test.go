package eta_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func egyptAddress() entity.Address {
	return entity.Address{
		BranchID:       "0",
		Country:        "EG",
		Governate:      "Cairo",
		RegionCity:     "Nasr City",
		Street:         "El Tayaran",
		BuildingNumber: "12",
	}
}

// readyAggregate factura confirmada que pasa todas las validaciones.
func readyAggregate() domaineta.Aggregate {
	inv := &entity.Invoice{
		ID:        "inv-1",
		CompanyID: "co-1",
		Number:    "F-0001",
		Date:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:    entity.InvoiceStatusConfirmed,
		Lines: []*entity.InvoiceLine{
			{
				ID: "l-1", Position: 1, ProductID: "p-1", Description: "Servicio de consultoría",
				Quantity: dec("3"), UnitPrice: dec("100.005"), DiscountPercent: dec("10"), VATRate: dec("14"),
			},
		},
	}
	inv.RecomputeTotals()
	return domaineta.Aggregate{
		Invoice: inv,
		Company: &entity.Company{
			ID: "co-1", Name: "Acme Egypt", TaxRegistrationNumber: "100324932",
			ActivityCode: "4620", Address: egyptAddress(),
		},
		Customer: &entity.Customer{
			ID: "cu-1", Name: "Nile Trading", ReceiverType: "B", TaxID: "200-100-300",
			Address: egyptAddress(),
		},
		Products: map[string]*entity.Product{
			"p-1": {ID: "p-1", ETAItemType: "GS1", ETAItemCode: "10003752", UnitType: "EA"},
		},
	}
}
