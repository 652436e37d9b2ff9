package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/eta-einvoice/internal/application/dto"
	"github.com/jhoicas/eta-einvoice/internal/domain"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

var maxPercent = decimal.NewFromInt(100)

// CreateInvoiceUseCase crea facturas con sus líneas ya calculadas con la regla de redondeo de la ETA.
type CreateInvoiceUseCase struct {
	txRunner     BillingTxRunner
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
	now          func() time.Time
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner BillingTxRunner,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		now:          time.Now,
	}
}

// CreateInvoice valida cliente y productos, recalcula líneas y totales, y guarda cabecera y líneas.
// La factura queda en draft, o en confirmed si in.Confirm; el sub-estado ETA inicia en none.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.customerRepo.GetByID(ctx, companyID, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	ids := make([]string, 0, len(in.Items))
	for _, item := range in.Items {
		if item.ProductID != "" {
			ids = append(ids, item.ProductID)
		}
	}
	products := map[string]*entity.Product{}
	if len(ids) > 0 {
		if products, err = uc.productRepo.GetByIDs(ctx, companyID, ids); err != nil {
			return nil, err
		}
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		CustomerID: customer.ID,
		Number:     strings.TrimSpace(in.Number),
		Date:       now,
		Currency:   eta.CurrencyEGP,
		Status:     entity.InvoiceStatusDraft,
		ETAStatus:  entity.ETAStatusNone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Date != nil {
		inv.Date = *in.Date
	}
	if in.Confirm {
		inv.Status = entity.InvoiceStatusConfirmed
	}
	if inv.Number == "" {
		inv.Number = fmt.Sprintf("INV-%d", now.UnixNano())
	}

	for i, item := range in.Items {
		line, err := newLine(item, products)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		line.ID = uuid.New().String()
		line.InvoiceID = inv.ID
		line.Position = i + 1
		inv.Lines = append(inv.Lines, line)
	}
	inv.RecomputeTotals()

	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		return invoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, customer.Name), nil
}

// newLine arma la línea desde el producto o, sin producto, desde la propia petición.
// Las entradas deben caber en la escala con que se guardan: si la base las redondeara, los
// importes derivados ya no coincidirían con ellas y el documento no pasaría la validación.
func newLine(item dto.InvoiceItemRequest, products map[string]*entity.Product) (*entity.InvoiceLine, error) {
	if !item.Quantity.IsPositive() || item.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: cantidad o precio", domain.ErrInvalidInput)
	}
	if item.DiscountPercent.IsNegative() || item.DiscountPercent.GreaterThan(maxPercent) {
		return nil, fmt.Errorf("%w: descuento", domain.ErrInvalidInput)
	}
	if !eta.FitsPlaces(item.Quantity, eta.QuantityPlaces) || !eta.FitsPlaces(item.UnitPrice, eta.QuantityPlaces) {
		return nil, fmt.Errorf("%w: cantidad y precio admiten hasta %d decimales", domain.ErrInvalidInput, eta.QuantityPlaces)
	}
	if !eta.FitsPlaces(item.DiscountPercent, eta.PercentPlaces) {
		return nil, fmt.Errorf("%w: el descuento admite hasta %d decimales", domain.ErrInvalidInput, eta.PercentPlaces)
	}
	line := &entity.InvoiceLine{
		Description:     strings.TrimSpace(item.Description),
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
		DiscountPercent: item.DiscountPercent,
	}

	if item.ProductID != "" {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
		}
		if line.UnitPrice.IsZero() {
			line.UnitPrice = product.Price
		}
		if line.Description == "" {
			line.Description = product.Name
		}
		line.ProductID = product.ID
		line.VATRate = product.VATRate
		line.ETAItemType = product.ETAItemType
		line.ETAItemCode = product.ETAItemCode
		line.UnitType = product.UnitType
		return line, nil
	}

	// Línea libre.
	if line.Description == "" {
		return nil, fmt.Errorf("%w: description requerida en líneas sin producto", domain.ErrInvalidInput)
	}
	if item.VATRate == nil {
		return nil, fmt.Errorf("%w: vat_rate requerido en líneas sin producto", domain.ErrInvalidInput)
	}
	if item.VATRate.IsNegative() || item.VATRate.GreaterThan(maxPercent) || !eta.FitsPlaces(*item.VATRate, eta.PercentPlaces) {
		return nil, fmt.Errorf("%w: vat_rate", domain.ErrInvalidInput)
	}
	itemType := strings.ToUpper(strings.TrimSpace(item.ETAItemType))
	itemCode := strings.TrimSpace(item.ETAItemCode)
	if (itemType == "") != (itemCode == "") {
		return nil, fmt.Errorf("%w: eta_item_type y eta_item_code van juntos", domain.ErrInvalidInput)
	}
	if itemType != "" && !eta.ValidItemTypes[itemType] {
		return nil, fmt.Errorf("%w: tipo de ítem %q", domain.ErrInvalidInput, itemType)
	}
	line.VATRate = *item.VATRate
	line.ETAItemType = itemType
	line.ETAItemCode = itemCode
	line.UnitType = strings.TrimSpace(item.UnitType)
	if line.UnitType == "" {
		line.UnitType = eta.UnitEach
	}
	return line, nil
}

// GetInvoice obtiene una factura de la empresa con sus líneas.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(ctx, companyID, inv.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return toInvoiceResponse(inv, customerName), nil
}

func toInvoiceResponse(inv *entity.Invoice, customerName string) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		CompanyID:     inv.CompanyID,
		CustomerID:    inv.CustomerID,
		CustomerName:  customerName,
		Number:        inv.Number,
		Date:          inv.Date.Format("2006-01-02"),
		Currency:      inv.Currency,
		Status:        inv.Status,
		Subtotal:      inv.Subtotal,
		DiscountTotal: inv.DiscountTotal,
		NetTotal:      inv.NetTotal,
		VATTotal:      inv.VATTotal,
		Total:         inv.Total,
		ETAStatus:     inv.CurrentETAStatus(),
		ETAUUID:       inv.ETAUUID,
		Lines:         make([]dto.InvoiceLineResponse, 0, len(inv.Lines)),
	}
	for _, l := range inv.Lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:              l.ID,
			ProductID:       l.ProductID,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			VATRate:         l.VATRate,
			Subtotal:        l.Subtotal,
			Discount:        l.Discount,
			VAT:             l.VAT,
			Total:           l.Total,
		})
	}
	return resp
}
