package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/eta-einvoice/internal/domain"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, company_id, customer_id, number, date, currency, status,
		       subtotal, discount_total, net_total, vat_total, total,
		       eta_status, eta_uuid, eta_long_id, eta_hash_key, eta_submission_id,
		       eta_fingerprint, eta_error_message, eta_error_messages, eta_submitted_at,
		       eta_checked_at, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera y sus líneas. Usar dentro de una tx para que sea atómico.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, company_id, customer_id, number, date, currency, status,
		                      subtotal, discount_total, net_total, vat_total, total,
		                      eta_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.CustomerID, inv.Number, inv.Date, inv.Currency, inv.Status,
		inv.Subtotal, inv.DiscountTotal, inv.NetTotal, inv.VATTotal, inv.Total,
		inv.CurrentETAStatus(), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de factura %s", domain.ErrDuplicate, inv.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for _, l := range inv.Lines {
		if err := r.createLine(ctx, inv.ID, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *InvoiceRepo) createLine(ctx context.Context, invoiceID string, l *entity.InvoiceLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.InvoiceID = invoiceID
	query := `
		INSERT INTO invoice_lines (id, invoice_id, position, product_id, description, quantity, unit_price,
		                           discount_percent, vat_rate, eta_item_type, eta_item_code, unit_type,
		                           subtotal, discount, vat, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.InvoiceID, l.Position, nullIfEmpty(l.ProductID), l.Description, l.Quantity, l.UnitPrice,
		l.DiscountPercent, l.VATRate, nullIfEmpty(l.ETAItemType), nullIfEmpty(l.ETAItemCode), nullIfEmpty(l.UnitType),
		l.Subtotal, l.Discount, l.VAT, l.Total,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// GetByID obtiene la factura de la empresa con sus líneas.
func (r *InvoiceRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 AND company_id = $2`, companyID, id)
}

// GetForUpdate como GetByID pero bloquea la fila (SELECT ... FOR UPDATE) hasta el fin de la tx.
// Dos envíos concurrentes de la misma factura quedan serializados aquí.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 AND company_id = $2 FOR UPDATE`, companyID, id)
}

func (r *InvoiceRepo) get(ctx context.Context, query, companyID, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	lines, err := r.linesByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return inv, nil
}

func (r *InvoiceRepo) linesByInvoice(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, position, product_id, description, quantity, unit_price,
		       discount_percent, vat_rate, eta_item_type, eta_item_code, unit_type,
		       subtotal, discount, vat, total
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		var productID, itemType, itemCode, unitType *string
		if err := rows.Scan(
			&l.ID, &l.InvoiceID, &l.Position, &productID, &l.Description, &l.Quantity, &l.UnitPrice,
			&l.DiscountPercent, &l.VATRate, &itemType, &itemCode, &unitType,
			&l.Subtotal, &l.Discount, &l.VAT, &l.Total,
		); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		l.ProductID = derefStr(productID)
		l.ETAItemType = derefStr(itemType)
		l.ETAItemCode = derefStr(itemCode)
		l.UnitType = derefStr(unitType)
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateETA escribe solo el sub-estado ETA; cabecera de negocio y líneas no se tocan.
func (r *InvoiceRepo) UpdateETA(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices SET
			eta_status = $3, eta_uuid = $4, eta_long_id = $5, eta_hash_key = $6,
			eta_submission_id = $7, eta_fingerprint = $8, eta_error_message = $9,
			eta_error_messages = $10, eta_submitted_at = $11, updated_at = $12
		WHERE id = $1 AND company_id = $2`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID,
		inv.CurrentETAStatus(),
		nullIfEmpty(inv.ETAUUID),
		nullIfEmpty(inv.ETALongID),
		nullIfEmpty(inv.ETAHashKey),
		nullIfEmpty(inv.ETASubmissionID),
		nullIfEmpty(inv.ETAFingerprint),
		nullIfEmpty(inv.ETAErrorMessage),
		messagesOrNull(inv.ETAErrorMessages),
		inv.ETASubmittedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("eta uuid already assigned to another invoice: %w", err)
		}
		return fmt.Errorf("update invoice eta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update invoice eta: invoice %s not found", inv.ID)
	}
	return nil
}

// MarkChecked actualiza solo eta_checked_at, fuera de la tx del intento de conciliación.
func (r *InvoiceRepo) MarkChecked(ctx context.Context, companyID, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE invoices SET eta_checked_at = $3 WHERE id = $1 AND company_id = $2`, id, companyID, at)
	if err != nil {
		return fmt.Errorf("mark invoice checked: %w", err)
	}
	return nil
}

// ListByETAStatus cabeceras (sin líneas) en el sub-estado indicado. Las nunca consultadas van
// primero; una fila que no avanza pasa al final tras MarkChecked y no bloquea el lote.
func (r *InvoiceRepo) ListByETAStatus(ctx context.Context, etaStatus string, limit int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE eta_status = $1
		ORDER BY eta_checked_at ASC NULLS FIRST, updated_at ASC LIMIT $2`
	rows, err := r.q.Query(ctx, query, etaStatus, limit)
	if err != nil {
		return nil, fmt.Errorf("list invoices by eta status: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgxScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var etaUUID, longID, hashKey, submissionID, fingerprint, errMsg *string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.Number, &inv.Date, &inv.Currency, &inv.Status,
		&inv.Subtotal, &inv.DiscountTotal, &inv.NetTotal, &inv.VATTotal, &inv.Total,
		&inv.ETAStatus, &etaUUID, &longID, &hashKey, &submissionID,
		&fingerprint, &errMsg, &inv.ETAErrorMessages, &inv.ETASubmittedAt,
		&inv.ETACheckedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.ETAUUID = derefStr(etaUUID)
	inv.ETALongID = derefStr(longID)
	inv.ETAHashKey = derefStr(hashKey)
	inv.ETASubmissionID = derefStr(submissionID)
	inv.ETAFingerprint = derefStr(fingerprint)
	inv.ETAErrorMessage = derefStr(errMsg)
	return &inv, nil
}

// messagesOrNull deja eta_error_messages en NULL cuando no hay mensajes.
func messagesOrNull(msgs []string) any {
	if len(msgs) == 0 {
		return nil
	}
	return msgs
}
