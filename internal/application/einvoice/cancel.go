package einvoice

import (
	"context"
	"strings"

	"github.com/jhoicas/eta-einvoice/internal/domain"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
)

// Cancel solicita a la ETA la cancelación de un documento válido y mueve valid → cancelled.
// El estado de negocio de la factura no se modifica.
func (o *Orchestrator) Cancel(ctx context.Context, companyID, invoiceID, reason string) (*Result, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &domaineta.ValidationError{Defects: []string{"el motivo de cancelación es obligatorio"}}
	}
	var result *Result
	err := o.tx.RunSubmission(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		inv, err := invoiceRepo.GetForUpdate(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if !inv.HasAuthorityUUID() {
			return domaineta.ErrNotSubmittedYet
		}
		if inv.CurrentETAStatus() != entity.ETAStatusValid {
			return domaineta.ErrNotCancellable
		}

		session, err := o.sessions.Session(ctx, companyID)
		if err != nil {
			return err
		}
		if session == nil {
			return &domaineta.AuthError{Err: errNoCredentials}
		}
		sendCtx := context.WithoutCancel(ctx)
		if err := session.CancelDocument(sendCtx, inv.ETAUUID, reason); err != nil {
			return err
		}
		if err := o.record(sendCtx, invoiceRepo, inv, entity.ETAStatusCancelled, func() {
			inv.ETAErrorMessage = ""
			inv.ETAErrorMessages = nil
		}); err != nil {
			return err
		}
		o.log.Info().Str("invoice_id", inv.ID).Str("uuid", inv.ETAUUID).Msg("documento cancelado ante la ETA")
		result = resultOf(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
