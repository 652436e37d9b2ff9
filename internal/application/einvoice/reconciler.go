package einvoice

import (
	"context"
	"strings"

	"github.com/jhoicas/eta-einvoice/internal/domain"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
)

// Reconcile consulta a la ETA el estado de un documento ya aceptado y avanza el sub-estado
// (submitted → valid|invalid, ...). "Submitted" remoto significa que sigue en proceso: no cambia nada.
// Es seguro repetirlo.
func (o *Orchestrator) Reconcile(ctx context.Context, companyID, invoiceID string) (*Result, error) {
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
		result = resultOf(inv)
		if domaineta.IsTerminal(inv.CurrentETAStatus()) {
			return nil
		}

		session, err := o.sessions.Session(ctx, companyID)
		if err != nil {
			return err
		}
		if session == nil {
			return &domaineta.AuthError{Err: errNoCredentials}
		}
		st, err := session.DocumentStatus(ctx, inv.ETAUUID)
		if err != nil {
			return err
		}

		to, ok := st.LocalStatus()
		from := inv.CurrentETAStatus()
		if !ok || to == from {
			return nil
		}
		if !domaineta.CanTransition(from, to) {
			o.log.Warn().
				Str("invoice_id", inv.ID).
				Str("from", from).
				Str("remote", string(st.Status)).
				Msg("estado remoto incompatible con el sub-estado local, se ignora")
			return nil
		}
		if err := o.record(ctx, invoiceRepo, inv, to, func() {
			switch to {
			case entity.ETAStatusValid:
				inv.ETAErrorMessage = ""
				inv.ETAErrorMessages = nil
			case entity.ETAStatusInvalid, entity.ETAStatusRejected:
				inv.ETAErrorMessage = strings.Join(st.Errors, "; ")
				inv.ETAErrorMessages = append([]string(nil), st.Errors...)
			}
		}); err != nil {
			return err
		}
		o.log.Info().
			Str("invoice_id", inv.ID).
			Str("uuid", inv.ETAUUID).
			Str("from", from).
			Str("to", to).
			Msg("estado eta conciliado")
		result = resultOf(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReconcilePending concilia hasta limit facturas en submitted, primero las que llevan más tiempo
// sin consultarse. Cada intento queda marcado aunque falle o la ETA siga procesando, así el
// siguiente ciclo avanza a otras facturas. Un fallo en una factura no detiene el lote.
func (o *Orchestrator) ReconcilePending(ctx context.Context, limit int) (ReconcileReport, error) {
	var report ReconcileReport
	invoices, err := o.invoices.ListByETAStatus(ctx, entity.ETAStatusSubmitted, limit)
	if err != nil {
		return report, err
	}
	for _, inv := range invoices {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Checked++
		if err := o.invoices.MarkChecked(ctx, inv.CompanyID, inv.ID, o.now().UTC()); err != nil {
			o.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo marcar la consulta de estado")
		}
		res, err := o.Reconcile(ctx, inv.CompanyID, inv.ID)
		if err != nil {
			report.Failed++
			o.log.Warn().Err(err).
				Str("invoice_id", inv.ID).
				Str("kind", domaineta.KindOf(err).String()).
				Msg("no se pudo conciliar el estado eta")
			continue
		}
		if res.Status != entity.ETAStatusSubmitted {
			report.Updated++
		}
	}
	return report, nil
}
