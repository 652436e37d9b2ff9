package einvoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/eta-einvoice/internal/domain"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
	"github.com/jhoicas/eta-einvoice/pkg/logger"
)

var errNoCredentials = errors.New("la empresa no tiene credenciales ETA configuradas")

// Orchestrator es el único escritor de los campos eta_* de la factura.
//
//	guardas → validación → documento canónico → sesión → envío → registro del veredicto
//
// Todo el intento corre dentro de una transacción que bloquea la fila de la factura, de modo
// que dos envíos simultáneos quedan serializados y el segundo ve el uuid del primero.
type Orchestrator struct {
	tx        TxRunner
	invoices  repository.InvoiceRepository
	companies repository.CompanyRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	builder   DocumentBuilder
	sessions  domaineta.SessionProvider
	log       *logger.Logger
	now       func() time.Time
}

// NewOrchestrator construye el orquestador. invoices se usa solo para lecturas fuera de la tx.
func NewOrchestrator(
	tx TxRunner,
	invoices repository.InvoiceRepository,
	companies repository.CompanyRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	builder DocumentBuilder,
	sessions domaineta.SessionProvider,
	log *logger.Logger,
) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		tx:        tx,
		invoices:  invoices,
		companies: companies,
		customers: customers,
		products:  products,
		builder:   builder,
		sessions:  sessions,
		log:       log,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Submit envía la factura a la ETA y registra el resultado.
//
// Errores (ver domaineta.KindOf): ErrAlreadySubmitted y ErrNotSubmittable antes de cualquier
// trabajo; *ValidationError sin red; *AuthError y *TransientError de autenticación dejan el
// sub-estado intacto; *RejectedError deja la factura en rejected; *TransientError tras el envío
// deja la factura en pending porque la ETA pudo haber registrado el documento.
func (o *Orchestrator) Submit(ctx context.Context, companyID, invoiceID string) (*Result, error) {
	var (
		result  *Result
		outcome error
	)
	err := o.tx.RunSubmission(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		inv, err := invoiceRepo.GetForUpdate(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.HasAuthorityUUID() {
			return domaineta.ErrAlreadySubmitted
		}
		if !inv.IsSubmittable() {
			return fmt.Errorf("%w: estado %q", domaineta.ErrNotSubmittable, inv.Status)
		}

		agg, err := o.loadAggregate(ctx, inv)
		if err != nil {
			return err
		}
		if err := domaineta.Validate(agg).Err(); err != nil {
			return err
		}
		doc, err := o.builder.Build(agg)
		if err != nil {
			return err
		}

		log := o.log.With().
			Str("company_id", companyID).
			Str("invoice_id", inv.ID).
			Str("fingerprint", doc.Fingerprint).
			Logger()

		// Mismo contenido que ya fue rechazado: la ETA lo volvería a rechazar.
		if inv.CurrentETAStatus() == entity.ETAStatusRejected && inv.ETAFingerprint == doc.Fingerprint {
			log.Info().Msg("documento idéntico a uno ya rechazado, no se reenvía")
			return &domaineta.RejectedError{Messages: storedMessages(inv)}
		}

		session, err := o.sessions.Session(ctx, companyID)
		if err != nil {
			return err
		}
		if session == nil {
			return &domaineta.AuthError{Err: errNoCredentials}
		}

		// Una vez enviado no hay cancelación: se espera la respuesta aunque el llamador se vaya.
		sendCtx := context.WithoutCancel(ctx)
		sub, sendErr := session.SubmitDocuments(sendCtx, []*domaineta.BuiltDocument{doc})
		var docOutcome domaineta.DocumentOutcome
		if sendErr == nil {
			docOutcome = sub.Outcomes[doc.Fingerprint]
			if docOutcome == nil {
				sendErr = fmt.Errorf("%w: el documento %s no aparece en la respuesta", domaineta.ErrMalformedResponse, doc.InternalID)
			}
		}
		if sendErr != nil {
			if errors.Is(sendErr, domaineta.ErrNotSent) ||
				(!domaineta.IsTransient(sendErr) && !errors.Is(sendErr, domaineta.ErrMalformedResponse)) {
				return sendErr
			}
			// Resultado desconocido.
			if err := o.record(sendCtx, invoiceRepo, inv, entity.ETAStatusPending, func() {
				inv.ETAFingerprint = doc.Fingerprint
				inv.ETAErrorMessage = sendErr.Error()
				inv.ETAErrorMessages = nil
			}); err != nil {
				return err
			}
			log.Warn().Err(sendErr).Msg("envío con resultado desconocido, factura queda pendiente")
			result = resultOf(inv)
			if !domaineta.IsTransient(sendErr) {
				sendErr = &domaineta.TransientError{Err: sendErr}
			}
			outcome = sendErr
			return nil
		}

		switch out := docOutcome.(type) {
		case domaineta.Accepted:
			if err := o.record(sendCtx, invoiceRepo, inv, entity.ETAStatusSubmitted, func() {
				submittedAt := o.now().UTC()
				inv.ETAUUID = out.UUID
				inv.ETALongID = out.LongID
				inv.ETAHashKey = out.HashKey
				inv.ETASubmissionID = sub.SubmissionID
				inv.ETAFingerprint = doc.Fingerprint
				inv.ETAErrorMessage = ""
				inv.ETAErrorMessages = nil
				inv.ETASubmittedAt = &submittedAt
			}); err != nil {
				return err
			}
			log.Info().Str("uuid", out.UUID).Str("submission_id", sub.SubmissionID).Msg("documento aceptado por la ETA")
		case domaineta.Rejected:
			messages := out.Error.Messages()
			rejected := &domaineta.RejectedError{Messages: messages}
			if err := o.record(sendCtx, invoiceRepo, inv, entity.ETAStatusRejected, func() {
				inv.ETAFingerprint = doc.Fingerprint
				inv.ETAErrorMessage = rejected.Joined()
				inv.ETAErrorMessages = messages
			}); err != nil {
				return err
			}
			log.Info().Strs("errors", messages).Msg("documento rechazado por la ETA")
			outcome = rejected
		}
		result = resultOf(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, outcome
}

// Status devuelve los campos ETA persistidos de la factura.
func (o *Orchestrator) Status(ctx context.Context, companyID, invoiceID string) (*Result, error) {
	inv, err := o.invoices.GetByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return resultOf(inv), nil
}

// record aplica mutate, comprueba la transición y persiste el sub-estado.
func (o *Orchestrator) record(ctx context.Context, invoiceRepo repository.InvoiceRepository, inv *entity.Invoice, to string, mutate func()) error {
	from := inv.CurrentETAStatus()
	if !domaineta.CanTransition(from, to) {
		return fmt.Errorf("%w: transición eta %s → %s", domain.ErrConflict, from, to)
	}
	mutate()
	inv.ETAStatus = to
	inv.UpdatedAt = o.now().UTC()
	if err := invoiceRepo.UpdateETA(ctx, inv); err != nil {
		return fmt.Errorf("registrar estado eta %s: %w", to, err)
	}
	return nil
}

// loadAggregate carga empresa, receptor y productos de la factura. Lo que no existe queda nil
// y lo reporta el validador.
func (o *Orchestrator) loadAggregate(ctx context.Context, inv *entity.Invoice) (domaineta.Aggregate, error) {
	agg := domaineta.Aggregate{Invoice: inv}
	company, err := o.companies.GetByID(ctx, inv.CompanyID)
	if err != nil {
		return agg, fmt.Errorf("cargar empresa: %w", err)
	}
	agg.Company = company

	customer, err := o.customers.GetByID(ctx, inv.CompanyID, inv.CustomerID)
	if err != nil {
		return agg, fmt.Errorf("cargar cliente: %w", err)
	}
	agg.Customer = customer

	var ids []string
	seen := make(map[string]bool)
	for _, l := range inv.Lines {
		if l.ProductID != "" && !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	products, err := o.products.GetByIDs(ctx, inv.CompanyID, ids)
	if err != nil {
		return agg, fmt.Errorf("cargar productos: %w", err)
	}
	agg.Products = products
	return agg, nil
}

// storedMessages mensajes del último rechazo. Filas sin la lista conservan solo el texto unido.
func storedMessages(inv *entity.Invoice) []string {
	if len(inv.ETAErrorMessages) > 0 {
		return append([]string(nil), inv.ETAErrorMessages...)
	}
	if inv.ETAErrorMessage == "" {
		return nil
	}
	return []string{inv.ETAErrorMessage}
}
