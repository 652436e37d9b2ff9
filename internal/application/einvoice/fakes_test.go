package einvoice_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eta-einvoice/internal/application/einvoice"
	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
	infraeta "github.com/jhoicas/eta-einvoice/internal/infrastructure/eta"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func egyptAddress() entity.Address {
	return entity.Address{
		BranchID: "0", Country: "EG", Governate: "Cairo", RegionCity: "Nasr City",
		Street: "El Tayaran", BuildingNumber: "12",
	}
}

// invoiceRepo repositorio en memoria; guarda copias para detectar escrituras fuera de UpdateETA.
type invoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	updates  int
}

var _ repository.InvoiceRepository = (*invoiceRepo)(nil)

func newInvoiceRepo(invs ...*entity.Invoice) *invoiceRepo {
	r := &invoiceRepo{invoices: map[string]*entity.Invoice{}}
	for _, inv := range invs {
		r.invoices[inv.ID] = inv
	}
	return r
}

func (r *invoiceRepo) copyOf(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	return &c
}

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.ID] = r.copyOf(inv)
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, companyID, id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok || inv.CompanyID != companyID {
		return nil, nil
	}
	return r.copyOf(inv), nil
}

func (r *invoiceRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *invoiceRepo) UpdateETA(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	r.invoices[inv.ID] = r.copyOf(inv)
	return nil
}

// ListByETAStatus ordena como la consulta SQL: eta_checked_at NULLS FIRST, luego updated_at.
func (r *invoiceRepo) ListByETAStatus(_ context.Context, status string, limit int) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.CurrentETAStatus() == status {
			out = append(out, r.copyOf(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.ETACheckedAt == nil && b.ETACheckedAt != nil:
			return true
		case a.ETACheckedAt != nil && b.ETACheckedAt == nil:
			return false
		case a.ETACheckedAt != nil && !a.ETACheckedAt.Equal(*b.ETACheckedAt):
			return a.ETACheckedAt.Before(*b.ETACheckedAt)
		case !a.UpdatedAt.Equal(b.UpdatedAt):
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return a.ID < b.ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *invoiceRepo) MarkChecked(_ context.Context, companyID, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok || inv.CompanyID != companyID {
		return nil
	}
	c := r.copyOf(inv)
	c.ETACheckedAt = &at
	r.invoices[id] = c
	return nil
}

func (r *invoiceRepo) stored(id string) *entity.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyOf(r.invoices[id])
}

// txRunner ejecuta fn sin transacción real; si fn falla se descartan sus escrituras.
type txRunner struct {
	repo *invoiceRepo
	runs int
}

func (t *txRunner) RunSubmission(ctx context.Context, fn func(repository.InvoiceRepository) error) error {
	t.runs++
	t.repo.mu.Lock()
	snapshot := make(map[string]*entity.Invoice, len(t.repo.invoices))
	for k, v := range t.repo.invoices {
		snapshot[k] = t.repo.copyOf(v)
	}
	t.repo.mu.Unlock()

	if err := fn(t.repo); err != nil {
		t.repo.mu.Lock()
		t.repo.invoices = snapshot
		t.repo.mu.Unlock()
		return err
	}
	return nil
}

type companyRepo struct{ c *entity.Company }

func (companyRepo) Create(context.Context, *entity.Company) error { return nil }

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	if r.c == nil || r.c.ID != id {
		return nil, nil
	}
	return r.c, nil
}

type customerRepo struct{ c *entity.Customer }

func (customerRepo) Create(context.Context, *entity.Customer) error { return nil }

func (r customerRepo) GetByID(_ context.Context, companyID, id string) (*entity.Customer, error) {
	if r.c == nil || r.c.ID != id || r.c.CompanyID != companyID {
		return nil, nil
	}
	return r.c, nil
}

type productRepo struct{ p map[string]*entity.Product }

func (productRepo) Create(context.Context, *entity.Product) error { return nil }

func (r productRepo) GetByIDs(_ context.Context, _ string, ids []string) (map[string]*entity.Product, error) {
	out := map[string]*entity.Product{}
	for _, id := range ids {
		if p, ok := r.p[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// builderSpy envuelve el builder real y cuenta las construcciones.
type builderSpy struct {
	inner *infraeta.Builder
	calls int
}

func (b *builderSpy) Build(a domaineta.Aggregate) (*domaineta.BuiltDocument, error) {
	b.calls++
	return b.inner.Build(a)
}

// stubSession responde con lo configurado y cuenta las llamadas de red.
type stubSession struct {
	submit      func(docs []*domaineta.BuiltDocument) (*domaineta.Submission, error)
	status      func(uuid string) (*domaineta.DocumentStatus, error)
	cancel      func(uuid, reason string) error
	submitCalls int
	statusCalls int
	cancelCalls int
}

func (s *stubSession) SubmitDocuments(_ context.Context, docs []*domaineta.BuiltDocument) (*domaineta.Submission, error) {
	s.submitCalls++
	return s.submit(docs)
}

func (s *stubSession) DocumentStatus(_ context.Context, uuid string) (*domaineta.DocumentStatus, error) {
	s.statusCalls++
	return s.status(uuid)
}

func (s *stubSession) CancelDocument(_ context.Context, uuid, reason string) error {
	s.cancelCalls++
	return s.cancel(uuid, reason)
}

type sessionProvider struct {
	session *stubSession
	err     error
	calls   int
}

func (p *sessionProvider) Session(context.Context, string) (domaineta.Session, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if p.session == nil {
		return nil, nil
	}
	return p.session, nil
}

func accept(uuid, longID string) func([]*domaineta.BuiltDocument) (*domaineta.Submission, error) {
	return func(docs []*domaineta.BuiltDocument) (*domaineta.Submission, error) {
		return &domaineta.Submission{
			SubmissionID: "SUB-1",
			Outcomes: map[string]domaineta.DocumentOutcome{
				docs[0].Fingerprint: domaineta.Accepted{InternalID: docs[0].InternalID, UUID: uuid, LongID: longID, HashKey: "HK"},
			},
		}, nil
	}
}

func reject(details ...domaineta.AuthorityError) func([]*domaineta.BuiltDocument) (*domaineta.Submission, error) {
	return func(docs []*domaineta.BuiltDocument) (*domaineta.Submission, error) {
		return &domaineta.Submission{
			SubmissionID: "SUB-2",
			Outcomes: map[string]domaineta.DocumentOutcome{
				docs[0].Fingerprint: domaineta.Rejected{
					InternalID: docs[0].InternalID,
					Error:      domaineta.AuthorityError{Code: "ValidationError", Message: "invalid", Details: details},
				},
			},
		}, nil
	}
}

// env entorno completo de un test del orquestador.
type env struct {
	invoices *invoiceRepo
	tx       *txRunner
	builder  *builderSpy
	provider *sessionProvider
	session  *stubSession
	orch     *einvoice.Orchestrator
	now      time.Time
}

func confirmedInvoice() *entity.Invoice {
	inv := &entity.Invoice{
		ID: "inv-1", CompanyID: "co-1", CustomerID: "cu-1", Number: "F-0001",
		Date:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Currency: "EGP",
		Status:   entity.InvoiceStatusConfirmed,
		Lines: []*entity.InvoiceLine{
			{
				ID: "l-1", Position: 1, ProductID: "p-1", Description: "Servicio de consultoría",
				Quantity: dec("3"), UnitPrice: dec("100.005"), DiscountPercent: dec("10"), VATRate: dec("14"),
			},
		},
	}
	inv.RecomputeTotals()
	return inv
}

func newEnv(inv *entity.Invoice) *env {
	e := &env{
		invoices: newInvoiceRepo(inv),
		builder:  &builderSpy{inner: infraeta.NewBuilder(infraeta.DefaultTolerance, nil)},
		session:  &stubSession{},
		now:      time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
	e.tx = &txRunner{repo: e.invoices}
	e.provider = &sessionProvider{session: e.session}
	company := &entity.Company{
		ID: "co-1", Name: "Acme Egypt", TaxRegistrationNumber: "100324932",
		ActivityCode: "4620", Address: egyptAddress(),
	}
	customer := &entity.Customer{
		ID: "cu-1", CompanyID: "co-1", Name: "Nile Trading", ReceiverType: "B", TaxID: "200100300",
		Address: egyptAddress(),
	}
	products := map[string]*entity.Product{
		"p-1": {ID: "p-1", SKU: "SKU-1", ETAItemType: "GS1", ETAItemCode: "10003752", UnitType: "EA"},
	}
	e.orch = einvoice.NewOrchestrator(
		e.tx, e.invoices, companyRepo{company}, customerRepo{customer}, productRepo{products},
		e.builder, e.provider, nil,
	).WithClock(func() time.Time { return e.now })
	return e
}
