package einvoice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
)

func TestCancel_ValidPasaACancelled(t *testing.T) {
	inv := submittedInvoice()
	inv.ETAStatus = entity.ETAStatusValid
	e := newEnv(inv)
	var gotUUID, gotReason string
	e.session.cancel = func(uuid, reason string) error {
		gotUUID, gotReason = uuid, reason
		return nil
	}

	res, err := e.orch.Cancel(context.Background(), "co-1", "inv-1", "  error en el receptor ")
	require.NoError(t, err)

	assert.Equal(t, "X", gotUUID)
	assert.Equal(t, "error en el receptor", gotReason)
	assert.Equal(t, entity.ETAStatusCancelled, res.Status)
	stored := e.invoices.stored("inv-1")
	assert.Equal(t, entity.ETAStatusCancelled, stored.ETAStatus)
	assert.Equal(t, entity.InvoiceStatusConfirmed, stored.Status, "el estado de negocio no cambia")
}

func TestCancel_SoloDocumentosValidos(t *testing.T) {
	e := newEnv(submittedInvoice())

	_, err := e.orch.Cancel(context.Background(), "co-1", "inv-1", "motivo")
	assert.ErrorIs(t, err, domaineta.ErrNotCancellable)
	assert.Zero(t, e.session.cancelCalls)
}

func TestCancel_MotivoObligatorio(t *testing.T) {
	inv := submittedInvoice()
	inv.ETAStatus = entity.ETAStatusValid
	e := newEnv(inv)

	_, err := e.orch.Cancel(context.Background(), "co-1", "inv-1", " ")
	assert.Equal(t, domaineta.KindValidation, domaineta.KindOf(err))
	assert.Zero(t, e.tx.runs)
}

func TestCancel_RechazoDeLaETANoCambiaEstado(t *testing.T) {
	inv := submittedInvoice()
	inv.ETAStatus = entity.ETAStatusValid
	e := newEnv(inv)
	e.session.cancel = func(string, string) error {
		return &domaineta.RejectedError{Messages: []string{"cancellation period expired"}}
	}

	_, err := e.orch.Cancel(context.Background(), "co-1", "inv-1", "motivo")
	assert.Equal(t, domaineta.KindRejected, domaineta.KindOf(err))
	assert.Equal(t, entity.ETAStatusValid, e.invoices.stored("inv-1").ETAStatus)
}
