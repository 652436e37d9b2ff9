package eta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
)

func TestAuthorityError_MessagesAplanaDetalles(t *testing.T) {
	e := domaineta.AuthorityError{
		Code:    "ValidationError",
		Message: "Validation Error",
		Details: []domaineta.AuthorityError{
			{PropertyPath: "receiver.id", Message: "Receiver id is invalid"},
			{PropertyPath: "invoiceLines[0].itemCode", Message: "Item code not registered"},
		},
	}
	assert.Equal(t, []string{
		"receiver.id: Receiver id is invalid",
		"invoiceLines[0].itemCode: Item code not registered",
	}, e.Messages())
}

func TestAuthorityError_SinDetallesUsaMensajeOCodigo(t *testing.T) {
	assert.Equal(t, []string{"Duplicate"}, domaineta.AuthorityError{Message: "Duplicate"}.Messages())
	assert.Equal(t, []string{"E1"}, domaineta.AuthorityError{Code: "E1"}.Messages())
}

func TestDocumentStatus_LocalStatus(t *testing.T) {
	s, ok := domaineta.DocumentStatus{Status: domaineta.RemoteValid}.LocalStatus()
	assert.True(t, ok)
	assert.Equal(t, entity.ETAStatusValid, s)

	_, ok = domaineta.DocumentStatus{Status: domaineta.RemoteSubmitted}.LocalStatus()
	assert.False(t, ok, "Submitted sigue en proceso")
}
