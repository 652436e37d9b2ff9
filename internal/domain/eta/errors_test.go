package eta_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
)

func TestKindOf_AtraviesaWrapping(t *testing.T) {
	cases := []struct {
		err  error
		want domaineta.Kind
	}{
		{&domaineta.ValidationError{Defects: []string{"x"}}, domaineta.KindValidation},
		{fmt.Errorf("submit: %w", domaineta.ErrAlreadySubmitted), domaineta.KindAlreadySubmitted},
		{domaineta.ErrNotSubmittable, domaineta.KindNotSubmittable},
		{fmt.Errorf("token: %w", &domaineta.AuthError{Err: errors.New("invalid_client")}), domaineta.KindAuth},
		{&domaineta.RejectedError{Messages: []string{"a"}}, domaineta.KindRejected},
		{fmt.Errorf("retry: %w", &domaineta.TransientError{StatusCode: 503}), domaineta.KindTransient},
		{errors.New("otro"), domaineta.KindUnknown},
		{nil, domaineta.KindUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, domaineta.KindOf(c.err), "%v", c.err)
	}
}

func TestRejectedError_UneMensajes(t *testing.T) {
	err := &domaineta.RejectedError{Messages: []string{"receiver.id: inválido", "invoiceLines[0].itemCode: no registrado"}}
	assert.Equal(t, "receiver.id: inválido; invoiceLines[0].itemCode: no registrado", err.Joined())
	assert.Contains(t, err.Error(), "rechazado")
}

func TestTransientError_Unwrap(t *testing.T) {
	base := errors.New("connection reset")
	err := &domaineta.TransientError{Err: base}
	assert.ErrorIs(t, err, base)
	assert.True(t, domaineta.IsTransient(err))
	assert.Equal(t, "TRANSIENT", domaineta.KindOf(err).String())
}
