package eta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

func TestValidateRIN_Valido(t *testing.T) {
	require.NoError(t, eta.ValidateRIN("100324932"))
	require.NoError(t, eta.ValidateRIN("100-324-932"), "los separadores se ignoran")
}

func TestValidateRIN_Invalido(t *testing.T) {
	assert.Error(t, eta.ValidateRIN(""))
	assert.Error(t, eta.ValidateRIN("12345678"))
	assert.Error(t, eta.ValidateRIN("1234567890"))
}

func TestValidateNationalID(t *testing.T) {
	require.NoError(t, eta.ValidateNationalID("29001011234567"))
	assert.Error(t, eta.ValidateNationalID("19001011234567"), "dígito de siglo inválido")
	assert.Error(t, eta.ValidateNationalID("2900101123"))
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "100324932", eta.NormalizeID(" 100.324-932 "))
}
