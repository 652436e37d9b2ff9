package eta

import (
	"fmt"
	"unicode"
)

// Longitudes exigidas por la ETA para identificadores de contribuyentes.
const (
	RINLength        = 9  // Número de registro tributario (RIN) de empresas
	NationalIDLength = 14 // Número nacional de personas naturales
)

// ValidateRIN valida que el número de registro tributario tenga exactamente 9 dígitos.
// Acepta separadores ("100-324-932"); se ignoran los caracteres no numéricos.
func ValidateRIN(taxID string) error {
	digits := extractDigits(taxID)
	if len(digits) == 0 {
		return fmt.Errorf("eta: número de registro tributario vacío")
	}
	if len(digits) != RINLength {
		return fmt.Errorf("eta: el número de registro tributario debe tener %d dígitos, se encontraron %d", RINLength, len(digits))
	}
	return nil
}

// ValidateNationalID valida el número nacional egipcio (14 dígitos, siglo 2 o 3).
func ValidateNationalID(id string) error {
	digits := extractDigits(id)
	if len(digits) != NationalIDLength {
		return fmt.Errorf("eta: el número nacional debe tener %d dígitos, se encontraron %d", NationalIDLength, len(digits))
	}
	if digits[0] != '2' && digits[0] != '3' {
		return fmt.Errorf("eta: número nacional con dígito de siglo inválido %q", digits[0])
	}
	return nil
}

// NormalizeID deja solo los dígitos de un identificador (RIN o número nacional).
func NormalizeID(s string) string {
	return string(extractDigits(s))
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return out
}
