// Package eta: interfaz para firma de documentos canónicos ETA.

package eta

// Signer firma la serialización canónica de un documento.
type Signer interface {
	// Sign recibe la cadena canónica (sin signatures) y devuelve el valor
	// en Base64 que se publica en signatures[].value.
	Sign(canonical []byte) (string, error)
}
