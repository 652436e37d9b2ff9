// Firma RSA-SHA256 de la serialización canónica del documento ETA.

package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"encoding/base64"
	"fmt"
)

// RSASigner implementa pkg/eta.Signer con la llave del certificado del contribuyente.
type RSASigner struct {
	key *rsa.PrivateKey
}

// NewRSASigner valida que el certificado incluya una llave privada RSA.
func NewRSASigner(cert tls.Certificate) (*RSASigner, error) {
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("eta: el certificado debe incluir llave privada RSA")
	}
	return &RSASigner{key: priv}, nil
}

// Sign firma SHA-256(canonical) con PKCS#1 v1.5 y devuelve la firma en Base64.
func (s *RSASigner) Sign(canonical []byte) (string, error) {
	if len(canonical) == 0 {
		return "", fmt.Errorf("eta: nada que firmar")
	}
	h := sha256.Sum256(canonical)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, h[:])
	if err != nil {
		return "", fmt.Errorf("eta: firmar documento: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}
