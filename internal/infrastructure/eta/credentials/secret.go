package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrSecretKey la clave maestra no es base64 de 32 bytes.
var ErrSecretKey = errors.New("eta: ETA_SECRET_KEY debe ser base64 de 32 bytes")

// ParseKey decodifica la clave maestra (ETA_SECRET_KEY).
func ParseKey(encoded string) (*[32]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) != 32 {
		return nil, ErrSecretKey
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

// Seal cifra el secreto del cliente: nonce (24 bytes) || secretbox.
func Seal(key *[32]byte, plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("eta: generar nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, key), nil
}

// Open descifra un secreto producido por Seal.
func Open(key *[32]byte, sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, errors.New("eta: secreto cifrado demasiado corto")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	out, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return nil, errors.New("eta: no se pudo descifrar el secreto del cliente")
	}
	return out, nil
}

// Sealer cifra secretos con una clave maestra fija.
type Sealer struct {
	key *[32]byte
}

// NewSealer construye un Sealer sobre la clave maestra.
func NewSealer(key *[32]byte) *Sealer {
	return &Sealer{key: key}
}

// Seal cifra plaintext con la clave del Sealer.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	if s == nil || s.key == nil {
		return nil, ErrSecretKey
	}
	return Seal(s.key, plaintext)
}
