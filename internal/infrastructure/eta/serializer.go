package eta

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// signaturesKey propiedad excluida de la serialización canónica.
const signaturesKey = "signatures"

// Serialize produce la serialización canónica de la ETA a partir del JSON del documento:
// cada propiedad como "NOMBRE" en mayúsculas seguida de su valor entre comillas; los arrays
// escriben el nombre una vez y luego el nombre antes de cada elemento. Las firmas no entran.
// Los textos se normalizan a NFC.
func Serialize(documentJSON []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(documentJSON))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("eta: serializar: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("eta: serializar: el documento debe ser un objeto JSON")
	}
	w := &canonicalWriter{dec: dec}
	if err := w.object(true); err != nil {
		return nil, fmt.Errorf("eta: serializar: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("eta: serializar: contenido después del documento")
	}
	return w.buf.Bytes(), nil
}

// Fingerprint SHA-256 en hex (minúsculas) de la serialización canónica.
func Fingerprint(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

type canonicalWriter struct {
	dec *json.Decoder
	buf bytes.Buffer
}

// object consume las propiedades hasta el '}' de cierre (ya consumido el '{').
func (w *canonicalWriter) object(root bool) error {
	for w.dec.More() {
		keyTok, err := w.dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("clave inesperada %v", keyTok)
		}
		tok, err := w.dec.Token()
		if err != nil {
			return err
		}
		if root && strings.EqualFold(key, signaturesKey) {
			if err := w.skip(tok); err != nil {
				return err
			}
			continue
		}
		name := `"` + strings.ToUpper(key) + `"`
		if d, ok := tok.(json.Delim); ok && d == '[' {
			w.buf.WriteString(name)
			for w.dec.More() {
				elem, err := w.dec.Token()
				if err != nil {
					return err
				}
				w.buf.WriteString(name)
				if err := w.value(elem); err != nil {
					return err
				}
			}
			if _, err := w.dec.Token(); err != nil { // ']'
				return err
			}
			continue
		}
		w.buf.WriteString(name)
		if err := w.value(tok); err != nil {
			return err
		}
	}
	_, err := w.dec.Token() // '}'
	return err
}

func (w *canonicalWriter) value(tok json.Token) error {
	switch v := tok.(type) {
	case json.Delim:
		if v == '{' {
			return w.object(false)
		}
		return fmt.Errorf("array anidado sin nombre de propiedad")
	case string:
		w.scalar(norm.NFC.String(v))
	case json.Number:
		w.scalar(v.String())
	case bool:
		w.scalar(strconv.FormatBool(v))
	case nil:
		w.scalar("")
	default:
		return fmt.Errorf("token inesperado %v", tok)
	}
	return nil
}

func (w *canonicalWriter) scalar(s string) {
	w.buf.WriteByte('"')
	w.buf.WriteString(s)
	w.buf.WriteByte('"')
}

// skip descarta un valor completo (escalar, objeto o array).
func (w *canonicalWriter) skip(tok json.Token) error {
	d, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	if d != '{' && d != '[' {
		return fmt.Errorf("delimitador inesperado %v", d)
	}
	depth := 1
	for depth > 0 {
		t, err := w.dec.Token()
		if err != nil {
			return err
		}
		if d, ok := t.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
