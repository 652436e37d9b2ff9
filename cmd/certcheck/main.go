// certcheck verifica que el certificado de firma ETA configurado se pueda cargar
// y firmar con él antes de arrancar la API.
//
// Uso: go run ./cmd/certcheck
// Lee ETA_CERT_PATH, ETA_CERT_KEY_PATH y ETA_CERT_PASSWORD del entorno o del .env.
package main

import (
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/eta-einvoice/internal/infrastructure/eta/signer"
	"github.com/jhoicas/eta-einvoice/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración", err)
	}
	if cfg.ETA.CertPath == "" {
		fmt.Println("ETA_CERT_PATH vacío: los documentos se enviarán sin firma (solo preprod)")
		return
	}

	fmt.Printf("Certificado: %s\n", cfg.ETA.CertPath)
	cert, _, err := signer.Load(cfg.ETA.CertPath, cfg.ETA.CertKeyPath, cfg.ETA.CertPassword)
	if err != nil {
		fail("leer certificado (ruta, formato o contraseña)", err)
	}

	leaf := cert.Leaf
	if leaf == nil {
		if leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			fail("decodificar X.509", err)
		}
	}
	fmt.Printf("Sujeto:  %s\n", leaf.Subject)
	fmt.Printf("Emisor:  %s\n", leaf.Issuer)
	fmt.Printf("Vigente: %s -> %s\n", leaf.NotBefore.Format(time.DateOnly), leaf.NotAfter.Format(time.DateOnly))
	if time.Now().After(leaf.NotAfter) {
		fail("certificado vencido", fmt.Errorf("venció el %s", leaf.NotAfter.Format(time.DateOnly)))
	}

	s, err := signer.NewRSASigner(cert)
	if err != nil {
		fail("llave privada", err)
	}
	if _, err := s.Sign([]byte(`"CERTCHECK""OK"`)); err != nil {
		fail("firma de prueba", err)
	}
	fmt.Println("OK: el certificado carga y firma correctamente")
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "ERROR %s: %v\n", step, err)
	os.Exit(1)
}
