// seed_eta genera un script SQL que carga credenciales ETA de varias empresas
// con el client_secret ya cifrado con ETA_SECRET_KEY.
//
// Uso: go run ./cmd/seed_eta [ruta/credenciales.csv] [salida.sql]
// El CSV lleva cabecera: company_id,client_id,client_secret,environment
// Por defecto lee credenciales.csv y escribe por stdout.
package main

import (
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jhoicas/eta-einvoice/internal/infrastructure/eta/credentials"
	"github.com/jhoicas/eta-einvoice/pkg/config"
	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

type row struct {
	companyID, clientID, secret, environment string
}

func main() {
	csvPath := "credenciales.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	key, err := credentials.ParseKey(cfg.ETA.SecretKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := readRows(f, cfg.ETA.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	// Orden por empresa para salida estable
	sort.Slice(rows, func(i, j int) bool { return rows[i].companyID < rows[j].companyID })

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		file, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}

	sealer := credentials.NewSealer(key)
	fmt.Fprintln(out, "-- Credenciales ETA por empresa (client_secret cifrado)")
	for _, r := range rows {
		sealed, err := sealer.Seal([]byte(r.secret))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cifrar secreto de %s: %v\n", r.companyID, err)
			os.Exit(1)
		}
		fmt.Fprintf(out, "INSERT INTO eta_credentials (company_id, client_id, client_secret_encrypted, environment, updated_at)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '\\x%s', '%s', now())\n",
			escapeSQL(r.companyID), escapeSQL(r.clientID), hex.EncodeToString(sealed), r.environment)
		fmt.Fprintln(out, "ON CONFLICT (company_id) DO UPDATE SET client_id = EXCLUDED.client_id,")
		fmt.Fprintln(out, "  client_secret_encrypted = EXCLUDED.client_secret_encrypted,")
		fmt.Fprintln(out, "  environment = EXCLUDED.environment, updated_at = now();")
	}

	fmt.Fprintf(os.Stderr, "Generadas %d credenciales\n", len(rows))
}

func readRows(r io.Reader, defaultEnv string) ([]row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	var rows []row
	for i, rec := range records {
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "company_id") {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperan al menos 3 columnas", i+1)
		}
		env := defaultEnv
		if len(rec) > 3 && strings.TrimSpace(rec[3]) != "" {
			env = strings.ToLower(strings.TrimSpace(rec[3]))
		}
		if !eta.ValidEnvironments[env] {
			return nil, fmt.Errorf("línea %d: ambiente %q inválido", i+1, env)
		}
		rows = append(rows, row{
			companyID:   strings.TrimSpace(rec[0]),
			clientID:    strings.TrimSpace(rec[1]),
			secret:      rec[2],
			environment: env,
		})
	}
	return rows, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
