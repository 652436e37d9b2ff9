// Package migrations contiene el esquema SQL versionado (golang-migrate).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
