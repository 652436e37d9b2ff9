package entity

import "time"

// ETACredential credenciales de envío de una empresa (material secreto).
// El secreto viaja cifrado desde el almacén de configuración del tenant y solo
// el gestor de credenciales lo descifra.
type ETACredential struct {
	CompanyID             string
	ClientID              string
	ClientSecretEncrypted []byte
	Environment           string // preprod | production
	UpdatedAt             time.Time
}
