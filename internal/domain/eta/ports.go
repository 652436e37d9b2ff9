package eta

import "context"

// BuiltDocument documento canónico listo para enviar. Se reconstruye en cada intento.
type BuiltDocument struct {
	InternalID  string
	Fingerprint string // SHA-256 hex de la serialización canónica
	Canonical   []byte // serialización canónica (sin firmas)
	Payload     []byte // JSON del documento tal como viaja, con firmas
}

// Session cliente de protocolo ya autenticado para una empresa.
// Las implementaciones renuevan el token una vez ante un 401 antes de rendirse con AuthError.
type Session interface {
	SubmitDocuments(ctx context.Context, docs []*BuiltDocument) (*Submission, error)
	DocumentStatus(ctx context.Context, uuid string) (*DocumentStatus, error)
	CancelDocument(ctx context.Context, uuid, reason string) error
}

// SessionProvider resuelve la sesión de una empresa; (nil, nil) si no tiene credenciales.
type SessionProvider interface {
	Session(ctx context.Context, companyID string) (Session, error)
}
