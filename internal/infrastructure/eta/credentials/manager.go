// Package credentials resuelve las credenciales ETA de cada empresa y mantiene su token de acceso.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/eta-einvoice/internal/domain/entity"
	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
	"github.com/jhoicas/eta-einvoice/internal/domain/repository"
	infraeta "github.com/jhoicas/eta-einvoice/internal/infrastructure/eta"
	"github.com/jhoicas/eta-einvoice/pkg/logger"
)

// expiryMargin un token que vence dentro de este margen se considera vencido.
const expiryMargin = 60 * time.Second

var _ domaineta.SessionProvider = (*Manager)(nil)

// Manager implementa domaineta.SessionProvider. Un token en caché por empresa y como máximo
// una renovación en curso por empresa.
type Manager struct {
	creds     repository.ETACredentialRepository
	client    *infraeta.Client
	store     TokenStore
	key       *[32]byte
	endpoints func(environment string) infraeta.Endpoints
	flight    singleflight.Group
	log       *logger.Logger
	now       func() time.Time
}

// Option configura el Manager.
type Option func(*Manager)

// WithEndpoints reemplaza la resolución de URLs por ambiente.
func WithEndpoints(fn func(environment string) infraeta.Endpoints) Option {
	return func(m *Manager) { m.endpoints = fn }
}

// WithClock reemplaza el reloj.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager construye el gestor. store nil usa una caché en memoria.
func NewManager(creds repository.ETACredentialRepository, client *infraeta.Client, store TokenStore, key *[32]byte, log *logger.Logger, opts ...Option) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	if log == nil {
		log = logger.Nop()
	}
	m := &Manager{
		creds:     creds,
		client:    client,
		store:     store,
		key:       key,
		endpoints: infraeta.EndpointsFor,
		log:       log,
		now:       time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Session devuelve un cliente autenticado para la empresa, o (nil, nil) si no hay credenciales.
// El token se obtiene de forma perezosa en la primera llamada de la sesión.
func (m *Manager) Session(ctx context.Context, companyID string) (domaineta.Session, error) {
	cred, err := m.creds.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("eta: cargar credenciales: %w", err)
	}
	if cred == nil || cred.ClientID == "" || len(cred.ClientSecretEncrypted) == 0 {
		return nil, nil
	}
	return &session{m: m, cred: cred, ep: m.endpoints(cred.Environment)}, nil
}

// token devuelve un token vigente. force descarta el de la caché (tras un 401).
func (m *Manager) token(ctx context.Context, cred *entity.ETACredential, ep infraeta.Endpoints, force bool) (string, error) {
	if !force {
		if tok, err := m.store.Get(ctx, cred.CompanyID); err == nil && tok.Valid(m.now(), expiryMargin) {
			return tok.AccessToken, nil
		}
	}
	v, err, _ := m.flight.Do(cred.CompanyID, func() (any, error) {
		if !force {
			if tok, err := m.store.Get(ctx, cred.CompanyID); err == nil && tok.Valid(m.now(), expiryMargin) {
				return tok.AccessToken, nil
			}
		}
		secret, err := m.secret(cred)
		if err != nil {
			return nil, err
		}
		tok, err := m.client.Authenticate(ctx, ep, cred.ClientID, secret)
		if err != nil {
			return nil, err
		}
		if err := m.store.Set(ctx, cred.CompanyID, tok); err != nil {
			m.log.Warn().Err(err).Str("company_id", cred.CompanyID).Msg("eta: no se pudo guardar el token en caché")
		}
		m.log.Info().Str("company_id", cred.CompanyID).Time("expires_at", tok.ExpiresAt).Msg("eta: token renovado")
		return tok.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate descarta el token en caché de la empresa.
func (m *Manager) Invalidate(ctx context.Context, companyID string) error {
	return m.store.Delete(ctx, companyID)
}

func (m *Manager) secret(cred *entity.ETACredential) (string, error) {
	if m.key == nil {
		return "", &domaineta.AuthError{Err: errors.New("ETA_SECRET_KEY no configurada")}
	}
	plain, err := Open(m.key, cred.ClientSecretEncrypted)
	if err != nil {
		return "", &domaineta.AuthError{Err: err}
	}
	return string(plain), nil
}

// session cliente autenticado de una empresa. Ante un 401 renueva el token una sola vez.
type session struct {
	m    *Manager
	cred *entity.ETACredential
	ep   infraeta.Endpoints
}

func (s *session) withToken(ctx context.Context, call func(token string) error) error {
	tok, err := s.m.token(ctx, s.cred, s.ep, false)
	if err != nil {
		return fmt.Errorf("%w: %w", domaineta.ErrNotSent, err)
	}
	err = call(tok)
	if !errors.Is(err, infraeta.ErrTokenRejected) {
		return err
	}
	if err := s.m.Invalidate(ctx, s.cred.CompanyID); err != nil {
		s.m.log.Warn().Err(err).Str("company_id", s.cred.CompanyID).Msg("eta: no se pudo invalidar el token")
	}
	if tok, err = s.m.token(ctx, s.cred, s.ep, true); err != nil {
		return fmt.Errorf("%w: %w", domaineta.ErrNotSent, err)
	}
	return call(tok)
}

func (s *session) SubmitDocuments(ctx context.Context, docs []*domaineta.BuiltDocument) (*domaineta.Submission, error) {
	var sub *domaineta.Submission
	err := s.withToken(ctx, func(token string) error {
		var err error
		sub, err = s.m.client.SubmitDocuments(ctx, s.ep, token, docs)
		return err
	})
	return sub, err
}

func (s *session) DocumentStatus(ctx context.Context, uuid string) (*domaineta.DocumentStatus, error) {
	var st *domaineta.DocumentStatus
	err := s.withToken(ctx, func(token string) error {
		var err error
		st, err = s.m.client.DocumentStatus(ctx, s.ep, token, uuid)
		return err
	})
	return st, err
}

func (s *session) CancelDocument(ctx context.Context, uuid, reason string) error {
	return s.withToken(ctx, func(token string) error {
		return s.m.client.CancelDocument(ctx, s.ep, token, uuid, reason)
	})
}
