package credentials

import (
	"context"
	"sync"

	infraeta "github.com/jhoicas/eta-einvoice/internal/infrastructure/eta"
)

// TokenStore caché de tokens por empresa.
type TokenStore interface {
	Get(ctx context.Context, companyID string) (*infraeta.Token, error)
	Set(ctx context.Context, companyID string, tok *infraeta.Token) error
	Delete(ctx context.Context, companyID string) error
}

// MemoryStore caché en proceso.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]*infraeta.Token
}

// NewMemoryStore crea la caché en memoria.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]*infraeta.Token)}
}

func (s *MemoryStore) Get(_ context.Context, companyID string) (*infraeta.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[companyID], nil
}

func (s *MemoryStore) Set(_ context.Context, companyID string, tok *infraeta.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[companyID] = tok
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, companyID)
	return nil
}
