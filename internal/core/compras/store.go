package compras

import (
	"context"
	"errors"
	"sync"

	"conciliador-service/internal/domain"
)

// ErrBaseVazia indica que nenhuma base de compras foi carregada ainda.
var ErrBaseVazia = errors.New("nenhuma base de compras carregada")

// Store guarda a base de compras entre o upload e as execuções de
// conciliação. Substituir troca a base inteira de forma atômica;
// Carregar devolve um snapshot que o chamador pode ler sem lock.
type Store interface {
	Substituir(ctx context.Context, t *domain.Table) error
	Carregar(ctx context.Context) (*domain.Table, error)
	Total(ctx context.Context) (int, error)
}

// MemStore mantém a base em memória. Serve para desenvolvimento e para o
// modo batch; em produção com múltiplas instâncias use o SQLStore.
type MemStore struct {
	mu   sync.RWMutex
	base *domain.Table
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Substituir(_ context.Context, t *domain.Table) error {
	snapshot := t.Clone()
	s.mu.Lock()
	s.base = snapshot
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Carregar(_ context.Context) (*domain.Table, error) {
	s.mu.RLock()
	base := s.base
	s.mu.RUnlock()
	if base == nil {
		return nil, ErrBaseVazia
	}
	return base.Clone(), nil
}

func (s *MemStore) Total(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.base == nil {
		return 0, nil
	}
	return len(s.base.Rows), nil
}
