package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tmercier/boutique-api/internal/domain"
	"github.com/tmercier/boutique-api/internal/store"
)

// MockProduitStore is an in-memory implementation of store.ProduitStore
// for tests. A non-nil Err forces every method to fail with that error.
type MockProduitStore struct {
	mu       sync.Mutex
	produits map[uuid.UUID]*domain.Produit

	// Err, when set, is returned by every method.
	Err error
}

// NewMockProduitStore creates an empty MockProduitStore.
func NewMockProduitStore() *MockProduitStore {
	return &MockProduitStore{
		produits: make(map[uuid.UUID]*domain.Produit),
	}
}

var _ store.ProduitStore = (*MockProduitStore)(nil)

// Create implements store.ProduitStore.Create.
func (m *MockProduitStore) Create(ctx context.Context, produit *domain.Produit) error {
	if m.Err != nil {
		return m.Err
	}

	if err := produit.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *produit
	m.produits[produit.ID] = &clone
	return nil
}

// List implements store.ProduitStore.List, newest first.
func (m *MockProduitStore) List(ctx context.Context) ([]*domain.Produit, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	produits := make([]*domain.Produit, 0, len(m.produits))
	for _, produit := range m.produits {
		clone := *produit
		produits = append(produits, &clone)
	}
	for i := 0; i < len(produits); i++ {
		for j := i + 1; j < len(produits); j++ {
			if produits[j].DateCreation.After(produits[i].DateCreation) {
				produits[i], produits[j] = produits[j], produits[i]
			}
		}
	}
	return produits, nil
}

// GetByID implements store.ProduitStore.GetByID.
func (m *MockProduitStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Produit, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	produit, ok := m.produits[id]
	if !ok {
		return nil, store.ErrProduitNotFound
	}
	clone := *produit
	return &clone, nil
}

// Update implements store.ProduitStore.Update.
func (m *MockProduitStore) Update(ctx context.Context, produit *domain.Produit) error {
	if m.Err != nil {
		return m.Err
	}

	if err := produit.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.produits[produit.ID]; !ok {
		return store.ErrProduitNotFound
	}

	produit.DateModification = time.Now().UTC()
	clone := *produit
	m.produits[produit.ID] = &clone
	return nil
}

// Delete implements store.ProduitStore.Delete.
func (m *MockProduitStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.produits[id]; !ok {
		return store.ErrProduitNotFound
	}
	delete(m.produits, id)
	return nil
}

// WithTx implements store.ProduitStore.WithTx. The mock ignores the
// transaction and returns itself.
func (m *MockProduitStore) WithTx(tx *sql.Tx) store.ProduitStore {
	return m
}

// Count returns the number of stored products.
func (m *MockProduitStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.produits)
}
