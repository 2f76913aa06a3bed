// Package mocks provides hand-written test doubles for the store and auth
// interfaces, backed by in-memory maps.
package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/tmercier/boutique-api/internal/domain"
	"github.com/tmercier/boutique-api/internal/store"
)

// MockUtilisateurStore is an in-memory implementation of
// store.UtilisateurStore for tests. A non-nil Err forces every method to
// fail with that error.
type MockUtilisateurStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.Utilisateur

	// Err, when set, is returned by every method.
	Err error
}

// NewMockUtilisateurStore creates an empty MockUtilisateurStore.
func NewMockUtilisateurStore() *MockUtilisateurStore {
	return &MockUtilisateurStore{
		users: make(map[uuid.UUID]*domain.Utilisateur),
	}
}

var _ store.UtilisateurStore = (*MockUtilisateurStore)(nil)

// Create implements store.UtilisateurStore.Create. It applies a fake hash
// to mirror the real store's contract that plaintext is never kept.
func (m *MockUtilisateurStore) Create(ctx context.Context, user *domain.Utilisateur) error {
	if m.Err != nil {
		return m.Err
	}

	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	if user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
		user.Password = ""
	}

	clone := *user
	m.users[user.ID] = &clone
	return nil
}

// List implements store.UtilisateurStore.List, newest first.
func (m *MockUtilisateurStore) List(ctx context.Context) ([]*domain.Utilisateur, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.Utilisateur, 0, len(m.users))
	for _, user := range m.users {
		clone := *user
		users = append(users, &clone)
	}
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			if users[j].DateJoined.After(users[i].DateJoined) {
				users[i], users[j] = users[j], users[i]
			}
		}
	}
	return users, nil
}

// GetByID implements store.UtilisateurStore.GetByID.
func (m *MockUtilisateurStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Utilisateur, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUtilisateurNotFound
	}
	clone := *user
	return &clone, nil
}

// GetByEmail implements store.UtilisateurStore.GetByEmail.
func (m *MockUtilisateurStore) GetByEmail(ctx context.Context, email string) (*domain.Utilisateur, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	normalized := domain.NormalizeEmail(email)
	for _, user := range m.users {
		if user.Email == normalized {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrUtilisateurNotFound
}

// Update implements store.UtilisateurStore.Update.
func (m *MockUtilisateurStore) Update(ctx context.Context, user *domain.Utilisateur) error {
	if m.Err != nil {
		return m.Err
	}

	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return store.ErrUtilisateurNotFound
	}

	for id, existing := range m.users {
		if id != user.ID && existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	if user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
		user.Password = ""
	}

	clone := *user
	m.users[user.ID] = &clone
	return nil
}

// Delete implements store.UtilisateurStore.Delete.
func (m *MockUtilisateurStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return store.ErrUtilisateurNotFound
	}
	delete(m.users, id)
	return nil
}

// WithTx implements store.UtilisateurStore.WithTx. The mock ignores the
// transaction and returns itself.
func (m *MockUtilisateurStore) WithTx(tx *sql.Tx) store.UtilisateurStore {
	return m
}

// Count returns the number of stored users.
func (m *MockUtilisateurStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
