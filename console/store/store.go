// Package store persists the console's two session credentials. A storage
// write failure is non-fatal: the in-memory value still takes effect for
// the running session so a storage error can never lock the operator out.
package store

import (
	"sync"
	"time"

	"github.com/relayforge/gateway-console/database/model"
	"github.com/relayforge/gateway-console/logger"

	"gorm.io/gorm"
)

// Listener observes credential changes. token is empty when the
// credential was cleared.
type Listener func(role model.Role, token string)

// Store is the process-wide credential holder, backed by the credentials
// table. A nil db gives a memory-only store.
type Store struct {
	mu        sync.Mutex
	db        *gorm.DB
	tokens    map[model.Role]string
	listeners []Listener
}

// New creates a store, restoring any persisted credentials.
func New(db *gorm.DB) *Store {
	s := &Store{
		db:     db,
		tokens: make(map[model.Role]string),
	}
	if db != nil {
		var creds []model.Credential
		if err := db.Find(&creds).Error; err != nil {
			logger.Warning("failed to restore credentials:", err)
		} else {
			for _, c := range creds {
				if c.Role.Valid() && c.Token != "" {
					s.tokens[c.Role] = c.Token
				}
			}
		}
	}
	return s
}

// Subscribe registers a listener for credential changes. Listeners run
// synchronously on the mutating goroutine, outside the store lock.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Get returns the credential for role.
func (s *Store) Get(role model.Role) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[role]
	return token, ok
}

// Has reports whether a credential exists for role.
func (s *Store) Has(role model.Role) bool {
	_, ok := s.Get(role)
	return ok
}

// Set replaces the credential for role and persists it before returning.
func (s *Store) Set(role model.Role, token string) {
	if token == "" {
		s.Clear(role)
		return
	}

	s.mu.Lock()
	if s.tokens[role] == token {
		s.mu.Unlock()
		return
	}
	s.tokens[role] = token
	if s.db != nil {
		var cred model.Credential
		err := s.db.Where("role = ?", role).
			Assign(model.Credential{Token: token, UpdatedAt: time.Now()}).
			FirstOrCreate(&cred, model.Credential{Role: role}).Error
		if err != nil {
			logger.Warningf("failed to persist %s credential: %v", role, err)
		}
	}
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(role, token)
	}
}

// Clear removes the credential for role from memory and storage.
func (s *Store) Clear(role model.Role) {
	s.mu.Lock()
	_, had := s.tokens[role]
	delete(s.tokens, role)
	if s.db != nil {
		if err := s.db.Where("role = ?", role).Delete(&model.Credential{}).Error; err != nil {
			logger.Warningf("failed to remove persisted %s credential: %v", role, err)
		}
	}
	listeners := s.listeners
	s.mu.Unlock()

	if !had {
		return
	}
	for _, l := range listeners {
		l(role, "")
	}
}
