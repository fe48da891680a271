// Package login implements the Login process (spec §1, §4.8): a
// credential gate in front of World's session-token mint. The store is an
// in-memory stand-in — spec §1 says "any store will do" for this
// out-of-scope collaborator, supplemented here into a real process so
// Login/World/Gateway/Game interoperate end-to-end.
package login

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// AccountStore is an in-memory login -> bcrypt-hash table, guarded by a
// plain mutex — spec §5 calls Login's maps "small and contention-light",
// so no sync.Map/atomic-snapshot machinery is warranted here (contrast
// internal/zone, which drops synchronisation entirely in the other
// direction because it's single-writer instead).
//
// There is no separate registration flow in this core's scope: the first
// LoginReq for an unseen id creates the account, matching la2go's
// GetOrCreateAccount convenience.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[string][]byte // id -> bcrypt hash
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string][]byte)}
}

// Authenticate validates password against the stored hash for id,
// creating the account on first use. Returns false if an existing
// account's password doesn't match.
func (s *AccountStore) Authenticate(id, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, exists := s.accounts[id]
	if !exists {
		newHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return false
		}
		s.accounts[id] = newHash
		return true
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// LoggedInSet is the "one login per account id" admission gate (spec §3
// invariant, §4.8).
type LoggedInSet struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewLoggedInSet() *LoggedInSet {
	return &LoggedInSet{active: make(map[string]struct{})}
}

// TryLogin admits id if it isn't already logged in. Returns false on a
// duplicate login attempt (spec §7: "respond success=false, keep
// connection").
func (s *LoggedInSet) TryLogin(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, already := s.active[id]; already {
		return false
	}
	s.active[id] = struct{}{}
	return true
}

// Logout frees id; idempotent.
func (s *LoggedInSet) Logout(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
}
