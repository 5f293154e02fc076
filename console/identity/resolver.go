// Package identity resolves the user record behind the current user
// credential and tracks the tri-state resolution status, so consumers
// never have to guess whether an absent record means "not logged in" or
// "still checking".
package identity

import (
	"context"
	"sync"

	"github.com/relayforge/gateway-console/console/gateway"
	"github.com/relayforge/gateway-console/logger"
)

// Status is the resolution state of the user identity.
type Status int

const (
	Unresolved Status = iota
	Absent
	Present
)

func (s Status) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Absent:
		return "absent"
	case Present:
		return "present"
	}
	return "unknown"
}

// FetchFunc fetches the user record for a credential.
type FetchFunc func(ctx context.Context, token string) (*gateway.User, error)

// Resolver owns the Identity associated with the user credential. It is
// the only writer of that state.
type Resolver struct {
	mu     sync.Mutex
	token  string
	status Status
	user   *gateway.User

	fetch FetchFunc
	// clearCredential removes the user credential after a failed or
	// rejected resolution.
	clearCredential func()
	// onChange fires after every committed state transition.
	onChange func()
}

// New creates a resolver. Initial status is Unresolved until the first
// CredentialChanged call settles.
func New(fetch FetchFunc, clearCredential func(), onChange func()) *Resolver {
	if clearCredential == nil {
		clearCredential = func() {}
	}
	if onChange == nil {
		onChange = func() {}
	}
	return &Resolver{
		fetch:           fetch,
		clearCredential: clearCredential,
		onChange:        onChange,
	}
}

// Status returns the current resolution status.
func (r *Resolver) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// User returns the resolved record, or nil unless status is Present.
func (r *Resolver) User() *gateway.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.user
}

// CredentialChanged must be called whenever the user credential changes,
// including becoming absent. An empty token resolves to Absent
// immediately; otherwise the status drops to Unresolved and a fetch is
// started for the new token.
func (r *Resolver) CredentialChanged(token string) {
	r.mu.Lock()
	if token == r.token && token == "" && r.status == Absent {
		r.mu.Unlock()
		return
	}
	r.token = token
	r.user = nil
	if token == "" {
		r.status = Absent
		r.mu.Unlock()
		r.onChange()
		return
	}
	r.status = Unresolved
	r.mu.Unlock()
	r.onChange()

	go r.resolve(token)
}

// Recheck re-runs resolution for the current credential without dropping
// to Unresolved first, so a valid session never flickers. Used by the
// periodic revalidation job.
func (r *Resolver) Recheck() {
	r.mu.Lock()
	token := r.token
	r.mu.Unlock()
	if token == "" {
		return
	}
	go r.resolve(token)
}

// resolve fetches the record for token and commits the outcome only if
// token is still the current credential. Results for replaced credentials
// are discarded so a slow response for a stale token can never overwrite
// a newer resolution.
func (r *Resolver) resolve(token string) {
	user, err := r.fetch(context.Background(), token)

	r.mu.Lock()
	if r.token != token {
		r.mu.Unlock()
		return
	}
	if err != nil {
		logger.Debug("identity resolution failed:", err)
		r.status = Absent
		r.user = nil
		r.mu.Unlock()
		r.clearCredential()
		r.onChange()
		return
	}
	r.status = Present
	r.user = user
	r.mu.Unlock()
	r.onChange()
}
