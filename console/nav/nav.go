// Package nav keeps the console's logical path consistent with the shell's
// address bar and history entries.
package nav

import (
	"strings"
	"sync"
)

// History abstracts the shell-side history stack the synchronizer mirrors.
// The browser shell bridges this to window.history; tests and the daemon
// itself use MemoryHistory.
type History interface {
	// Location returns the path of the current history entry.
	Location() string
	// Push appends a new history entry for the given path.
	Push(path string)
}

// Normalize canonicalizes a logical path: leading slash enforced, repeated
// slashes collapsed, trailing slash stripped unless the path is the root.
func Normalize(p string) string {
	var b strings.Builder
	b.WriteByte('/')
	prevSlash := true
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if !prevSlash {
				b.WriteByte('/')
			}
			prevSlash = true
			continue
		}
		prevSlash = false
		b.WriteByte(c)
	}
	out := b.String()
	if len(out) > 1 && out[len(out)-1] == '/' {
		out = out[:len(out)-1]
	}
	return out
}

// Synchronizer owns the single source of truth for the current logical path.
type Synchronizer struct {
	mu      sync.Mutex
	current string
	history History
}

// NewSynchronizer creates a synchronizer adopting the history's current
// location as the initial path.
func NewSynchronizer(h History) *Synchronizer {
	return &Synchronizer{
		current: Normalize(h.Location()),
		history: h,
	}
}

// Current returns the current logical path.
func (s *Synchronizer) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Navigate moves to target, pushing a history entry only when the
// normalized target differs from the current history location. Calling it
// twice with the same target is a no-op the second time.
func (s *Synchronizer) Navigate(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	norm := Normalize(target)
	if norm == s.current && Normalize(s.history.Location()) == norm {
		return
	}
	s.current = norm
	if Normalize(s.history.Location()) != norm {
		s.history.Push(norm)
	}
}

// SyncExternal adopts the history's current location without pushing a new
// entry. Used for native back/forward and for paths reported by the shell.
func (s *Synchronizer) SyncExternal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Normalize(s.history.Location())
}

// MemoryHistory is an in-process History holding a simple entry stack.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
	pos     int
}

// NewMemoryHistory creates a history with a single root entry.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{entries: []string{"/"}}
}

func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.pos]
}

func (h *MemoryHistory) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.pos+1], path)
	h.pos = len(h.entries) - 1
}

// Set replaces the current entry in place, as the shell does when the
// address bar changes without a push (back/forward, manual edit).
func (h *MemoryHistory) Set(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.pos] = path
}

// Back moves one entry backwards, reporting whether a move happened.
func (h *MemoryHistory) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos == 0 {
		return false
	}
	h.pos--
	return true
}

// Len reports the number of entries, letting tests assert on duplicate pushes.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
