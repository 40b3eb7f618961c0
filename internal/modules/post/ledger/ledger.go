// Package ledger tracks which posts have already been edited, enforcing
// at-most-once caption rewriting for the lifetime of the process.
package ledger

import (
	"sync"

	"github.com/sourcepaw/sourcebot/internal/modules/post/domain"
)

// Ledger is an insert-only map of post identities to their edited
// state. It is intentionally not persisted: a restart forgets history.
type Ledger struct {
	mu     sync.RWMutex
	edited map[domain.ID]bool
}

func New() *Ledger {
	return &Ledger{edited: make(map[domain.ID]bool)}
}

// TryClaim atomically marks a post as edited if no entry exists yet.
// Returns true when this call inserted the claim.
func (l *Ledger) TryClaim(id domain.ID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.edited[id] {
		return false
	}
	l.edited[id] = true
	return true
}

// MarkEdited records that a post's caption has been rewritten (or was
// already correct, which counts the same).
func (l *Ledger) MarkEdited(id domain.ID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.edited[id] = true
}

// IsEdited reports whether a post is already claimed or rewritten.
func (l *Ledger) IsEdited(id domain.ID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.edited[id]
}
