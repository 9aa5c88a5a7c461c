package transport

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-errors/errors"
)

// Registry resolves the session a given party sends through. Payment
// dispatch looks the initiator up here.
type Registry struct {
	mu       sync.RWMutex
	sessions map[common.Address]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[common.Address]*Session),
	}
}

func (r *Registry) Add(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Address] = session
}

func (r *Registry) SessionFor(address common.Address) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[address]

	if !ok {
		return nil, errors.New("no transport session for " + address.Hex())
	}

	return session, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
