package channel

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-errors/errors"
)

// Registry maps a local party to the channel it sends on. Payments
// initiated over the API resolve their channel here.
type Registry struct {
	mu       sync.RWMutex
	channels map[common.Address]*State
}

func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[common.Address]*State),
	}
}

func (r *Registry) Add(initiator common.Address, state *State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[initiator] = state
}

func (r *Registry) ForInitiator(initiator common.Address) (*State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.channels[initiator]

	if !ok {
		return nil, errors.New("no channel found for initiator " + initiator.Hex())
	}

	return state, nil
}
