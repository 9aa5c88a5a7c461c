package channel

import (
	"math/big"
	"math/rand"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// CanonicalIdentifier pins a channel to its chain, token network and
// channel id. Its fields are part of the signed transfer layout.
type CanonicalIdentifier struct {
	ChainID             *big.Int
	TokenNetworkAddress common.Address
	ChannelID           uint64
}

// BalanceProof is the latest committed summary of one channel side.
type BalanceProof struct {
	Nonce             uint64
	TransferredAmount *big.Int
	LockedAmount      *big.Int
	LocksRoot         common.Hash
}

// EndState tracks one side of a channel: its latest balance proof, the
// merkle tree of pending locks and the locks themselves, keyed by secret
// hash.
type EndState struct {
	Address      common.Address
	BalanceProof *BalanceProof
	Tree         *MerkleTree
	PendingLocks map[common.Hash]*Lock
}

func NewEndState(address common.Address) *EndState {
	return &EndState{
		Address:      address,
		Tree:         EmptyMerkleTree(),
		PendingLocks: make(map[common.Hash]*Lock),
	}
}

// NextNonce returns the nonce the next transfer sent by this side must
// carry. Nonces start at 1 on a fresh channel and never regress.
func (e *EndState) NextNonce() uint64 {
	if e.BalanceProof == nil {
		return 1
	}

	return e.BalanceProof.Nonce + 1
}

// AmountLocked sums the amounts of every lock currently pending.
func (e *EndState) AmountLocked() *big.Int {
	total := big.NewInt(0)

	for _, lock := range e.PendingLocks {
		total = total.Add(total, lock.Amount)
	}

	return total
}

// IdentifierSequence hands out payment and message identifiers for one
// channel. It is deterministic for a given seed so identifier streams can
// be replayed in tests.
type IdentifierSequence struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewIdentifierSequence(seed int64) *IdentifierSequence {
	return &IdentifierSequence{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (s *IdentifierSequence) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Uint64()
}

// State is a snapshot-readable channel. The transfer factory only ever
// reads it; committing a proposed transfer back into the state is the
// channel subsystem's job.
type State struct {
	mu sync.Mutex

	CanonicalID   CanonicalIdentifier
	TokenAddress  common.Address
	RevealTimeout uint64
	OurState      *EndState
	PartnerState  *EndState
	Identifiers   *IdentifierSequence
}

// Lock serializes the read-state/next-nonce step. Two transfers proposed
// concurrently on the same channel must not observe the same nonce.
func (s *State) Lock() {
	s.mu.Lock()
}

func (s *State) Unlock() {
	s.mu.Unlock()
}

// Open reports whether the state carries everything a transfer needs.
func (s *State) Open() bool {
	return s.PartnerState != nil &&
		s.PartnerState.Address != (common.Address{}) &&
		s.OurState != nil &&
		s.CanonicalID.ChainID != nil
}

// InitialLockExpiration computes the expiration block for a freshly
// created lock. The lock must outlive two reveal windows so the secret
// can still be registered after the partner learns it.
func InitialLockExpiration(blockNumber uint64, revealTimeout uint64) uint64 {
	return blockNumber + 2*revealTimeout
}
