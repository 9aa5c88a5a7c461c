package channel

import "github.com/go-errors/errors"

// Proposal is the state transition a constructed transfer implies: the
// successor balance proof, the merkle tree with the new lock folded in,
// and the lock itself. It is produced alongside the message and committed
// only once the message has been accepted for delivery.
type Proposal struct {
	BalanceProof *BalanceProof
	Tree         *MerkleTree
	Lock         *Lock
}

// Commit installs a proposal on this channel side. A proposal whose nonce
// is not the side's next valid nonce indicates two writers raced on the
// same snapshot; that is an invariant violation and fails loudly.
func (e *EndState) Commit(p *Proposal) error {
	if p.BalanceProof.Nonce != e.NextNonce() {
		return errors.Errorf(
			"nonce conflict: proposal carries %d, channel expects %d",
			p.BalanceProof.Nonce,
			e.NextNonce(),
		)
	}

	e.BalanceProof = p.BalanceProof
	e.Tree = p.Tree
	e.PendingLocks[p.Lock.SecretHash] = p.Lock
	return nil
}
