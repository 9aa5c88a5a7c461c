package channel

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kyokan/portcullis/pkg/crypto"
)

// EmptyLocksRoot commits to a channel side with no pending locks.
var EmptyLocksRoot = common.Hash{}

// MerkleTree is an immutable commitment to a set of lock hashes. Folding a
// new leaf in always returns a fresh tree; the live tree a channel side
// holds is never touched until the proposed transfer is committed.
type MerkleTree struct {
	leaves []common.Hash
	root   common.Hash
}

func NewMerkleTree(leaves []common.Hash) *MerkleTree {
	owned := make([]common.Hash, len(leaves))
	copy(owned, leaves)

	return &MerkleTree{
		leaves: owned,
		root:   computeRoot(owned),
	}
}

func EmptyMerkleTree() *MerkleTree {
	return &MerkleTree{}
}

func (t *MerkleTree) Root() common.Hash {
	return t.root
}

func (t *MerkleTree) Len() int {
	return len(t.leaves)
}

func (t *MerkleTree) Leaves() []common.Hash {
	out := make([]common.Hash, len(t.leaves))
	copy(out, t.leaves)
	return out
}

// WithLeaf folds leaf into a copy of the tree and returns the copy.
func (t *MerkleTree) WithLeaf(leaf common.Hash) *MerkleTree {
	leaves := make([]common.Hash, len(t.leaves), len(t.leaves)+1)
	copy(leaves, t.leaves)
	leaves = append(leaves, leaf)

	return &MerkleTree{
		leaves: leaves,
		root:   computeRoot(leaves),
	}
}

// hashPair orders the siblings before hashing so the root is independent
// of insertion order within a pair.
func hashPair(a common.Hash, b common.Hash) common.Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}

	return crypto.Sha3(a[:], b[:])
}

func computeRoot(leaves []common.Hash) common.Hash {
	if len(leaves) == 0 {
		return EmptyLocksRoot
	}

	layer := make([]common.Hash, len(leaves))
	copy(layer, leaves)

	for len(layer) > 1 {
		next := make([]common.Hash, 0, (len(layer)+1)/2)

		for i := 0; i < len(layer)-1; i += 2 {
			next = append(next, hashPair(layer[i], layer[i+1]))
		}

		// odd leaf is promoted to the next layer untouched
		if len(layer)%2 == 1 {
			next = append(next, layer[len(layer)-1])
		}

		layer = next
	}

	return layer[0]
}
