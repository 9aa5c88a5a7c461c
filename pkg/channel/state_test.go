package channel

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestEndState_NextNonce(t *testing.T) {
	end := NewEndState(common.HexToAddress("0x627306090abab3a6e1400e9345bc60c78a8bef57"))
	assert.Equal(t, uint64(1), end.NextNonce())

	end.BalanceProof = &BalanceProof{
		Nonce:             5,
		TransferredAmount: big.NewInt(0),
		LockedAmount:      big.NewInt(0),
		LocksRoot:         EmptyLocksRoot,
	}
	assert.Equal(t, uint64(6), end.NextNonce())
}

func TestEndState_AmountLocked(t *testing.T) {
	end := NewEndState(common.HexToAddress("0x627306090abab3a6e1400e9345bc60c78a8bef57"))
	assert.Equal(t, 0, end.AmountLocked().Cmp(big.NewInt(0)))

	end.PendingLocks[common.HexToHash("0x01")] = &Lock{Amount: big.NewInt(10), Expiration: 100}
	end.PendingLocks[common.HexToHash("0x02")] = &Lock{Amount: big.NewInt(32), Expiration: 200}

	assert.Equal(t, 0, end.AmountLocked().Cmp(big.NewInt(42)))
}

func TestEndState_CommitRejectsNonceConflict(t *testing.T) {
	end := NewEndState(common.HexToAddress("0x627306090abab3a6e1400e9345bc60c78a8bef57"))

	lock := &Lock{Amount: big.NewInt(10), Expiration: 100, SecretHash: common.HexToHash("0x01")}
	lockHash, err := lock.Hash()
	assert.Nil(t, err)

	tree := end.Tree.WithLeaf(lockHash)

	proposal := &Proposal{
		BalanceProof: &BalanceProof{
			Nonce:             1,
			TransferredAmount: big.NewInt(0),
			LockedAmount:      big.NewInt(10),
			LocksRoot:         tree.Root(),
		},
		Tree: tree,
		Lock: lock,
	}

	assert.Nil(t, end.Commit(proposal))
	assert.Equal(t, uint64(2), end.NextNonce())
	assert.Equal(t, 1, end.Tree.Len())

	// replaying the same proposal must fail loudly, not regress the nonce
	err = end.Commit(proposal)
	assert.NotNil(t, err)
	assert.Equal(t, uint64(2), end.NextNonce())
}

func TestIdentifierSequence_Deterministic(t *testing.T) {
	a := NewIdentifierSequence(1337)
	b := NewIdentifierSequence(1337)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}

	c := NewIdentifierSequence(7331)
	assert.NotEqual(t, NewIdentifierSequence(1337).Next(), c.Next())
}

func TestInitialLockExpiration(t *testing.T) {
	assert.Equal(t, uint64(200), InitialLockExpiration(100, 50))
	assert.Equal(t, uint64(2), InitialLockExpiration(0, 1))
}
