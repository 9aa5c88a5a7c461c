package transfer

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kyokan/portcullis/pkg/channel"
	"github.com/kyokan/portcullis/pkg/crypto"
	"github.com/stretchr/testify/assert"
)

var (
	ourAddr     = common.HexToAddress("0x627306090abab3a6e1400e9345bc60c78a8bef57")
	partnerAddr = common.HexToAddress("0xf17f52151ebef6c7334fad080c5704d77216b732")
	tokenNet    = common.HexToAddress("0x254dffcd3277c0b1660f6d42efbb754edababc2b")
	token       = common.HexToAddress("0xc5fdf4076b8f3a5357c5e395ab970b5b54098fef")
)

func testChannelState() *channel.State {
	return &channel.State{
		CanonicalID: channel.CanonicalIdentifier{
			ChainID:             big.NewInt(337),
			TokenNetworkAddress: tokenNet,
			ChannelID:           42,
		},
		TokenAddress:  token,
		RevealTimeout: 50,
		OurState:      channel.NewEndState(ourAddr),
		PartnerState:  channel.NewEndState(partnerAddr),
		Identifiers:   channel.NewIdentifierSequence(1),
	}
}

func TestCreateLockedTransfer_InvalidAmount(t *testing.T) {
	factory := NewFactory(nil)
	state := testChannelState()

	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		msg, _, _, err := factory.CreateLockedTransfer(100, state, amount, common.Hash{}, ourAddr, partnerAddr)
		assert.Equal(t, ErrInvalidAmount, err)
		assert.Nil(t, msg)
	}
}

func TestCreateLockedTransfer_ChannelNotOpen(t *testing.T) {
	factory := NewFactory(nil)
	state := testChannelState()
	state.PartnerState = nil

	msg, _, _, err := factory.CreateLockedTransfer(100, state, big.NewInt(1), common.Hash{}, ourAddr, partnerAddr)
	assert.Equal(t, ErrChannelNotOpen, err)
	assert.Nil(t, msg)
}

func TestCreateLockedTransfer_FirstTransfer(t *testing.T) {
	factory := NewFactory(nil)
	state := testChannelState()

	msg, autogen, proposal, err := factory.CreateLockedTransfer(100, state, big.NewInt(10), common.Hash{}, ourAddr, partnerAddr)
	assert.Nil(t, err)

	// no balance proof yet: transferred amount defaults to zero, nonce starts at 1
	assert.Equal(t, 0, msg.TransferredAmount.Cmp(big.NewInt(0)))
	assert.Equal(t, uint64(1), msg.Nonce)
	assert.Equal(t, 0, msg.LockedAmount.Cmp(big.NewInt(10)))
	assert.Equal(t, channel.InitialLockExpiration(100, 50), msg.Lock.Expiration)
	assert.Equal(t, autogen.Secret.Hash(), msg.Lock.SecretHash)
	assert.Equal(t, partnerAddr, msg.Recipient)
	assert.Equal(t, partnerAddr, msg.Target)
	assert.Equal(t, ourAddr, msg.Initiator)
	assert.Equal(t, 0, msg.Fee.Sign())
	assert.Equal(t, [32]byte{}, msg.InvoiceHash)
	assert.Equal(t, big.NewInt(337), msg.ChainID)
	assert.Equal(t, tokenNet, msg.TokenNetworkAddress)
	assert.Equal(t, token, msg.Token)
	assert.Equal(t, uint64(42), msg.ChannelID)

	// the proposed root commits to exactly the lock carried by the message
	lock := &channel.Lock{
		Amount:     msg.Lock.Amount,
		Expiration: msg.Lock.Expiration,
		SecretHash: msg.Lock.SecretHash,
	}
	lockHash, err := lock.Hash()
	assert.Nil(t, err)
	assert.Equal(t, state.OurState.Tree.WithLeaf(lockHash).Root(), msg.LocksRoot)
	assert.Equal(t, msg.LocksRoot, proposal.Tree.Root())
	assert.NotEqual(t, channel.EmptyLocksRoot, msg.LocksRoot)
}

func TestCreateLockedTransfer_DoesNotMutateState(t *testing.T) {
	factory := NewFactory(nil)
	state := testChannelState()

	_, _, _, err := factory.CreateLockedTransfer(100, state, big.NewInt(10), common.Hash{}, ourAddr, partnerAddr)
	assert.Nil(t, err)

	assert.Equal(t, 0, state.OurState.Tree.Len())
	assert.Equal(t, uint64(1), state.OurState.NextNonce())
	assert.Equal(t, 0, len(state.OurState.PendingLocks))
}

func TestCreateLockedTransfer_NonceSuccessor(t *testing.T) {
	factory := NewFactory(nil)
	state := testChannelState()
	state.OurState.BalanceProof = &channel.BalanceProof{
		Nonce:             5,
		TransferredAmount: big.NewInt(0),
		LockedAmount:      big.NewInt(0),
		LocksRoot:         channel.EmptyLocksRoot,
	}

	msg, _, _, err := factory.CreateLockedTransfer(100, state, big.NewInt(10), common.Hash{}, ourAddr, partnerAddr)
	assert.Nil(t, err)

	assert.Equal(t, uint64(6), msg.Nonce)
	assert.Equal(t, 0, msg.LockedAmount.Cmp(big.NewInt(10)))
	assert.Equal(t, 0, msg.Lock.Amount.Cmp(big.NewInt(10)))
	assert.NotEqual(t, channel.EmptyLocksRoot, msg.LocksRoot)
}

func TestCreateLockedTransfer_SequentialNoncesIncrease(t *testing.T) {
	factory := NewFactory(nil)
	state := testChannelState()

	var nonces []uint64

	for i := 0; i < 3; i++ {
		state.Lock()
		msg, _, proposal, err := factory.CreateLockedTransfer(100+uint64(i), state, big.NewInt(10), common.Hash{}, ourAddr, partnerAddr)
		assert.Nil(t, err)
		assert.Nil(t, state.OurState.Commit(proposal))
		state.Unlock()
		nonces = append(nonces, msg.Nonce)
	}

	assert.Equal(t, []uint64{1, 2, 3}, nonces)
}

func TestCreateLockedTransfer_LockedAmountAccumulates(t *testing.T) {
	factory := NewFactory(nil)
	state := testChannelState()

	_, _, first, err := factory.CreateLockedTransfer(100, state, big.NewInt(10), common.Hash{}, ourAddr, partnerAddr)
	assert.Nil(t, err)
	assert.Nil(t, state.OurState.Commit(first))

	msg, _, _, err := factory.CreateLockedTransfer(101, state, big.NewInt(7), common.Hash{}, ourAddr, partnerAddr)
	assert.Nil(t, err)

	assert.Equal(t, 0, msg.LockedAmount.Cmp(big.NewInt(17)))

	lock := &channel.Lock{
		Amount:     msg.Lock.Amount,
		Expiration: msg.Lock.Expiration,
		SecretHash: msg.Lock.SecretHash,
	}
	lockHash, err := lock.Hash()
	assert.Nil(t, err)
	assert.Equal(t, state.OurState.Tree.WithLeaf(lockHash).Root(), msg.LocksRoot)
}

func TestCreateLockedTransfer_CallerSuppliedSecretHash(t *testing.T) {
	factory := NewFactory(nil)
	state := testChannelState()

	secretHash := crypto.Sha3([]byte("mediated"))

	msg, autogen, _, err := factory.CreateLockedTransfer(100, state, big.NewInt(10), secretHash, ourAddr, partnerAddr)
	assert.Nil(t, err)

	assert.Equal(t, secretHash, msg.Lock.SecretHash)
	assert.Equal(t, secretHash, autogen.SecretHash)
	assert.Equal(t, crypto.Secret{}, autogen.Secret)
}

type fixedRecipient struct {
	addr common.Address
}

func (f fixedRecipient) Recipient(state *channel.State) common.Address {
	return f.addr
}

func TestCreateLockedTransfer_InjectedRecipientResolver(t *testing.T) {
	mediator := common.HexToAddress("0xc87509a1c067bbde78beb793e6fa76530b6382a4")
	factory := NewFactory(fixedRecipient{addr: mediator})
	state := testChannelState()

	msg, _, _, err := factory.CreateLockedTransfer(100, state, big.NewInt(1), common.Hash{}, ourAddr, partnerAddr)
	assert.Nil(t, err)
	assert.Equal(t, mediator, msg.Recipient)
	assert.Equal(t, partnerAddr, msg.Target)
}
