package transfer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kyokan/portcullis/pkg/channel"
	"github.com/kyokan/portcullis/pkg/crypto"
	"github.com/kyokan/portcullis/pkg/wire"
)

// RecipientResolver decides who a locked transfer is addressed to.
// Mediated routing plugs in here without changing the factory contract.
type RecipientResolver interface {
	Recipient(state *channel.State) common.Address
}

// DirectRecipient addresses every transfer to the channel partner.
type DirectRecipient struct{}

func (DirectRecipient) Recipient(state *channel.State) common.Address {
	return state.PartnerState.Address
}

// AutogenValues is the secret material and identifiers generated for one
// transfer attempt. The secret must be retained by the caller to later
// unlock the transfer; it never travels with the message.
type AutogenValues struct {
	Secret         crypto.Secret
	SecretHash     common.Hash
	LockExpiration uint64
	PaymentID      uint64
	MessageID      uint64
}

func NewAutogenValues(blockNumber uint64, state *channel.State) (*AutogenValues, error) {
	secret, err := crypto.RandomSecret()

	if err != nil {
		return nil, err
	}

	return &AutogenValues{
		Secret:         secret,
		SecretHash:     secret.Hash(),
		LockExpiration: channel.InitialLockExpiration(blockNumber, state.RevealTimeout),
		PaymentID:      state.Identifiers.Next(),
		MessageID:      state.Identifiers.Next(),
	}, nil
}

type Factory struct {
	resolver RecipientResolver
}

func NewFactory(resolver RecipientResolver) *Factory {
	if resolver == nil {
		resolver = DirectRecipient{}
	}

	return &Factory{
		resolver: resolver,
	}
}

// CreateLockedTransfer builds a signable locked transfer against a
// snapshot of the channel state. It never mutates the state: the new
// locks-root is computed on a copy of the merkle tree, and the nonce is
// the channel's next valid nonce, not yet committed. A caller-supplied
// secretHash is kept (the mediated case); the zero hash requests a fresh
// secret. Callers proposing concurrently on one channel must hold the
// channel lock around this call.
func (f *Factory) CreateLockedTransfer(
	blockNumber uint64,
	state *channel.State,
	amount *big.Int,
	secretHash common.Hash,
	creator common.Address,
	partner common.Address,
) (*wire.LockedTransfer, *AutogenValues, *channel.Proposal, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, nil, nil, ErrInvalidAmount
	}

	if !state.Open() {
		return nil, nil, nil, ErrChannelNotOpen
	}

	autogen, err := NewAutogenValues(blockNumber, state)

	if err != nil {
		return nil, nil, nil, err
	}

	if secretHash != (common.Hash{}) {
		autogen.Secret = crypto.Secret{}
		autogen.SecretHash = secretHash
	}

	transferredAmount := big.NewInt(0)

	if bp := state.OurState.BalanceProof; bp != nil {
		transferredAmount = bp.TransferredAmount
	}

	lockedAmount := big.NewInt(0).Add(state.OurState.AmountLocked(), amount)

	lock := &channel.Lock{
		Amount:     amount,
		Expiration: autogen.LockExpiration,
		SecretHash: autogen.SecretHash,
	}

	lockHash, err := lock.Hash()

	if err != nil {
		return nil, nil, nil, err
	}

	tree := state.OurState.Tree.WithLeaf(lockHash)
	locksRoot := tree.Root()
	nonce := state.OurState.NextNonce()

	msg := &wire.LockedTransfer{
		ChainID:             state.CanonicalID.ChainID,
		MessageID:           autogen.MessageID,
		PaymentID:           autogen.PaymentID,
		Nonce:               nonce,
		TokenNetworkAddress: state.CanonicalID.TokenNetworkAddress,
		Token:               state.TokenAddress,
		ChannelID:           state.CanonicalID.ChannelID,
		TransferredAmount:   transferredAmount,
		LockedAmount:        lockedAmount,
		Recipient:           f.resolver.Recipient(state),
		LocksRoot:           locksRoot,
		Lock: wire.WireLock{
			Amount:     lock.Amount,
			Expiration: lock.Expiration,
			SecretHash: lock.SecretHash,
		},
		Target:      partner,
		Initiator:   creator,
		Fee:         big.NewInt(0),
		InvoiceHash: wire.EmptyInvoiceHash,
	}

	proposal := &channel.Proposal{
		BalanceProof: &channel.BalanceProof{
			Nonce:             nonce,
			TransferredAmount: transferredAmount,
			LockedAmount:      lockedAmount,
			LocksRoot:         locksRoot,
		},
		Tree: tree,
		Lock: lock,
	}

	return msg, autogen, proposal, nil
}
