package wire

import (
	"bytes"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lightningnetwork/lnd/lnwire"
)

// EmptyInvoiceHash is the placeholder carried by transfers that are not
// paying an invoice.
var EmptyInvoiceHash = [32]byte{}

// WireLock is the lock portion of a locked transfer as it appears on the
// wire.
type WireLock struct {
	Amount     *big.Int
	Expiration uint64
	SecretHash common.Hash
}

// LockedTransfer is the signable conditional-payment message. The field
// layout is a stable contract with the signature layer and must not be
// reordered.
type LockedTransfer struct {
	ChainID             *big.Int
	MessageID           uint64
	PaymentID           uint64
	Nonce               uint64
	TokenNetworkAddress common.Address
	Token               common.Address
	ChannelID           uint64
	TransferredAmount   *big.Int
	LockedAmount        *big.Int
	Recipient           common.Address
	LocksRoot           common.Hash
	Lock                WireLock
	Target              common.Address
	Initiator           common.Address
	Fee                 *big.Int
	InvoiceHash         [32]byte
}

func (msg *LockedTransfer) MsgType() lnwire.MessageType {
	return MsgLockedTransfer
}

func (msg *LockedTransfer) Decode(r io.Reader, pver uint32) error {
	return readElements(
		r,
		&msg.ChainID,
		&msg.MessageID,
		&msg.PaymentID,
		&msg.Nonce,
		&msg.TokenNetworkAddress,
		&msg.Token,
		&msg.ChannelID,
		&msg.TransferredAmount,
		&msg.LockedAmount,
		&msg.Recipient,
		&msg.LocksRoot,
		&msg.Lock.Amount,
		&msg.Lock.Expiration,
		&msg.Lock.SecretHash,
		&msg.Target,
		&msg.Initiator,
		&msg.Fee,
		&msg.InvoiceHash,
	)
}

func (msg *LockedTransfer) Encode(w *bytes.Buffer, pver uint32) error {
	return writeElements(
		w,
		msg.ChainID,
		msg.MessageID,
		msg.PaymentID,
		msg.Nonce,
		msg.TokenNetworkAddress,
		msg.Token,
		msg.ChannelID,
		msg.TransferredAmount,
		msg.LockedAmount,
		msg.Recipient,
		msg.LocksRoot,
		msg.Lock.Amount,
		msg.Lock.Expiration,
		msg.Lock.SecretHash,
		msg.Target,
		msg.Initiator,
		msg.Fee,
		msg.InvoiceHash,
	)
}
