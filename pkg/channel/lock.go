package channel

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kyokan/portcullis/internal/conv"
	"github.com/kyokan/portcullis/pkg/crypto"
)

// Lock is a hash-time lock pending on a channel side. It lives from the
// moment a transfer is proposed until the secret is revealed or the
// expiration block is reached.
type Lock struct {
	Amount     *big.Int
	Expiration uint64
	SecretHash common.Hash
}

// Hash packs expiration, amount and secret hash as three 32-byte words and
// hashes them. The packing matches the layout the signing layer commits to.
func (l *Lock) Hash() (common.Hash, error) {
	var expiration [32]byte
	big.NewInt(0).SetUint64(l.Expiration).FillBytes(expiration[:])

	amount, err := conv.BigToBytes32(l.Amount)

	if err != nil {
		return common.Hash{}, err
	}

	return crypto.Sha3(expiration[:], amount[:], l.SecretHash[:]), nil
}
