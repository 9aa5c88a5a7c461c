package crypto

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func Sha3(data ...[]byte) common.Hash {
	return common.BytesToHash(crypto.Keccak256(data...))
}

func (s Secret) Hash() common.Hash {
	return Sha3(s[:])
}
