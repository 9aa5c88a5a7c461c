package conv

import (
	"math/big"

	"github.com/go-errors/errors"
)

func StringToBig(num string) (*big.Int, error) {
	out, success := big.NewInt(0).SetString(num, 10)

	if !success {
		return nil, errors.New("cannot convert " + num + " to bigint")
	}

	return out, nil
}

func BytesToBig(b []byte) (*big.Int, error) {
	if len(b) > 32 {
		return nil, errors.New("amounts wider than 32 bytes are not supported")
	}

	return big.NewInt(0).SetBytes(b), nil
}

func BigToBytes32(num *big.Int) ([32]byte, error) {
	var out [32]byte

	if num == nil || num.Sign() < 0 {
		return out, errors.New("amount must be non-negative")
	}

	b := num.Bytes()

	if len(b) > 32 {
		return out, errors.New("amount overflows 32 bytes")
	}

	copy(out[32-len(b):], b)
	return out, nil
}
