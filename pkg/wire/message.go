package wire

import (
	"encoding/binary"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-errors/errors"
	"github.com/kyokan/portcullis/internal/conv"
	"github.com/lightningnetwork/lnd/lnwire"
)

const (
	MsgLockedTransfer lnwire.MessageType = 700
)

func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *common.Address:
		var b [20]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = common.BytesToAddress(b[:])
	case *common.Hash:
		var b [32]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = common.BytesToHash(b[:])
	case *[32]byte:
		if _, err := io.ReadFull(r, (*e)[:]); err != nil {
			return err
		}
	case **big.Int:
		var b [32]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		num, err := conv.BytesToBig(b[:])
		if err != nil {
			return err
		}

		*e = num
	case *uint64:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		*e = binary.BigEndian.Uint64(b[:])
	default:
		return errors.New("unknown element type")
	}

	return nil
}

func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case common.Address:
		if _, err := w.Write(e[:]); err != nil {
			return err
		}
	case common.Hash:
		if _, err := w.Write(e[:]); err != nil {
			return err
		}
	case [32]byte:
		if _, err := w.Write(e[:]); err != nil {
			return err
		}
	case *big.Int:
		b, err := conv.BigToBytes32(e)
		if err != nil {
			return err
		}
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	case uint64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], e)
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	default:
		return errors.New("unknown element type")
	}

	return nil
}

func readElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		if err := readElement(r, element); err != nil {
			return err
		}
	}

	return nil
}

func writeElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		if err := writeElement(w, element); err != nil {
			return err
		}
	}

	return nil
}
