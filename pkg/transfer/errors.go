package transfer

import "github.com/go-errors/errors"

var (
	// ErrInvalidAmount rejects non-positive transfer amounts.
	ErrInvalidAmount = errors.New("transfer amount must be positive")

	// ErrChannelNotOpen rejects construction against a channel state that
	// is missing its partner or canonical identifier.
	ErrChannelNotOpen = errors.New("channel is not open")
)
