package crypto

import "crypto/rand"

// Secret is the preimage behind a hash-time-locked transfer.
type Secret [32]byte

func RandomSecret() (Secret, error) {
	var out Secret
	_, err := rand.Read(out[:])
	if err != nil {
		return out, err
	}

	return out, nil
}
