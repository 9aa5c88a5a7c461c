package db

import "github.com/ethereum/go-ethereum/common"

// LightClientRecord is the persisted state of an onboarded light client.
// CurrentServerName stays empty until the client's first connection pins
// it to a relay. A record flagged PendingDeletion is dead: the next
// request from that client observes the flag, deletes the record and
// forces a fresh onboarding.
type LightClientRecord struct {
	Address           common.Address
	Password          string
	DisplayName       string
	SeedRetry         string
	CurrentServerName string
	PendingDeletion   bool
}
