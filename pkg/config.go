package pkg

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	PathFindingBroadcastRoom = "path_finding"
	MonitoringBroadcastRoom  = "monitoring"
)

// ServicesConfig captures which network services the node participates in.
type ServicesConfig struct {
	PathFindingServiceAddress string
	MonitoringEnabled         bool
}

// Config is the base node configuration as loaded from flags and the
// config file. It is never mutated after loading.
type Config struct {
	Environment    string
	Address        common.Address
	DirectoryURL   string
	Relays         []string
	BroadcastRooms []string
	ConnectTimeout time.Duration
}

// EffectiveConfig is the configuration reconciliation actually runs with.
type EffectiveConfig struct {
	Config
}

// DeriveEffectiveConfig returns a new configuration with the broadcast
// rooms the enabled services require appended. The base config is left
// untouched so repeated derivations are idempotent.
func DeriveEffectiveConfig(base Config, services ServicesConfig) EffectiveConfig {
	derived := base

	rooms := make([]string, len(base.BroadcastRooms))
	copy(rooms, base.BroadcastRooms)

	if services.PathFindingServiceAddress != "" && !containsRoom(rooms, PathFindingBroadcastRoom) {
		rooms = append(rooms, PathFindingBroadcastRoom)
	}

	if services.MonitoringEnabled && !containsRoom(rooms, MonitoringBroadcastRoom) {
		rooms = append(rooms, MonitoringBroadcastRoom)
	}

	derived.BroadcastRooms = rooms

	relays := make([]string, len(base.Relays))
	copy(relays, base.Relays)
	derived.Relays = relays

	return EffectiveConfig{
		Config: derived,
	}
}

func containsRoom(rooms []string, name string) bool {
	for _, room := range rooms {
		if room == name {
			return true
		}
	}

	return false
}
