package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-errors/errors"
)

// ErrRelayDiscovery marks the one fatal failure in reconciliation: the
// relay directory itself could not be consulted. Callers must abort
// startup rather than proceed with an ambiguous relay set.
var ErrRelayDiscovery = errors.New("relay discovery failed")

type RelayDirectory interface {
	ListReachableRelays(environment string) ([]string, error)
}

// StaticRelayDirectory serves a relay set pinned in configuration.
type StaticRelayDirectory struct {
	Relays []string
}

func (d *StaticRelayDirectory) ListReachableRelays(environment string) ([]string, error) {
	out := make([]string, len(d.Relays))
	copy(out, d.Relays)
	return out, nil
}

// HTTPRelayDirectory fetches the known-servers list for an environment
// from a directory endpoint. The endpoint serves a JSON object keyed by
// environment name.
type HTTPRelayDirectory struct {
	url    string
	client *http.Client
}

func NewHTTPRelayDirectory(url string, timeout time.Duration) *HTTPRelayDirectory {
	return &HTTPRelayDirectory{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (d *HTTPRelayDirectory) ListReachableRelays(environment string) ([]string, error) {
	res, err := d.client.Get(d.url)

	if err != nil {
		return nil, errors.WrapPrefix(ErrRelayDiscovery, err.Error(), 0)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.WrapPrefix(ErrRelayDiscovery, "directory returned status "+res.Status, 0)
	}

	var byEnvironment map[string][]string

	if err := json.NewDecoder(res.Body).Decode(&byEnvironment); err != nil {
		return nil, errors.WrapPrefix(ErrRelayDiscovery, err.Error(), 0)
	}

	relays, ok := byEnvironment[environment]

	if !ok {
		return nil, errors.WrapPrefix(ErrRelayDiscovery, "no relay list for environment "+environment, 0)
	}

	return relays, nil
}

// ServerIsAvailable reports whether a relay assignment is still part of
// the reachable set.
func ServerIsAvailable(name string, available []string) bool {
	for _, server := range available {
		if server == name {
			return true
		}
	}

	return false
}
