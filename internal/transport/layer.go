package transport

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kyokan/portcullis/internal/db"
	"github.com/kyokan/portcullis/internal/logger"
	"github.com/kyokan/portcullis/pkg"
	"go.uber.org/zap"
)

var lLog *zap.SugaredLogger

func init() {
	lLog = logger.Logger.Named("transport-layer")
}

// BuildResult reports one reconciliation pass: the sessions that came up,
// and the clients flagged for deletion because their assigned relay
// vanished. Flagged clients are not errors; they are simply absent from
// Sessions.
type BuildResult struct {
	Sessions []*Session
	Flagged  []common.Address
}

// Layer reconciles persisted light-client records against the reachable
// relay set and materializes one transport session per valid identity.
type Layer struct {
	store     db.LightClients
	directory RelayDirectory
	connector Connector
}

func NewLayer(store db.LightClients, directory RelayDirectory, connector Connector) *Layer {
	return &Layer{
		store:     store,
		directory: directory,
		connector: connector,
	}
}

// ConstructFullNode builds the session bound to the node's own address.
// The relay assignment is left to the connection logic, so construction
// itself never touches the network.
func (l *Layer) ConstructFullNode(ctx context.Context, cfg pkg.EffectiveConfig) (*Session, error) {
	server := ""

	if len(cfg.Relays) > 0 {
		server = cfg.Relays[0]
	}

	return NewSession(cfg.Address, server, AuthParams{}, l.connector), nil
}

// ConstructLightClientNodes runs the reconciliation pass. Relay-directory
// failure aborts the whole pass; everything after that point is absorbed
// per client. Records whose assigned relay is gone are flagged for
// deletion in the store and skipped before their credentials are ever
// read. The surviving records are built concurrently; a build failure or
// timeout for one client never blocks the others, and once ctx expires
// the result holds whatever was built so far.
func (l *Layer) ConstructLightClientNodes(ctx context.Context, cfg pkg.EffectiveConfig) (*BuildResult, error) {
	available, err := l.directory.ListReachableRelays(cfg.Environment)

	if err != nil {
		return nil, err
	}

	records, err := l.store.GetAll()

	if err != nil {
		return nil, err
	}

	result := &BuildResult{}
	var toBuild []*db.LightClientRecord

	for _, record := range records {
		if record.CurrentServerName != "" && !ServerIsAvailable(record.CurrentServerName, available) {
			if err := l.store.FlagPendingDeletion(record.Address); err != nil {
				lLog.Errorw("failed to flag light client for deletion",
					"address", record.Address.Hex(),
					"err", err.Error(),
				)
				continue
			}

			lLog.Infow("no available relay for light client, flagged for deletion; re-onboarding is needed",
				"relay", record.CurrentServerName,
				"address", record.Address.Hex(),
			)
			result.Flagged = append(result.Flagged, record.Address)
			continue
		}

		toBuild = append(toBuild, record)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, record := range toBuild {
		if ctx.Err() != nil {
			lLog.Warnw("reconciliation deadline reached, returning sessions built so far")
			break
		}

		wg.Add(1)

		go (func(record *db.LightClientRecord) {
			defer wg.Done()

			session, err := l.buildClientSession(ctx, record)

			if err != nil {
				lLog.Errorw("failed to build light client session",
					"address", record.Address.Hex(),
					"relay", record.CurrentServerName,
					"err", err.Error(),
				)
				return
			}

			mu.Lock()
			result.Sessions = append(result.Sessions, session)
			mu.Unlock()
		})(record)
	}

	wg.Wait()
	return result, nil
}

// NewLightClientNode is the low-level session factory. It has no side
// effects beyond constructing the session object.
func (l *Layer) NewLightClientNode(address common.Address, server string, auth AuthParams) *Session {
	return NewSession(address, server, auth, l.connector)
}

func (l *Layer) buildClientSession(ctx context.Context, record *db.LightClientRecord) (*Session, error) {
	auth := AuthParams{
		Password:    record.Password,
		DisplayName: record.DisplayName,
		SeedRetry:   record.SeedRetry,
	}

	session := l.NewLightClientNode(record.Address, record.CurrentServerName, auth)

	// a record with no pinned relay defers connecting until first use
	if record.CurrentServerName != "" {
		if err := session.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return session, nil
}
