package transport

import (
	"bytes"
	"context"
	"net"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-errors/errors"
	"github.com/lightningnetwork/lnd/lnwire"
)

// AuthParams carries the credentials a hosted light client authenticates
// to its relay with.
type AuthParams struct {
	Password    string
	DisplayName string
	SeedRetry   string
}

// Connector opens the underlying relay connection for a session. An empty
// server name asks the connector to assign one on first use.
type Connector interface {
	Connect(ctx context.Context, server string, address common.Address, auth AuthParams) (net.Conn, error)
}

// DialConnector opens plain time-bounded connections to a relay. When no
// server is pinned it falls back to the first of its default relays.
type DialConnector struct {
	Timeout       time.Duration
	DefaultRelays []string
}

func (d *DialConnector) Connect(ctx context.Context, server string, address common.Address, auth AuthParams) (net.Conn, error) {
	if server == "" {
		if len(d.DefaultRelays) == 0 {
			return nil, errors.New("no relay assigned and no default relays configured")
		}

		server = d.DefaultRelays[0]
	}

	dialer := &net.Dialer{
		Timeout: d.Timeout,
	}

	return dialer.DialContext(ctx, "tcp", server)
}

// Session binds one identity, either the full node or a hosted light
// client, to its relay connection. The connection is opened lazily so a
// session with a deferred relay assignment costs nothing until first use.
type Session struct {
	Address    common.Address
	ServerName string
	Auth       AuthParams

	connector Connector
	mu        sync.Mutex
	conn      net.Conn
}

func NewSession(address common.Address, server string, auth AuthParams, connector Connector) *Session {
	return &Session{
		Address:    address,
		ServerName: server,
		Auth:       auth,
		connector:  connector,
	}
}

func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked(ctx)
}

func (s *Session) connectLocked(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}

	conn, err := s.connector.Connect(ctx, s.ServerName, s.Address, s.Auth)

	if err != nil {
		return err
	}

	s.conn = conn
	return nil
}

// Deliver frames the message and writes it over the session's relay
// connection, connecting first if the relay assignment was deferred.
func (s *Session) Deliver(ctx context.Context, msg lnwire.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connectLocked(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer

	if _, err := lnwire.WriteMessage(&buf, msg, 0); err != nil {
		return err
	}

	_, err := s.conn.Write(buf.Bytes())
	return err
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	err := s.conn.Close()
	s.conn = nil
	return err
}
