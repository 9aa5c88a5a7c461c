package transport

import (
	"context"
	"encoding/binary"
	"io"
	"math/big"
	"net"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kyokan/portcullis/pkg/wire"
	"github.com/stretchr/testify/assert"
)

type pipeConnector struct {
	mu    sync.Mutex
	dials int
	read  chan []byte
}

func newPipeConnector() *pipeConnector {
	return &pipeConnector{
		read: make(chan []byte, 1),
	}
}

func (c *pipeConnector) Connect(ctx context.Context, server string, address common.Address, auth AuthParams) (net.Conn, error) {
	c.mu.Lock()
	c.dials++
	c.mu.Unlock()

	client, srv := net.Pipe()

	go (func() {
		buf, _ := io.ReadAll(srv)
		c.read <- buf
	})()

	return client, nil
}

func testTransfer() *wire.LockedTransfer {
	return &wire.LockedTransfer{
		ChainID:           big.NewInt(337),
		MessageID:         7,
		PaymentID:         8,
		Nonce:             1,
		ChannelID:         42,
		TransferredAmount: big.NewInt(0),
		LockedAmount:      big.NewInt(10),
		Lock: wire.WireLock{
			Amount:     big.NewInt(10),
			Expiration: 200,
		},
		Fee: big.NewInt(0),
	}
}

func TestSession_DeliverConnectsOnce(t *testing.T) {
	connector := newPipeConnector()
	session := NewSession(common.HexToAddress("0x01"), "relay-a:9735", AuthParams{}, connector)

	assert.Nil(t, session.Deliver(context.Background(), testTransfer()))
	assert.Nil(t, session.Deliver(context.Background(), testTransfer()))
	assert.Equal(t, 1, connector.dials)

	assert.Nil(t, session.Close())

	framed := <-connector.read
	assert.True(t, len(framed) > 2)
	assert.Equal(t, uint16(wire.MsgLockedTransfer), binary.BigEndian.Uint16(framed[:2]))
}

func TestSession_CloseWithoutConnect(t *testing.T) {
	session := NewSession(common.HexToAddress("0x01"), "", AuthParams{}, newPipeConnector())
	assert.Nil(t, session.Close())
}
