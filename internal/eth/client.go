package eth

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client is the node's read-only view of the chain. Lock expirations are
// computed from the block number it reports; nothing here ever submits a
// transaction.
type Client struct {
	rpc    *rpc.Client
	client *ethclient.Client
}

func NewClient(url string) (*Client, error) {
	r, err := rpc.DialContext(context.Background(), url)

	if err != nil {
		return nil, err
	}

	return &Client{
		rpc:    r,
		client: ethclient.NewClient(r),
	}, nil
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.client.BlockNumber(ctx)
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.client.ChainID(ctx)
}

func (c *Client) Close() {
	c.client.Close()
}
