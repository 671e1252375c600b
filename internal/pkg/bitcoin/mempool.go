package bitcoin

import (
	"context"

	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin/entity"
	"github.com/lidofinance/btc-gateway/internal/utils/pointers"
)

func (c *Client) GetMempoolInfo(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getmempoolinfo")
}

// GetRawMempool returns txids in the memory pool, or a txid keyed object
// of entries when verbose is true.
func (c *Client) GetRawMempool(ctx context.Context, verbose bool) (*entity.Reply, error) {
	return c.Call(ctx, "getrawmempool", verbose)
}

func (c *Client) GetMempoolEntry(ctx context.Context, txid string) (*entity.Reply, error) {
	return c.Call(ctx, "getmempoolentry", txid)
}

func (c *Client) GetMempoolAncestors(ctx context.Context, txid string, verbose bool) (*entity.Reply, error) {
	return c.Call(ctx, "getmempoolancestors", txid, verbose)
}

func (c *Client) GetMempoolDescendants(ctx context.Context, txid string, verbose bool) (*entity.Reply, error) {
	return c.Call(ctx, "getmempooldescendants", txid, verbose)
}

// TestMempoolAccept reports whether raw transactions would be accepted by
// the mempool, without submitting them.
func (c *Client) TestMempoolAccept(ctx context.Context, rawTxs []string, maxFeeRate *float64) (*entity.Reply, error) {
	return c.Call(ctx, "testmempoolaccept", positional(requiredList(rawTxs), pointers.Value(maxFeeRate))...)
}

// SendRawTransaction relays an already signed transaction.
func (c *Client) SendRawTransaction(ctx context.Context, hexString string, maxFeeRate *float64) (*entity.Reply, error) {
	return c.Call(ctx, "sendrawtransaction", positional(hexString, pointers.Value(maxFeeRate))...)
}
