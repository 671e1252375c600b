package bitcoin

import (
	"context"

	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin/entity"
)

// Read-only wallet calls. They fail with a node error when the node runs
// without a loaded wallet.

func (c *Client) GetWalletInfo(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getwalletinfo")
}

func (c *Client) GetBalance(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getbalance")
}

func (c *Client) GetBalances(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getbalances")
}

func (c *Client) ListWallets(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "listwallets")
}
