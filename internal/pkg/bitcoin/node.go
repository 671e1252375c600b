package bitcoin

import (
	"context"

	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin/entity"
	"github.com/lidofinance/btc-gateway/internal/utils/pointers"
)

// Node and network.

// GetConnectionCount returns the number of connections to other nodes.
func (c *Client) GetConnectionCount(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getconnectioncount")
}

// GetPeerInfo returns data about each connected peer.
func (c *Client) GetPeerInfo(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getpeerinfo")
}

func (c *Client) GetNetworkInfo(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getnetworkinfo")
}

func (c *Client) GetNetTotals(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getnettotals")
}

// GetNodeAddresses returns known addresses, optionally filtered by network
// (ipv4, ipv6, onion, i2p, cjdns). The node returns one address when
// count is unset.
func (c *Client) GetNodeAddresses(ctx context.Context, count *int, network *string) (*entity.Reply, error) {
	return c.Call(ctx, "getnodeaddresses", positional(pointers.Value(count), pointers.Value(network))...)
}

func (c *Client) GetAddedNodeInfo(ctx context.Context, node *string) (*entity.Reply, error) {
	return c.Call(ctx, "getaddednodeinfo", positional(pointers.Value(node))...)
}

func (c *Client) ListBanned(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "listbanned")
}

// Uptime returns the server uptime in seconds.
func (c *Client) Uptime(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "uptime")
}

// GetMemoryInfo accepts mode "stats" (node default) or "mallocinfo".
func (c *Client) GetMemoryInfo(ctx context.Context, mode *string) (*entity.Reply, error) {
	return c.Call(ctx, "getmemoryinfo", positional(pointers.Value(mode))...)
}

func (c *Client) GetRPCInfo(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getrpcinfo")
}

func (c *Client) GetIndexInfo(ctx context.Context, indexName *string) (*entity.Reply, error) {
	return c.Call(ctx, "getindexinfo", positional(pointers.Value(indexName))...)
}

func (c *Client) GetZmqNotifications(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getzmqnotifications")
}

// Ping requests that a ping be sent to all peers. The result is null.
func (c *Client) Ping(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "ping")
}
