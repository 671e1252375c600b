package bitcoin

import (
	"context"

	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin/entity"
	"github.com/lidofinance/btc-gateway/internal/utils/pointers"
)

const (
	// VerbosityHex returns the serialized block as a hex string.
	VerbosityHex = 0
	// VerbosityBlock returns the block with transaction ids.
	VerbosityBlock = 1
	// VerbosityTransactions returns the block with decoded transactions.
	VerbosityTransactions = 2

	DefaultBlockVerbosity = VerbosityBlock
)

func (c *Client) GetMiningInfo(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getmininginfo")
}

func (c *Client) GetBlockchainInfo(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getblockchaininfo")
}

// GetDifficulty returns the proof-of-work difficulty as a multiple of the
// minimum difficulty.
func (c *Client) GetDifficulty(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getdifficulty")
}

// GetBestBlockHash returns the hash of the tip of the most-work chain.
func (c *Client) GetBestBlockHash(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getbestblockhash")
}

// GetBlockCount returns the height of the most-work chain.
func (c *Client) GetBlockCount(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getblockcount")
}

func (c *Client) GetBlockHash(ctx context.Context, height int64) (*entity.Reply, error) {
	return c.Call(ctx, "getblockhash", height)
}

// GetBlockHeader returns a decoded header when verbose is true, the
// serialized hex header otherwise.
func (c *Client) GetBlockHeader(ctx context.Context, blockHash string, verbose bool) (*entity.Reply, error) {
	return c.Call(ctx, "getblockheader", blockHash, verbose)
}

// GetBlock fetches a block by hash, see the Verbosity constants.
func (c *Client) GetBlock(ctx context.Context, blockHash string, verbosity int) (*entity.Reply, error) {
	return c.Call(ctx, "getblock", blockHash, verbosity)
}

// GetBlockStats computes per block statistics. With no stats every field
// is returned. All amounts are in satoshis.
func (c *Client) GetBlockStats(ctx context.Context, height int64, stats []string) (*entity.Reply, error) {
	return c.Call(ctx, "getblockstats", positional(height, optionalList(stats))...)
}

// GetBlockStatsByHash is GetBlockStats addressed by block hash.
func (c *Client) GetBlockStatsByHash(ctx context.Context, blockHash string, stats []string) (*entity.Reply, error) {
	return c.Call(ctx, "getblockstats", positional(blockHash, optionalList(stats))...)
}

func (c *Client) GetBlockFilter(ctx context.Context, blockHash string, filterType *string) (*entity.Reply, error) {
	return c.Call(ctx, "getblockfilter", positional(blockHash, pointers.Value(filterType))...)
}

// GetChainTips returns all known tips in the block tree, including
// orphaned branches.
func (c *Client) GetChainTips(ctx context.Context) (*entity.Reply, error) {
	return c.Call(ctx, "getchaintips")
}

// GetChainTxStats computes statistics about the total number and rate of
// transactions. A blockhash without nblocks sends a null placeholder so
// the node keeps its one month window default.
func (c *Client) GetChainTxStats(ctx context.Context, nblocks *int, blockHash *string) (*entity.Reply, error) {
	return c.Call(ctx, "getchaintxstats", positional(pointers.Value(nblocks), pointers.Value(blockHash))...)
}

func (c *Client) GetDeploymentInfo(ctx context.Context, blockHash *string) (*entity.Reply, error) {
	return c.Call(ctx, "getdeploymentinfo", positional(pointers.Value(blockHash))...)
}

// GetNetworkHashPS estimates the network hashes per second over the last
// nblocks (node default 120) ending at height (default tip).
func (c *Client) GetNetworkHashPS(ctx context.Context, nblocks *int, height *int64) (*entity.Reply, error) {
	return c.Call(ctx, "getnetworkhashps", positional(pointers.Value(nblocks), pointers.Value(height))...)
}

// GetTxOut returns details about an unspent transaction output, or null
// when the output is spent or unknown.
func (c *Client) GetTxOut(ctx context.Context, txid string, n int, includeMempool bool) (*entity.Reply, error) {
	return c.Call(ctx, "gettxout", txid, n, includeMempool)
}

// GetTxOutProof returns a hex-encoded proof that the txids were included
// in a block.
func (c *Client) GetTxOutProof(ctx context.Context, txids []string, blockHash *string) (*entity.Reply, error) {
	return c.Call(ctx, "gettxoutproof", positional(requiredList(txids), pointers.Value(blockHash))...)
}

func (c *Client) VerifyTxOutProof(ctx context.Context, proof string) (*entity.Reply, error) {
	return c.Call(ctx, "verifytxoutproof", proof)
}

// GetTxOutSetInfo scans the whole UTXO set and may take minutes on mainnet.
func (c *Client) GetTxOutSetInfo(ctx context.Context, hashType *string) (*entity.Reply, error) {
	return c.Call(ctx, "gettxoutsetinfo", positional(pointers.Value(hashType))...)
}

// GetRawTransaction returns a transaction by id. blockHash is appended
// only when set, it lets a node without txindex find a confirmed tx.
func (c *Client) GetRawTransaction(ctx context.Context, txid string, verbose bool, blockHash *string) (*entity.Reply, error) {
	return c.Call(ctx, "getrawtransaction", positional(txid, verbose, pointers.Value(blockHash))...)
}

func (c *Client) GetAddressInfo(ctx context.Context, address string) (*entity.Reply, error) {
	return c.Call(ctx, "getaddressinfo", address)
}

// VerifyChain verifies the last nblocks of the chain at checklevel
// (0..4). nblocks 0 means the whole chain.
func (c *Client) VerifyChain(ctx context.Context, checkLevel *int, nblocks *int) (*entity.Reply, error) {
	return c.Call(ctx, "verifychain", positional(pointers.Value(checkLevel), pointers.Value(nblocks))...)
}
