package bitcoin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin/entity"
)

const bytesPerGiB = 1 << 30

const DefaultBlockInfoVerbosity = VerbosityTransactions

// GetBlockchainSize returns size_on_disk of getblockchaininfo in GiB,
// rounded to two decimals. A node error or a null result is returned as is.
func (c *Client) GetBlockchainSize(ctx context.Context) (*entity.Reply, error) {
	info, err := c.GetBlockchainInfo(ctx)
	if err != nil {
		return nil, err
	}

	if info.Failed() || info.Empty() {
		return info, nil
	}

	var payload struct {
		SizeOnDisk *float64 `json:"size_on_disk"`
	}
	if decodeErr := info.Decode(&payload); decodeErr != nil {
		return nil, fmt.Errorf("%w: getblockchaininfo: %w", ErrMalformedReply, decodeErr)
	}

	if payload.SizeOnDisk == nil {
		return nil, fmt.Errorf("%w: getblockchaininfo: %w", ErrMalformedReply, errors.New("size_on_disk is missing"))
	}

	size := math.Round(*payload.SizeOnDisk/bytesPerGiB*100) / 100

	return &entity.Reply{Result: gibibytes(size)}, nil
}

// gibibytes always carries a fractional part, 600 is written as 600.0.
func gibibytes(size float64) json.RawMessage {
	s := strconv.FormatFloat(size, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return json.RawMessage(s)
}

// GetBlockInfo resolves height to a hash and fetches that block. A node
// error from the hash lookup is returned without a second call.
func (c *Client) GetBlockInfo(ctx context.Context, height int64, verbosity int) (*entity.Reply, error) {
	hashReply, err := c.GetBlockHash(ctx, height)
	if err != nil {
		return nil, err
	}

	if hashReply.Failed() {
		return hashReply, nil
	}

	var blockHash string
	if decodeErr := hashReply.Decode(&blockHash); decodeErr != nil {
		return nil, fmt.Errorf("%w: getblockhash: %w", ErrMalformedReply, decodeErr)
	}

	return c.GetBlock(ctx, blockHash, verbosity)
}
