package bitcoin

import (
	"context"

	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin/entity"
	"github.com/lidofinance/btc-gateway/internal/utils/pointers"
)

func (c *Client) ValidateAddress(ctx context.Context, address string) (*entity.Reply, error) {
	return c.Call(ctx, "validateaddress", address)
}

// VerifyMessage checks a base64 signature of message against address.
func (c *Client) VerifyMessage(ctx context.Context, address, signature, message string) (*entity.Reply, error) {
	return c.Call(ctx, "verifymessage", address, signature, message)
}

func (c *Client) SignMessageWithPrivKey(ctx context.Context, privKey, message string) (*entity.Reply, error) {
	return c.Call(ctx, "signmessagewithprivkey", privKey, message)
}

func (c *Client) DecodeScript(ctx context.Context, hexString string) (*entity.Reply, error) {
	return c.Call(ctx, "decodescript", hexString)
}

// DecodeRawTransaction decodes a serialized transaction. isWitness unset
// lets the node try both serializations.
func (c *Client) DecodeRawTransaction(ctx context.Context, hexString string, isWitness *bool) (*entity.Reply, error) {
	return c.Call(ctx, "decoderawtransaction", positional(hexString, pointers.Value(isWitness))...)
}

// EstimateSmartFee estimates the fee rate in BTC/kvB for confirmation
// within confTarget blocks. estimateMode is "economical" or "conservative".
func (c *Client) EstimateSmartFee(ctx context.Context, confTarget int, estimateMode *string) (*entity.Reply, error) {
	return c.Call(ctx, "estimatesmartfee", positional(confTarget, pointers.Value(estimateMode))...)
}

func (c *Client) GetDescriptorInfo(ctx context.Context, descriptor string) (*entity.Reply, error) {
	return c.Call(ctx, "getdescriptorinfo", descriptor)
}

// DeriveAddresses derives addresses from an output descriptor. A ranged
// descriptor needs either an end index (one value) or a [begin, end] pair.
func (c *Client) DeriveAddresses(ctx context.Context, descriptor string, derivationRange []int) (*entity.Reply, error) {
	var rng any
	switch len(derivationRange) {
	case 0:
	case 1:
		rng = derivationRange[0]
	default:
		rng = derivationRange
	}

	return c.Call(ctx, "deriveaddresses", positional(descriptor, rng)...)
}
