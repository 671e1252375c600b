package entity

import (
	"bytes"
	"encoding/json"

	"github.com/btcsuite/btcd/btcjson"
)

// RpcVersion is the JSON-RPC dialect spoken by bitcoind.
const RpcVersion = "1.0"

type RpcRequest struct {
	JsonRpc string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// RpcResponse is the envelope of every bitcoind reply. A key that is
// present with a JSON null decodes to the literal `null`, an absent key
// stays nil.
type RpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
	ID     any             `json:"id"`
}

func (r *RpcResponse) HasEnvelope() bool {
	return r.Result != nil || r.Error != nil
}

var null = json.RawMessage(`null`)

// Reply is the outcome of a call the node understood. Node-level faults
// are carried in Error as data, never as a Go error.
type Reply struct {
	Result json.RawMessage
	Error  json.RawMessage
}

func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, null)
}

// Failed reports whether the node rejected the call.
func (r *Reply) Failed() bool {
	return !IsNull(r.Error)
}

// Empty reports a successful call whose result is null.
func (r *Reply) Empty() bool {
	return !r.Failed() && IsNull(r.Result)
}

// Value returns the error when it is set, the result otherwise.
func (r *Reply) Value() json.RawMessage {
	if r.Failed() {
		return r.Error
	}

	if IsNull(r.Result) {
		return null
	}

	return r.Result
}

// NodeError decodes the error into the standard {code, message} shape.
// It returns nil for successful replies and for errors of any other shape.
func (r *Reply) NodeError() *btcjson.RPCError {
	if !r.Failed() {
		return nil
	}

	var rpcErr btcjson.RPCError
	if err := json.Unmarshal(r.Error, &rpcErr); err != nil {
		return nil
	}

	if rpcErr.Code == 0 && rpcErr.Message == "" {
		return nil
	}

	return &rpcErr
}

// Decode unmarshals the result into v.
func (r *Reply) Decode(v any) error {
	return json.Unmarshal(r.Value(), v)
}
