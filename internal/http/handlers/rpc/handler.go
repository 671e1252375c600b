package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"

	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin"
	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin/entity"
)

// MaxVerifyBlocks caps how many blocks verifychain may check per request.
const MaxVerifyBlocks = 100

// DefaultVerifyBlocks is the node default for verifychain nblocks.
const DefaultVerifyBlocks = 6

// rpcInWarmup is returned while the node is still loading its block index.
const rpcInWarmup btcjson.RPCErrorCode = -28

// MaxBodyBytes bounds POST bodies, a block sized raw transaction is 8MB in hex.
const MaxBodyBytes = 8 << 20

var ErrBodyTooLarge = errors.New("request body too large")

type SatoshiSrv interface {
	GetSatoshis(ctx context.Context, address string) (btcutil.Amount, error)
}

type endpoint func(r *http.Request) (*entity.Reply, error)

type handler struct {
	log     *slog.Logger
	node    *bitcoin.Client
	balance SatoshiSrv
}

func New(log *slog.Logger, node *bitcoin.Client, balance SatoshiSrv) *handler {
	return &handler{
		log:     log,
		node:    node,
		balance: balance,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// serve writes the node reply verbatim: the result on success, the node
// error value otherwise.
func (h *handler) serve(ep endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply, err := ep(r)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		status := http.StatusOK
		if reply.Failed() {
			status = nodeErrorStatus(reply)
			h.log.Debug("node rejected call",
				slog.String("path", r.URL.Path),
				slog.String("error", string(reply.Error)),
			)
		}

		writeRaw(w, status, reply.Value())
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var paramErr *ParamError
	if errors.As(err, &paramErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: paramErr.Error()})
		return
	}

	if errors.Is(err, ErrBodyTooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
		return
	}

	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		h.log.Debug("request canceled by client", slog.String("path", r.URL.Path))
		return
	}

	h.log.Error("upstream call failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
}

// nodeErrorStatus maps a node error code to the HTTP status of the
// response carrying it.
func nodeErrorStatus(reply *entity.Reply) int {
	rpcErr := reply.NodeError()
	if rpcErr == nil {
		return http.StatusBadRequest
	}

	switch rpcErr.Code {
	case btcjson.ErrRPCNoTxInfo, btcjson.ErrRPCMethodNotFound.Code:
		return http.StatusNotFound
	case rpcInWarmup:
		return http.StatusServiceUnavailable
	case btcjson.ErrRPCInternal.Code:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// ClampBlockCount limits n to 1..MaxVerifyBlocks. Zero means the whole
// chain for the node and is clamped too. The second value reports
// whether n was changed.
func ClampBlockCount(n int) (int, bool) {
	if n <= 0 || n > MaxVerifyBlocks {
		return MaxVerifyBlocks, true
	}

	return n, false
}

func writeRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeRaw(w, status, body)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return &ParamError{Name: "body", Reason: err.Error()}
	}

	return nil
}
