package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidofinance/btc-gateway/internal/connectors/metrics"
	"github.com/lidofinance/btc-gateway/internal/env"
	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin"
)

type nodeCall struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	ID     string          `json:"id"`
}

type fakeNode struct {
	server *httptest.Server
	reply  func(call nodeCall) (int, string)

	mu    sync.Mutex
	calls []nodeCall
}

func (n *fakeNode) Calls() []nodeCall {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]nodeCall(nil), n.calls...)
}

func result(v string) func(nodeCall) (int, string) {
	return func(call nodeCall) (int, string) {
		return http.StatusOK, `{"result":` + v + `,"error":null,"id":"` + call.ID + `"}`
	}
}

func nodeError(code int, message string) func(nodeCall) (int, string) {
	return func(call nodeCall) (int, string) {
		return http.StatusInternalServerError, `{"result":null,"error":{"code":` + strconv.Itoa(code) + `,"message":"` + message + `"},"id":"` + call.ID + `"}`
	}
}

type fakeBalance struct {
	satoshis btcutil.Amount
	err      error
	gotAddr  string
}

func (b *fakeBalance) GetSatoshis(_ context.Context, address string) (btcutil.Amount, error) {
	b.gotAddr = address
	return b.satoshis, b.err
}

// newTestGateway mounts the gateway routes under /rpc in front of a fake node.
func newTestGateway(t *testing.T, reply func(nodeCall) (int, string), balance SatoshiSrv) (http.Handler, *fakeNode) {
	t.Helper()

	return newTestGatewayWithLog(t, reply, balance, io.Discard)
}

func newTestGatewayWithLog(t *testing.T, reply func(nodeCall) (int, string), balance SatoshiSrv, logOut io.Writer) (http.Handler, *fakeNode) {
	t.Helper()

	node := &fakeNode{reply: reply}
	node.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call nodeCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		node.mu.Lock()
		node.calls = append(node.calls, call)
		node.mu.Unlock()

		status, body := node.reply(call)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(node.server.Close)

	u, err := url.Parse(node.server.URL)
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	p, err := strconv.ParseUint(port, 10, 32)
	require.NoError(t, err)

	metricsStore := metrics.New(prometheus.NewRegistry(), "test", "btc-gateway", "test")
	client := bitcoin.New(&env.NodeConfig{User: "u", Pass: "p", Host: host, Port: uint(p), Scheme: "http"}, metricsStore)
	t.Cleanup(client.Close)

	if balance == nil {
		balance = &fakeBalance{}
	}

	log := slog.New(slog.NewTextHandler(logOut, nil))

	r := chi.NewRouter()
	r.Route("/rpc", New(log, client, balance).Register)

	return r, node
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, reader))

	return rec
}

func TestHandler_PassThrough(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		reply      string
		wantMethod string
		wantParams string
	}{
		{"block count", "/rpc/getblockcount", `800000`, "getblockcount", `[]`},
		{"alias", "/rpc/connectioncount", `8`, "getconnectioncount", `[]`},
		{"path param", "/rpc/getblockhash/700000", `"000abc"`, "getblockhash", `[700000]`},
		{"block default verbosity", "/rpc/getblock/00ff", `{"hash":"00ff"}`, "getblock", `["00ff", 1]`},
		{"header not verbose", "/rpc/getblockheader/00ff?verbose=false", `"0100"`, "getblockheader", `["00ff", false]`},
		{"optional skipped", "/rpc/getnodeaddresses?network=onion", `[]`, "getnodeaddresses", `[null, "onion"]`},
		{"repeated list", "/rpc/getblockstats/100?stats=height&stats=txs", `{}`, "getblockstats", `[100, ["height", "txs"]]`},
		{"comma list", "/rpc/getblockstats/100?stats=height,txs", `{}`, "getblockstats", `[100, ["height", "txs"]]`},
		{"txout keeps include_mempool", "/rpc/gettxout?txid=aa&n=1", `null`, "gettxout", `["aa", 1, true]`},
		{"range pair", "/rpc/deriveaddresses?descriptor=wpkh&range=0,2", `["a","b","c"]`, "deriveaddresses", `["wpkh", [0, 2]]`},
		{"stats by hash", "/rpc/getblockstats/00ff?stats=txs", `{}`, "getblockstats", `["00ff", ["txs"]]`},
		{"ping is get", "/rpc/ping", `null`, "ping", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, node := newTestGateway(t, result(tt.reply), nil)

			rec := do(t, h, http.MethodGet, tt.target, "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.reply, rec.Body.String())

			calls := node.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantMethod, calls[0].Method)
			assert.JSONEq(t, tt.wantParams, string(calls[0].Params))
		})
	}
}

func TestHandler_NodeErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"not found", -5, http.StatusNotFound},
		{"method not found", -32601, http.StatusNotFound},
		{"warming up", -28, http.StatusServiceUnavailable},
		{"internal", -32603, http.StatusBadGateway},
		{"invalid parameter", -8, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestGateway(t, nodeError(tt.code, "boom"), nil)

			rec := do(t, h, http.MethodGet, "/rpc/getmempoolentry/aa", "")

			assert.Equal(t, tt.want, rec.Code)
			assert.JSONEq(t, `{"code":`+strconv.Itoa(tt.code)+`,"message":"boom"}`, rec.Body.String())
		})
	}
}

func TestHandler_BadParameter(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"height not a number", "/rpc/getblockhash/tip"},
		{"bad boolean", "/rpc/getrawmempool?verbose=maybe"},
		{"missing txid", "/rpc/gettxout?n=0"},
		{"bad range", "/rpc/deriveaddresses?descriptor=wpkh&range=a"},
		{"missing message", "/rpc/verifymessage?address=a&signature=s"},
		{"range with three values", "/rpc/deriveaddresses?descriptor=wpkh&range=0,2,4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, node := newTestGateway(t, result(`1`), nil)

			rec := do(t, h, http.MethodGet, tt.target, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
			assert.Empty(t, node.Calls())
		})
	}
}

func TestHandler_TransportFailure(t *testing.T) {
	h, _ := newTestGateway(t, func(nodeCall) (int, string) {
		return http.StatusServiceUnavailable, `<html>down</html>`
	}, nil)

	rec := do(t, h, http.MethodGet, "/rpc/getblockcount", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "unexpected status")
}

func TestHandler_VerifyChainClamp(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantParams string
		wantWarn   bool
	}{
		{"default", "/rpc/verifychain", `[null, 6]`, false},
		{"within range", "/rpc/verifychain?nblocks=50", `[null, 50]`, false},
		{"too many", "/rpc/verifychain?nblocks=500", `[null, 100]`, true},
		{"whole chain", "/rpc/verifychain?nblocks=0", `[null, 100]`, true},
		{"negative", "/rpc/verifychain?nblocks=-1", `[null, 100]`, true},
		{"with level", "/rpc/verifychain?checklevel=4&nblocks=10", `[4, 10]`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			h, node := newTestGatewayWithLog(t, result(`true`), nil, &logs)

			rec := do(t, h, http.MethodGet, tt.target, "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "true", rec.Body.String())

			calls := node.Calls()
			require.Len(t, calls, 1)
			assert.JSONEq(t, tt.wantParams, string(calls[0].Params))

			if tt.wantWarn {
				assert.Contains(t, logs.String(), "level=WARN")
				assert.Contains(t, logs.String(), "verifychain nblocks out of range")
			} else {
				assert.NotContains(t, logs.String(), "level=WARN")
			}
		})
	}
}

func TestClampBlockCount(t *testing.T) {
	tests := []struct {
		in          int
		want        int
		wantClamped bool
	}{
		{1, 1, false},
		{100, 100, false},
		{101, 100, true},
		{0, 100, true},
		{-7, 100, true},
	}
	for _, tt := range tests {
		got, clamped := ClampBlockCount(tt.in)
		assert.Equal(t, tt.want, got, "n=%d", tt.in)
		assert.Equal(t, tt.wantClamped, clamped, "n=%d", tt.in)
	}
}

func TestHandler_Post(t *testing.T) {
	h, node := newTestGateway(t, result(`"txid"`), nil)

	rec := do(t, h, http.MethodPost, "/rpc/sendrawtransaction", `{"hexstring":"0200ff"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"txid"`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/rpc/testmempoolaccept", `{"rawtxs":["01","02"],"maxfeerate":0.1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	calls := node.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "sendrawtransaction", calls[0].Method)
	assert.JSONEq(t, `["0200ff"]`, string(calls[0].Params))
	assert.Equal(t, "testmempoolaccept", calls[1].Method)
	assert.JSONEq(t, `[["01","02"], 0.1]`, string(calls[1].Params))
}

func TestHandler_Post_BadBody(t *testing.T) {
	h, node := newTestGateway(t, result(`"txid"`), nil)

	rec := do(t, h, http.MethodPost, "/rpc/sendrawtransaction", `{"hexstring":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, node.Calls())
}

func TestHandler_GetSatoshis(t *testing.T) {
	balance := &fakeBalance{satoshis: 1234567}
	h, node := newTestGateway(t, result(`1`), balance)

	rec := do(t, h, http.MethodGet, "/rpc/getsatoshis/bc1qexample", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1234567", rec.Body.String())
	assert.Equal(t, "bc1qexample", balance.gotAddr)
	assert.Empty(t, node.Calls())
}

func TestHandler_GetSatoshis_Failure(t *testing.T) {
	h, _ := newTestGateway(t, result(`1`), &fakeBalance{err: errors.New("balance service unreachable")})

	rec := do(t, h, http.MethodGet, "/rpc/getsatoshis/bc1qexample", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"balance service unreachable"}`, rec.Body.String())
}

func TestHandler_GetBlockchainSize(t *testing.T) {
	h, _ := newTestGateway(t, result(`{"size_on_disk": 644245094400}`), nil)

	rec := do(t, h, http.MethodGet, "/rpc/getblockchainsize", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "600.0", rec.Body.String())
}

func TestHandler_SignMessageWithPrivKey(t *testing.T) {
	h, node := newTestGateway(t, result(`"c2lnbmF0dXJl"`), nil)

	rec := do(t, h, http.MethodPost, "/rpc/signmessagewithprivkey", `{"privkey":"L1SECRETKEY","message":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"c2lnbmF0dXJl"`, rec.Body.String())

	calls := node.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "signmessagewithprivkey", calls[0].Method)
	assert.JSONEq(t, `["L1SECRETKEY", "hi"]`, string(calls[0].Params))

	rec = do(t, h, http.MethodGet, "/rpc/signmessagewithprivkey?privkey=L1SECRETKEY&message=hi", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, http.MethodPost, "/rpc/signmessagewithprivkey", `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, node.Calls(), 1)
}

func TestHandler_Post_BodyTooLarge(t *testing.T) {
	gateway, node := newTestGateway(t, result(`"txid"`), nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestSize(32))
	r.Mount("/", gateway)

	rec := do(t, r, http.MethodPost, "/rpc/sendrawtransaction", `{"hexstring":"`+strings.Repeat("ff", 64)+`"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "request body too large")
	assert.Empty(t, node.Calls())
}
