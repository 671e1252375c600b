package bitcoin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lidofinance/btc-gateway/internal/connectors/metrics"
	"github.com/lidofinance/btc-gateway/internal/env"
	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin/entity"
)

var (
	ErrTransport      = errors.New("node transport error")
	ErrMalformedReply = errors.New("malformed node reply")
	ErrClientClosed   = errors.New("rpc client is closed")
)

// Client talks to a single bitcoind JSON-RPC endpoint. It is safe for
// concurrent use; all calls share one connection pool.
type Client struct {
	url        string
	redacted   string
	transport  *http.Transport
	httpClient *http.Client
	metrics    *metrics.Store
	closed     atomic.Bool
}

func New(cfg *env.NodeConfig, metricsStore *metrics.Store) *Client {
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = env.DefaultRPCScheme
	}

	baseURL := &url.URL{
		Scheme: scheme,
		User:   url.UserPassword(cfg.User, cfg.Pass),
		Host:   net.JoinHostPort(cfg.Host, strconv.FormatUint(uint64(cfg.Port), 10)),
		Path:   "/",
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          30,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		url:       baseURL.String(),
		redacted:  baseURL.Redacted(),
		transport: transport,
		httpClient: &http.Client{
			Transport: transport,
		},
		metrics: metricsStore,
	}
}

// URL returns the node address with the password masked.
func (c *Client) URL() string {
	return c.redacted
}

// Close releases pooled connections. Calls made afterwards fail with
// ErrClientClosed.
func (c *Client) Close() {
	if c.closed.CompareAndSwap(false, true) {
		c.transport.CloseIdleConnections()
	}
}

// Call sends one JSON-RPC request and unwraps the envelope. The returned
// error is reserved for transport and decoding failures; a rejection by
// the node comes back inside the Reply.
func (c *Client) Call(ctx context.Context, method string, params ...any) (*entity.Reply, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	if params == nil {
		params = []any{}
	}

	rpcRequest := entity.RpcRequest{
		JsonRpc: entity.RpcVersion,
		ID:      uuid.New().String(),
		Method:  method,
		Params:  params,
	}

	payload, marshalErr := json.Marshal(rpcRequest)
	if marshalErr != nil {
		return nil, fmt.Errorf("could not marshal %s request: %w", method, marshalErr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("could not create %s request: %w", method, err)
	}

	req.Header.Set("Content-Type", "application/json")

	status := metrics.StatusFail
	start := time.Now()
	defer func() {
		c.metrics.RPCCalls.With(prometheus.Labels{metrics.Method: method, metrics.Status: status}).Inc()
		c.metrics.SummaryHandlers.With(prometheus.Labels{metrics.Channel: method}).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: could not send %s request: %w", ErrTransport, method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read %s response body: %w", ErrTransport, method, err)
	}

	// bitcoind answers rejected calls with 404/500 and a regular envelope,
	// so the body is decoded whatever the status.
	var p entity.RpcResponse
	if err := json.Unmarshal(body, &p); err != nil || !p.HasEnvelope() {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: %s: unexpected status %s", ErrTransport, method, resp.Status)
		}

		if err == nil {
			err = errors.New("neither result nor error is present")
		}

		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedReply, method, err)
	}

	reply := &entity.Reply{Result: p.Result, Error: p.Error}

	status = metrics.StatusOk
	if reply.Failed() {
		status = metrics.StatusNodeError
	}

	return reply, nil
}
