package balance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lidofinance/btc-gateway/internal/connectors/metrics"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected balance service status")
	ErrNotNumeric       = errors.New("balance service returned a non numeric body")
)

// maxBodySize bounds the plain-text reply; a satoshi count is a handful of digits.
const maxBodySize = 1 << 10

// Lookup queries a public address-balance service that answers
// GET <baseURL>/<address> with the balance in satoshis as plain text.
type Lookup struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Store
}

func New(baseURL string, httpClient *http.Client, metricsStore *metrics.Store) *Lookup {
	return &Lookup{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		metrics:    metricsStore,
	}
}

func (l *Lookup) GetSatoshis(ctx context.Context, address string) (btcutil.Amount, error) {
	requestURL := l.baseURL + "/" + url.PathEscape(address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("could not create balance request: %w", err)
	}

	status := metrics.StatusFail
	start := time.Now()
	defer func() {
		l.metrics.BalanceLookups.With(prometheus.Labels{metrics.Status: status}).Inc()
		l.metrics.SummaryHandlers.
			With(prometheus.Labels{metrics.Channel: metrics.ChannelBalance}).
			Observe(time.Since(start).Seconds())
	}()

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("could not send balance request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, fmt.Errorf("could not read balance response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, resp.Status, strings.TrimSpace(string(body)))
	}

	satoshis, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, strings.TrimSpace(string(body)))
	}

	status = metrics.StatusOk
	return btcutil.Amount(satoshis), nil
}
