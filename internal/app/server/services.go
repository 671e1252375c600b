package server

import (
	"net/http"
	"time"

	"github.com/lidofinance/btc-gateway/internal/connectors/metrics"
	"github.com/lidofinance/btc-gateway/internal/env"
	"github.com/lidofinance/btc-gateway/internal/pkg/balance"
	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin"
)

type Services struct {
	Node    *bitcoin.Client
	Balance *balance.Lookup

	httpClient *http.Client
}

func NewServices(cfg *env.Config, metricsStore *metrics.Store) Services {
	transport := &http.Transport{
		MaxIdleConns:          30,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   10 * time.Second,
	}

	return Services{
		Node:    bitcoin.New(&cfg.NodeConfig, metricsStore),
		Balance: balance.New(cfg.AppConfig.BalanceAPIURL, httpClient, metricsStore),

		httpClient: httpClient,
	}
}

// Close releases idle upstream connections.
func (s Services) Close() {
	s.Node.Close()
	s.httpClient.CloseIdleConnections()
}
