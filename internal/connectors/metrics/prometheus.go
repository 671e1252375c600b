package metrics

import (
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

type Store struct {
	Prometheus      *prometheus.Registry
	BuildInfo       prometheus.Counter
	RPCCalls        *prometheus.CounterVec
	BalanceLookups  *prometheus.CounterVec
	WsConnections   prometheus.Gauge
	SummaryHandlers *prometheus.HistogramVec
}

const Status = `status`
const Channel = `channel`
const Method = `method`

const StatusOk = `Ok`
const StatusNodeError = `NodeError`
const StatusFail = `Fail`

const ChannelBalance = `balance`

var Commit string

func New(promRegistry *prometheus.Registry, prefix, appName, env string) *Store {
	store := &Store{
		Prometheus: promRegistry,
		BuildInfo: prometheus.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_metric_build_info", prefix),
			Help: "Build information",
			ConstLabels: prometheus.Labels{
				"name":    appName,
				"env":     env,
				"commit":  Commit,
				"version": runtime.Version(),
			},
		}),
		RPCCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_rpc_calls_total", prefix),
			Help: "The total number of json-rpc calls sent to the node",
		}, []string{Method, Status}),
		BalanceLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_balance_lookups_total", prefix),
			Help: "The total number of external address balance lookups",
		}, []string{Status}),
		WsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_ws_connections", prefix),
			Help: "Number of open websocket push connections",
		}),
		SummaryHandlers: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_request_processing_seconds", prefix),
			Help:    "Time spent processing request to upstream",
			Buckets: prometheus.DefBuckets,
		}, []string{Channel}),
	}

	store.Prometheus.MustRegister(
		store.BuildInfo,
		store.RPCCalls,
		store.BalanceLookups,
		store.WsConnections,
		store.SummaryHandlers,
	)

	return store
}
