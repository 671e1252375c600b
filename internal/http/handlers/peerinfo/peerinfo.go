package peerinfo

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lidofinance/btc-gateway/internal/connectors/metrics"
	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin/entity"
)

// DefaultInterval is the pause between two pushes on one connection.
const DefaultInterval = 5 * time.Second

const (
	writeWait    = 10 * time.Second
	maxFrameSize = 512
)

type PeerInfoSrv interface {
	GetPeerInfo(ctx context.Context) (*entity.Reply, error)
}

type handler struct {
	log      *slog.Logger
	node     PeerInfoSrv
	metrics  *metrics.Store
	upgrader websocket.Upgrader
	interval time.Duration
}

func New(log *slog.Logger, node PeerInfoSrv, metricsStore *metrics.Store, interval time.Duration) *handler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &handler{
		log:     log,
		node:    node,
		metrics: metricsStore,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
		interval: interval,
	}
}

// Handler upgrades the request and pushes getpeerinfo to the client until
// it disconnects or the server shuts down.
func (h *handler) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("could not upgrade websocket", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	h.metrics.WsConnections.Inc()
	defer h.metrics.WsConnections.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go h.drain(ctx, cancel, conn)

	h.push(ctx, conn)
}

// drain reads and discards client frames. gorilla only processes close
// and ping frames while someone is reading.
func (h *handler) drain(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn) {
	defer cancel()

	conn.SetReadLimit(maxFrameSize)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			switch {
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				h.log.Debug("ws client disconnected")
			case ctx.Err() == nil:
				h.log.Warn("ws read failed", slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (h *handler) push(ctx context.Context, conn *websocket.Conn) {
	for {
		reply, err := h.node.GetPeerInfo(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return
		case err != nil:
			h.log.Warn("could not fetch peer info, skipping push", slog.String("error", err.Error()))
		default:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if writeErr := conn.WriteMessage(websocket.TextMessage, reply.Value()); writeErr != nil {
				h.log.Debug("ws write failed", slog.String("error", writeErr.Error()))
				return
			}
		}

		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(time.Second),
			)
			return
		case <-time.After(h.interval):
		}
	}
}
