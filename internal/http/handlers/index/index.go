package index

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"math"
	"net/http"

	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin/entity"
	"github.com/lidofinance/btc-gateway/web"
)

type PeerInfoSrv interface {
	GetPeerInfo(ctx context.Context) (*entity.Reply, error)
}

// PeerInfo is the subset of a getpeerinfo entry shown on the page.
type PeerInfo struct {
	ID             int64   `json:"id"`
	Addr           string  `json:"addr"`
	Network        string  `json:"network"`
	SubVer         string  `json:"subver"`
	Inbound        bool    `json:"inbound"`
	ConnectionType string  `json:"connection_type"`
	SyncedBlocks   int64   `json:"synced_blocks"`
	PingTime       float64 `json:"pingtime"`
	BytesSent      uint64  `json:"bytessent"`
	BytesRecv      uint64  `json:"bytesrecv"`
}

func (p PeerInfo) PingMillis() int64 {
	return int64(math.Round(p.PingTime * 1000))
}

type TemplateData struct {
	Title string
	Peers []PeerInfo
	Error string
}

type handler struct {
	log   *slog.Logger
	node  PeerInfoSrv
	title string
	tmpl  *template.Template
}

func New(log *slog.Logger, node PeerInfoSrv, title string) *handler {
	return &handler{
		log:   log,
		node:  node,
		title: title,
		tmpl:  template.Must(template.ParseFS(web.Templates(), "index.html")),
	}
}

func (h *handler) Handler(w http.ResponseWriter, r *http.Request) {
	data := TemplateData{Title: h.title}
	status := http.StatusOK

	reply, err := h.node.GetPeerInfo(r.Context())
	switch {
	case err != nil:
		h.log.Error("could not fetch peer info for page", slog.String("error", err.Error()))
		status, data.Error = http.StatusBadGateway, "Bitcoin node is unreachable: "+err.Error()
	case reply.Failed():
		status, data.Error = http.StatusBadGateway, "Bitcoin node error: "+string(reply.Error)
	default:
		if decodeErr := reply.Decode(&data.Peers); decodeErr != nil {
			h.log.Error("could not decode peer info", slog.String("error", decodeErr.Error()))
			status, data.Error = http.StatusBadGateway, "Unexpected peer info from node"
		}
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
