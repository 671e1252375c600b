package server

import (
	"compress/flate"
	"io"
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lidofinance/btc-gateway/internal/http/handlers/health"
	"github.com/lidofinance/btc-gateway/internal/http/handlers/index"
	"github.com/lidofinance/btc-gateway/internal/http/handlers/peerinfo"
	"github.com/lidofinance/btc-gateway/internal/http/handlers/rpc"
	"github.com/lidofinance/btc-gateway/web"
)

func (a *App) RegisterRoutes(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	a.RegisterGatewayRoutes(r)
	a.RegisterInfraRoutes(r)
}

func (a *App) RegisterGatewayRoutes(r chi.Router) {
	node := a.Services.Node

	r.Get("/", index.New(a.Logger, node, a.env.Name).Handler)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))
	r.Get("/ws/peerinfo", peerinfo.New(a.Logger, node, a.Metrics, peerinfo.DefaultInterval).Handler)

	rpcH := rpc.New(a.Logger, node, a.Services.Balance)
	r.Route("/rpc", func(r chi.Router) {
		r.Use(middleware.RequestSize(rpc.MaxBodyBytes))
		r.Use(newCompressor().Handler)

		rpcH.Register(r)
	})
}

func (a *App) RegisterInfraRoutes(r chi.Router) {
	r.Get("/health", health.New().Handler)
	r.Get("/metrics", promhttp.HandlerFor(a.Metrics.Prometheus, promhttp.HandlerOpts{}).ServeHTTP)

	r.HandleFunc("/debug/pprof/", pprof.Index)
	r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	r.HandleFunc("/debug/pprof/profile", pprof.Profile)
	r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	r.HandleFunc("/debug/pprof/trace", pprof.Trace)
	r.HandleFunc("/debug/pprof/{action}", pprof.Index)
}

// newCompressor negotiates zstd next to chi's gzip and deflate.
func newCompressor() *middleware.Compressor {
	c := middleware.NewCompressor(flate.DefaultCompression, "application/json")
	c.SetEncoder("zstd", func(w io.Writer, level int) io.Writer {
		enc, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil
		}
		return enc
	})

	return c
}
