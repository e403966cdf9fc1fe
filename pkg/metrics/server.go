package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/health"
)

// NewMux routes /metrics to g and, when checker is non-nil, the liveness and
// readiness probes to checker.
func NewMux(g prometheus.Gatherer, checker *health.Checker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", Handler(g))
	if checker != nil {
		mux.HandleFunc("GET /health/live", checker.LiveHandler())
		mux.HandleFunc("GET /health/ready", checker.ReadyHandler())
	}
	return mux
}

// StartServer serves NewMux on the given port in the background and returns
// the server's shutdown function.
func StartServer(port int, g prometheus.Gatherer, checker *health.Checker) (shutdown func(context.Context) error) {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      NewMux(g, checker),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("metrics server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()

	return server.Shutdown
}
