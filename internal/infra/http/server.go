package http

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool, h *Handler) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	if h != nil {
		mux.HandleFunc("/v1/user-subscriptions", h.UserSubscriptions)
		mux.HandleFunc("/v1/user-info", h.UserInfo)
		mux.HandleFunc("/v1/last-purchase-ids", h.LastPurchaseIDs)
		mux.HandleFunc("/v1/reports/user-subscriptions.xlsx", h.UserSubscriptionsReport)
	}

	return &Server{srv: &http.Server{Addr: addr, Handler: mux}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
