package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Valuation *ValuationHandler
	Market    *MarketHandler
	Simulator *SimulatorHandler
}

func NewRouter(h Handlers, limiter *RateLimiter) http.Handler {
	mux := http.NewServeMux()

	route := func(path string, handler http.HandlerFunc) {
		mux.Handle(path, MetricsMiddleware(path, RateLimitMiddleware(limiter, handler)))
	}
	// Status polls are reads; only starting or cancelling a run is limited.
	polled := func(path string, handler http.HandlerFunc) {
		limited := RateLimitMiddleware(limiter, handler)
		mux.Handle(path, MetricsMiddleware(path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				handler(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})))
	}

	route("/valuation/estimate", h.Valuation.Estimate)
	route("/market/scan", h.Market.Scan)
	route("/market/latest", h.Market.Latest)
	polled("/simulator/valuation", h.Simulator.Valuation)
	polled("/simulator/market", h.Simulator.Market)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}
