package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WalletEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "wallet_events_total", Help: "Wallet connect/disconnect attempts"},
		[]string{"event", "result"},
	)
	SwapsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swaps_total", Help: "Swap attempts by pool and outcome"},
		[]string{"pool", "result"},
	)
	TransactionsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "transactions_recorded_total", Help: "Transactions appended to history"},
		[]string{"from", "to"},
	)
)

func init() {
	prometheus.MustRegister(WalletEventsTotal, SwapsTotal, TransactionsRecorded)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
