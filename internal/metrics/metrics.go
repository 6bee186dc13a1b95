package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DeploymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "deployments_total", Help: "Contract deployments by outcome (deployed, reused, failed)"},
		[]string{"contract", "outcome"},
	)
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "transactions_total", Help: "Contract transactions sent"},
		[]string{"contract", "method", "status"},
	)
	RoutineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "routine_runs_total", Help: "Deployment routine executions"},
		[]string{"routine", "status"},
	)
)

func init() {
	prometheus.MustRegister(DeploymentsTotal, TransactionsTotal, RoutineRunsTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
