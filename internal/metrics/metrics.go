// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExpensesCreated counts recorded expenses by split type.
	ExpensesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitwiser_expenses_created_total",
		Help: "Number of expenses created, by split type.",
	}, []string{"split_type"})

	// SplitErrors counts rejected split operations by error kind.
	SplitErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitwiser_split_errors_total",
		Help: "Number of rejected split operations, by error kind.",
	}, []string{"kind"})

	// SettlementsRecorded counts settle-up payments recorded by users.
	SettlementsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitwiser_settlements_recorded_total",
		Help: "Number of settlement payments recorded.",
	})

	// SimplifyRuns counts settlement simplifications served.
	SimplifyRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitwiser_simplify_runs_total",
		Help: "Number of settle-up computations served.",
	})
)

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
