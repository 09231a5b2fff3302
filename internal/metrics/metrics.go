// Package metrics holds the Prometheus instruments of the coc-sheet API
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the API and creation flow instruments
type Metrics struct {
	// Request latency by route pattern, method and status
	RequestDuration *prometheus.HistogramVec

	// Draft commands by command type and outcome ("applied" or an error code)
	Commands *prometheus.CounterVec

	// Finished characters by origin ("finalized" or "imported")
	Characters *prometheus.CounterVec

	// Imports by source schema version
	Imports *prometheus.CounterVec
}

// New creates the instruments and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coc_sheet_http_request_duration_seconds",
			Help:    "Duration of API requests by route, method and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method", "status"}),

		Commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coc_sheet_draft_commands_total",
			Help: "Draft commands by type and outcome",
		}, []string{"command", "outcome"}),

		Characters: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coc_sheet_characters_created_total",
			Help: "Characters stored by origin",
		}, []string{"origin"}),

		Imports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coc_sheet_imports_total",
			Help: "Imported documents by source schema version",
		}, []string{"source_version"}),
	}
}

// ObserveRequest records the duration of one API request
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
	}
}

// IncrementCommand records the outcome of one draft command
func (m *Metrics) IncrementCommand(command, outcome string) {
	if m != nil {
		m.Commands.WithLabelValues(command, outcome).Inc()
	}
}

// IncrementCharacter records a stored character
func (m *Metrics) IncrementCharacter(origin string) {
	if m != nil {
		m.Characters.WithLabelValues(origin).Inc()
	}
}

// IncrementImport records an imported document
func (m *Metrics) IncrementImport(sourceVersion string) {
	if m != nil {
		m.Imports.WithLabelValues(sourceVersion).Inc()
	}
}
