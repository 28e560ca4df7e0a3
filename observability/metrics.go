// Package observability exposes Prometheus metrics for the ledger.
//
// LedgerMetrics is registered as the ledger's day.Observer, so every
// applied command updates the counters and the current-day gauges.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/window/dayledger/day"
)

const (
	metricsNamespace = "dayledger"
	ledgerSubsystem  = "ledger"
)

// LedgerMetrics holds the ledger's Prometheus collectors.
type LedgerMetrics struct {
	// CommandsTotal counts applied commands. Labels: command
	CommandsTotal *prometheus.CounterVec

	// Energy, Meals and Snacks mirror the stats of the day last written.
	Energy prometheus.Gauge
	Meals  prometheus.Gauge
	Snacks prometheus.Gauge

	// RecordsMigrated counts records upgraded by schema migration.
	RecordsMigrated prometheus.Counter

	// RecordsSkipped counts malformed records left in place by migration.
	RecordsSkipped prometheus.Counter
}

// NewLedgerMetrics creates and registers the collectors on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	factory := promauto.With(reg)
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: ledgerSubsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &LedgerMetrics{
		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: ledgerSubsystem,
				Name:      "commands_total",
				Help:      "Total number of ledger commands applied, by command",
			},
			[]string{"command"},
		),
		Energy: gauge("energy", "Derived energy of the current ledger day"),
		Meals:  gauge("meals", "Meals logged on the current ledger day"),
		Snacks: gauge("snacks", "Snacks logged on the current ledger day"),
		RecordsMigrated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "migration",
			Name:      "records_migrated_total",
			Help:      "Day records upgraded to the current schema",
		}),
		RecordsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "migration",
			Name:      "records_skipped_total",
			Help:      "Malformed day records skipped by migration",
		}),
	}
}

// CommandApplied implements day.Observer.
func (m *LedgerMetrics) CommandApplied(command string, data day.DailyData) {
	m.CommandsTotal.WithLabelValues(command).Inc()
	m.Energy.Set(data.Stats.Energy)
	m.Meals.Set(float64(data.Stats.Meals))
	m.Snacks.Set(float64(data.Stats.Snacks))
}

// MigrationCompleted records the outcome of a migration run.
func (m *LedgerMetrics) MigrationCompleted(report day.MigrationReport) {
	m.RecordsMigrated.Add(float64(report.Migrated))
	m.RecordsSkipped.Add(float64(report.Skipped))
}
