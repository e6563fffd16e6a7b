package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics tracks ledger mutations, snapshot loads, and the live
// overdue position.
type LedgerMetrics struct {
	operations          *prometheus.CounterVec
	snapshotLoads       *prometheus.CounterVec
	remindersDispatched *prometheus.CounterVec
	overdueResidents    prometheus.Gauge
	overdueAmount       prometheus.Gauge
}

var (
	ledgerMetricsOnce sync.Once
	ledgerMetrics     *LedgerMetrics
)

// Ledger returns the process-wide ledger metrics.
func Ledger() *LedgerMetrics {
	return LedgerWithConfig(Config{})
}

// LedgerWithConfig initializes the singleton with const labels on first use.
func LedgerWithConfig(cfg Config) *LedgerMetrics {
	ledgerMetricsOnce.Do(func() {
		ledgerMetrics = newLedgerMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return ledgerMetrics
}

// ResetLedgerMetricsForTest clears the singleton between test registries.
func ResetLedgerMetricsForTest() {
	ledgerMetricsOnce = sync.Once{}
	ledgerMetrics = nil
}

func newLedgerMetrics(registerer prometheus.Registerer, cfg Config) *LedgerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "messpro"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "messpro_ledger_operations_total",
			Help:        "Ledger mutations by operation and result.",
			ConstLabels: constLabels,
		},
		[]string{"op", "result"}, // result: success | rejected | failed
	)

	snapshotLoads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "messpro_snapshot_loads_total",
			Help:        "Snapshot fetches by source.",
			ConstLabels: constLabels,
		},
		[]string{"source"}, // cache | repository
	)

	remindersDispatched := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "messpro_reminders_dispatched_total",
			Help:        "Overdue reminders dispatched by result.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // sent | skipped | failed
	)

	overdueResidents := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "messpro_overdue_residents",
			Help:        "Residents currently classified overdue.",
			ConstLabels: constLabels,
		},
	)

	overdueAmount := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "messpro_overdue_amount_rupees",
			Help:        "Fleet-wide overdue balance in rupees.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(
		operations,
		snapshotLoads,
		remindersDispatched,
		overdueResidents,
		overdueAmount,
	)

	return &LedgerMetrics{
		operations:          operations,
		snapshotLoads:       snapshotLoads,
		remindersDispatched: remindersDispatched,
		overdueResidents:    overdueResidents,
		overdueAmount:       overdueAmount,
	}
}

func (m *LedgerMetrics) IncOperation(op, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *LedgerMetrics) IncSnapshotLoad(source string) {
	if m == nil {
		return
	}
	m.snapshotLoads.WithLabelValues(source).Inc()
}

func (m *LedgerMetrics) IncReminderDispatched(result string) {
	if m == nil {
		return
	}
	m.remindersDispatched.WithLabelValues(result).Inc()
}

func (m *LedgerMetrics) SetOverduePosition(residents int, amount int64) {
	if m == nil {
		return
	}
	m.overdueResidents.Set(float64(residents))
	m.overdueAmount.Set(float64(amount))
}
