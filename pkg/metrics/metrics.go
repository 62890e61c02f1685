// Package metrics exposes the engine's Prometheus collectors. They are
// registered on the default registry so the /metrics endpoint picks them up
// without wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerEntries counts committed ledger entries partitioned by type.
	LedgerEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_ledger",
			Subsystem: "ledger",
			Name:      "entries_total",
			Help:      "Total ledger entries committed, partitioned by entry type.",
		},
		[]string{"type"},
	)

	// LockTransitions counts lock state transitions partitioned by outcome
	// (created, released, expired, disputed).
	LockTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_ledger",
			Subsystem: "locks",
			Name:      "transitions_total",
			Help:      "Total lock state transitions, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	// Settlements counts settlement executions partitioned by result.
	Settlements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_ledger",
			Subsystem: "settlements",
			Name:      "processed_total",
			Help:      "Total settlement executions, partitioned by result.",
		},
		[]string{"result"},
	)

	// Withdrawals counts withdrawal transitions partitioned by status.
	Withdrawals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_ledger",
			Subsystem: "withdrawals",
			Name:      "transitions_total",
			Help:      "Total withdrawal state transitions, partitioned by status.",
		},
		[]string{"status"},
	)
)
