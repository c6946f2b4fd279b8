// Package metrics holds the domain Prometheus collectors exposed on /metrics
// next to the HTTP metrics from fiberprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ojt_tracker"

var (
	// TaskMutations counts successful task writes by action (created, updated, deleted)
	TaskMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_mutations_total",
		Help:      "Successful task writes by action.",
	}, []string{"action"})

	// Logins counts login attempts by result (success, failure)
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	// Signups counts created accounts
	Signups = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Accounts created through signup.",
	})

	// UploadBytes observes the size of stored document uploads
	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "document_upload_bytes",
		Help:      "Size of stored document uploads.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
	})

	// Documents counts document operations by action (uploaded, deleted, rejected)
	Documents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "document_operations_total",
		Help:      "Document operations by action.",
	}, []string{"action"})

	// Reconciled counts reconciler outcomes by kind (pending_finished, pending_failed, orphans_removed)
	Reconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciled_total",
		Help:      "Document reconciliation outcomes.",
	}, []string{"kind"})
)
