// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mingle_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// SessionsCreated counts sessions created, labelled by kind
	// ("anonymous" or "authenticated").
	SessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mingle_sessions_created_total",
		Help: "Total number of sessions created by kind",
	}, []string{"kind"})

	// UploadsRejected counts uploads rejected by the sanitizer or serve guard.
	UploadsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mingle_uploads_rejected_total",
		Help: "Total number of rejected uploads by reason",
	}, []string{"reason"})
)
