package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ziio", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ziio", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ziio", Name: "llm_requests_total", Help: "Gateway calls by model and outcome (ok|retryable|error)."},
		[]string{"model", "outcome"},
	)
	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "ziio", Name: "llm_request_seconds", Help: "Gateway call latency until the first byte of the response.", Buckets: prometheus.ExponentialBuckets(0.25, 2, 10)},
		[]string{"model"},
	)
	LLMFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ziio", Name: "llm_fallbacks_total", Help: "Retries against the backup model, by primary model."},
		[]string{"model"},
	)
	AnalysisCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ziio", Name: "analysis_cache_total", Help: "Page analysis cache lookups by result (hit|miss)."},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// RegisterCollectors registers every collector once; later calls are no-ops.
func RegisterCollectors(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(RateLimitAllowed)
		reg.MustRegister(RateLimitRejected)
		reg.MustRegister(LLMRequests)
		reg.MustRegister(LLMLatency)
		reg.MustRegister(LLMFallbacks)
		reg.MustRegister(AnalysisCache)
	})
}
