package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultAccepted    = "accepted"
	ResultRejected    = "rejected"
	ResultRateLimited = "rate_limited"
	ResultFailed      = "failed"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	// IngestTotal 分享写入结果计数
	IngestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "share_ingest_total",
			Help: "Share ingestion attempts by result",
		},
		[]string{"result", "source"},
	)

	// RollupFailures 汇总重算失败次数
	RollupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "share_rollup_failures_total",
			Help: "Rollup recomputations that failed and were deferred to reconciliation",
		},
	)

	// QueryCacheTotal 查询缓存命中情况
	QueryCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "share_query_cache_total",
			Help: "Analytics query cache lookups by result",
		},
		[]string{"result"},
	)

	// HTTPRequestDuration 接口耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "share_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
