package consts

const (
	RateLimitKey        = "share:ratelimit:"
	ShareRollupDirtyKey = "share:rollup:dirty"
	AnalyticsCacheKey   = "share:analytics:"
	AnalyticsSchemaKey  = "share:analytics:schema:"
	RollupReconcileLock = "share:rollup:reconcile:lock"
)
