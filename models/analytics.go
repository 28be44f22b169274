package models

// ActivityLog is one past optimization request as returned by
// GET /api/v1/stats/history. The client only displays it.
type ActivityLog struct {
	ID               int64   `json:"id"`
	Provider         string  `json:"provider"`
	Model            *string `json:"model"`
	RawText          string  `json:"raw_text"`
	CompressedText   string  `json:"compressed_text"`
	RawTokens        int     `json:"raw_tokens"`
	CompressedTokens int     `json:"compressed_tokens"`
	SavingsRatio     float64 `json:"savings_ratio"`
	LatencyMs        float64 `json:"latency_ms"`
	CreatedAt        string  `json:"created_at"`
}

// ActivityRow is an [ActivityLog] prepared for the history table.
type ActivityRow struct {
	ID         int64
	Time       string
	Raw        int
	Compressed int
	Savings    string
}

// AnalyticsStats is the summary returned by GET /api/v1/analytics/stats.
type AnalyticsStats struct {
	TotalRequests            int     `json:"total_requests"`
	TotalTokensSaved         int     `json:"total_tokens_saved"`
	AverageSavingsPercentage float64 `json:"average_savings_percentage"`
	AverageLatencyMs         float64 `json:"average_latency_ms"`
}

// TimeSeriesPoint is one day of GET /api/v1/analytics/time-series.
type TimeSeriesPoint struct {
	Date        string `json:"date"`
	Requests    int    `json:"requests"`
	TokensSaved int    `json:"tokens_saved"`
}

// Dashboard bundles the aggregate stats and the per-day series.
type Dashboard struct {
	Stats      AnalyticsStats
	TimeSeries []TimeSeriesPoint
}
