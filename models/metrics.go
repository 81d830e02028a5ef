package models

import "time"

// HourBucket is one hour-of-day delivery-volume bucket.
type HourBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// MetricsSnapshot is the read-side aggregate over historical executions.
type MetricsSnapshot struct {
	Total              int                 `json:"total"`
	Last7Days          int                 `json:"last7Days"`
	Delivered          int                 `json:"delivered"`
	Failed             int                 `json:"failed"`
	SuccessRate        float64             `json:"successRate"`
	AvgResponseSeconds float64             `json:"avgResponseSeconds"`
	ByChannel          map[ChannelType]int `json:"byChannel"`
	ByPriority         map[Priority]int    `json:"byPriority"`
	TopHours           []HourBucket        `json:"topHours"`
	GeneratedAt        time.Time           `json:"generatedAt"`
}
