package reminder

import (
	"sort"
	"time"

	"chime/models"
)

// Metrics derives the read-side aggregate over executions that reached a
// delivery outcome. Pure computation: nothing here mutates state.
func (s *DefaultReminderService) Metrics() (*models.MetricsSnapshot, error) {
	history, err := s.Executions.ListHistory()
	if err != nil {
		return nil, err
	}
	snap := ComputeMetrics(history, s.now())
	return &snap, nil
}

// ComputeMetrics aggregates counts, rates, and time distributions from
// historical executions relative to now.
func ComputeMetrics(history []models.Execution, now time.Time) models.MetricsSnapshot {
	snap := models.MetricsSnapshot{
		ByChannel:   make(map[models.ChannelType]int),
		ByPriority:  make(map[models.Priority]int),
		GeneratedAt: now,
	}

	weekAgo := now.Add(-7 * 24 * time.Hour)
	hourCounts := make(map[int]int)
	var responseTotal time.Duration
	responseCount := 0

	for _, e := range history {
		snap.Total++
		switch e.Status {
		case models.StatusDelivered:
			snap.Delivered++
		case models.StatusFailed:
			snap.Failed++
		}
		snap.ByChannel[e.Channel]++
		snap.ByPriority[e.Snapshot.Priority]++

		if e.FiredAt != nil {
			if e.FiredAt.After(weekAgo) {
				snap.Last7Days++
			}
			hourCounts[e.FiredAt.Hour()]++
			if e.Response != nil && e.Response.RespondedAt != nil {
				responseTotal += e.Response.RespondedAt.Sub(*e.FiredAt)
				responseCount++
			}
		}
	}

	if snap.Total > 0 {
		snap.SuccessRate = float64(snap.Delivered) / float64(snap.Total)
	}
	if responseCount > 0 {
		snap.AvgResponseSeconds = responseTotal.Seconds() / float64(responseCount)
	}
	snap.TopHours = topHours(hourCounts, 5)
	return snap
}

// topHours returns the n busiest hour-of-day buckets, count descending with
// ties broken by hour ascending.
func topHours(counts map[int]int, n int) []models.HourBucket {
	buckets := make([]models.HourBucket, 0, len(counts))
	for hour, count := range counts {
		buckets = append(buckets, models.HourBucket{Hour: hour, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Hour < buckets[j].Hour
	})
	if len(buckets) > n {
		buckets = buckets[:n]
	}
	return buckets
}
