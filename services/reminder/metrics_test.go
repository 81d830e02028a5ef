package reminder

import (
	"context"
	"fmt"
	"testing"
	"time"

	"chime/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historicalExec(i int, status models.ExecutionStatus, firedAt time.Time) models.Execution {
	return models.Execution{
		Key:     fmt.Sprintf("r1:e%d:15:push", i),
		RuleID:  "r1",
		OwnerID: "owner-1",
		Channel: models.ChannelPush,
		Status:  status,
		FiredAt: &firedAt,
		Snapshot: models.EventSnapshot{
			Title:    "Event",
			Priority: models.PriorityNormal,
		},
	}
}

func TestComputeMetricsSuccessRate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	var history []models.Execution
	for i := 0; i < 7; i++ {
		history = append(history, historicalExec(i, models.StatusDelivered, now.Add(-time.Hour)))
	}
	for i := 7; i < 10; i++ {
		history = append(history, historicalExec(i, models.StatusFailed, now.Add(-time.Hour)))
	}

	snap := ComputeMetrics(history, now)
	assert.Equal(t, 10, snap.Total)
	assert.Equal(t, 7, snap.Delivered)
	assert.Equal(t, 3, snap.Failed)
	assert.InDelta(t, 0.7, snap.SuccessRate, 1e-9)
}

func TestComputeMetricsTrailingWeekExcludesOldItems(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	history := []models.Execution{
		historicalExec(0, models.StatusDelivered, now.Add(-time.Hour)),
		historicalExec(1, models.StatusDelivered, now.Add(-6*24*time.Hour)),
		historicalExec(2, models.StatusDelivered, now.Add(-8*24*time.Hour)),
	}

	snap := ComputeMetrics(history, now)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 2, snap.Last7Days, "items fired over 7 days ago are excluded")
}

func TestComputeMetricsResponseLatency(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	fired := now.Add(-2 * time.Hour)
	responded := fired.Add(90 * time.Second)

	withAck := historicalExec(0, models.StatusDelivered, fired)
	withAck.Response = &models.AckResponse{Responded: true, RespondedAt: &responded}
	noAck := historicalExec(1, models.StatusDelivered, fired)

	snap := ComputeMetrics([]models.Execution{withAck, noAck}, now)
	assert.InDelta(t, 90.0, snap.AvgResponseSeconds, 1e-9,
		"only items with both firedAt and a response count")
}

func TestComputeMetricsGroupings(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	a := historicalExec(0, models.StatusDelivered, now.Add(-time.Hour))
	a.Channel = models.ChannelSMS
	a.Snapshot.Priority = models.PriorityUrgent
	b := historicalExec(1, models.StatusDelivered, now.Add(-time.Hour))
	b.Channel = models.ChannelSMS
	c := historicalExec(2, models.StatusFailed, now.Add(-time.Hour))
	c.Channel = models.ChannelVoice

	snap := ComputeMetrics([]models.Execution{a, b, c}, now)
	assert.Equal(t, 2, snap.ByChannel[models.ChannelSMS])
	assert.Equal(t, 1, snap.ByChannel[models.ChannelVoice])
	assert.Equal(t, 1, snap.ByPriority[models.PriorityUrgent])
	assert.Equal(t, 2, snap.ByPriority[models.PriorityNormal])
}

func TestTopHoursTieBreak(t *testing.T) {
	now := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	var history []models.Execution
	addAtHour := func(i, hour, n int) {
		for j := 0; j < n; j++ {
			fired := time.Date(2026, time.March, 10, hour, 5, 0, 0, time.UTC)
			history = append(history, historicalExec(i*100+j, models.StatusDelivered, fired))
		}
	}
	addAtHour(1, 14, 3)
	addAtHour(2, 9, 3)
	addAtHour(3, 7, 1)

	snap := ComputeMetrics(history, now)
	require.Len(t, snap.TopHours, 3)
	// Count descending, ties broken by hour ascending: 9 before 14.
	assert.Equal(t, models.HourBucket{Hour: 9, Count: 3}, snap.TopHours[0])
	assert.Equal(t, models.HourBucket{Hour: 14, Count: 3}, snap.TopHours[1])
	assert.Equal(t, models.HourBucket{Hour: 7, Count: 1}, snap.TopHours[2])
}

func TestMetricsOverServiceHistory(t *testing.T) {
	f := newFixture(t)
	// Two delivered, one failed, through the real delivery path.
	rule := f.addRule(models.ReminderRule{
		OwnerID:   "owner-1",
		Channels:  []models.ChannelType{models.ChannelPush},
		LeadTimes: []int{5},
	})
	for i, fail := range []bool{false, false, true} {
		event := testEvent(fmt.Sprintf("e%d", i), f.now.Add(time.Hour))
		require.Equal(t, 1, f.svc.expandAndSchedule(context.Background(), &rule, &event))
		items, err := f.execs.ListDue(f.now.Add(2 * time.Hour))
		require.NoError(t, err)
		f.channel.FailNext(fail)
		f.advance(56 * time.Minute)
		for _, item := range items {
			require.NoError(t, f.svc.Deliver(context.Background(), item.Key))
		}
		f.advance(-56 * time.Minute)
	}

	snap, err := f.svc.Metrics()
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 2, snap.Delivered)
	assert.Equal(t, 1, snap.Failed)
}
