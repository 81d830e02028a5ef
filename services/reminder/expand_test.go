package reminder

import (
	"context"
	"testing"
	"time"

	"chime/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandCreatesCrossProduct(t *testing.T) {
	f := newFixture(t)
	rule := f.addRule(models.ReminderRule{
		OwnerID:   "owner-1",
		Channels:  []models.ChannelType{models.ChannelSMS, models.ChannelPush},
		LeadTimes: []int{60, 15},
	})
	event := testEvent("e1", f.now.Add(3*time.Hour))

	created := f.svc.expandAndSchedule(context.Background(), &rule, &event)
	assert.Equal(t, 4, created, "2 lead times x 2 channels")

	items, err := f.execs.ListByOwner("owner-1")
	require.NoError(t, err)
	require.Len(t, items, 4)
	for _, item := range items {
		assert.Equal(t, models.StatusScheduled, item.Status)
		wantTarget := event.StartTime.Add(-time.Duration(item.LeadTimeMinutes) * time.Minute)
		assert.True(t, item.TargetTime.Equal(wantTarget))
		assert.Equal(t, event.Title, item.Snapshot.Title)
	}
}

func TestExpandIsIdempotent(t *testing.T) {
	f := newFixture(t)
	rule := f.addRule(models.ReminderRule{
		OwnerID:   "owner-1",
		Channels:  []models.ChannelType{models.ChannelSMS, models.ChannelVoice},
		LeadTimes: []int{30},
	})
	event := testEvent("e1", f.now.Add(2*time.Hour))

	first := f.svc.expandAndSchedule(context.Background(), &rule, &event)
	second := f.svc.expandAndSchedule(context.Background(), &rule, &event)

	assert.Equal(t, 2, first)
	assert.Equal(t, 0, second, "a second pass over the same state creates nothing")

	items, err := f.execs.ListByOwner("owner-1")
	require.NoError(t, err)
	assert.Len(t, items, 2, "exactly one execution per (leadTime, channel) pair")
}

func TestExpandSuppressesPastOffsets(t *testing.T) {
	f := newFixture(t)
	rule := f.addRule(models.ReminderRule{
		OwnerID:   "owner-1",
		Channels:  []models.ChannelType{models.ChannelPush},
		LeadTimes: []int{60, 15},
	})

	// Event in 10 minutes: both targets (now-50m, now-5m) are past.
	event := testEvent("e1", f.now.Add(10*time.Minute))
	created := f.svc.expandAndSchedule(context.Background(), &rule, &event)
	assert.Equal(t, 0, created)

	// Event in 20 minutes: only the 15-minute lead (target now+5m) remains.
	event = testEvent("e2", f.now.Add(20*time.Minute))
	created = f.svc.expandAndSchedule(context.Background(), &rule, &event)
	assert.Equal(t, 1, created)

	items, err := f.execs.ListByOwner("owner-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 15, items[0].LeadTimeMinutes)
	assert.Equal(t, "e2", items[0].EventID)
}

func TestExpandDoesNotResurrectTerminalKeys(t *testing.T) {
	f := newFixture(t)
	rule := f.addRule(models.ReminderRule{
		OwnerID:   "owner-1",
		Channels:  []models.ChannelType{models.ChannelPush},
		LeadTimes: []int{30},
	})
	event := testEvent("e1", f.now.Add(2*time.Hour))

	f.svc.expandAndSchedule(context.Background(), &rule, &event)
	cancelled, err := f.execs.CancelByRule(rule.ID)
	require.NoError(t, err)
	require.Equal(t, 1, cancelled)

	// Dedup is permanent per key: a cancelled item is never recreated.
	created := f.svc.expandAndSchedule(context.Background(), &rule, &event)
	assert.Equal(t, 0, created)
}

func TestSnapshotIsImmutable(t *testing.T) {
	f := newFixture(t)
	rule := f.addRule(models.ReminderRule{
		OwnerID:   "owner-1",
		Channels:  []models.ChannelType{models.ChannelPush},
		LeadTimes: []int{30},
	})
	event := testEvent("e1", f.now.Add(2*time.Hour))
	event.Title = "Original title"

	f.svc.expandAndSchedule(context.Background(), &rule, &event)

	// A later edit to the event must not rewrite the captured snapshot.
	event.Title = "Edited title"
	items, err := f.execs.ListByOwner("owner-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Original title", items[0].Snapshot.Title)
}
