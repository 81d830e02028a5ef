package reminder

import (
	"context"
	"testing"
	"time"

	ruleRepo "chime/database/repository/rule"
	"chime/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRuleAssignsIDAndValidates(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CreateRule(&models.ReminderRule{
		OwnerID:   "owner-1",
		Channels:  []models.ChannelType{models.ChannelSMS},
		LeadTimes: []int{0, 30},
		Active:    true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = f.svc.CreateRule(&models.ReminderRule{OwnerID: "owner-1", LeadTimes: []int{10}})
	assert.Error(t, err, "channels are required")

	_, err = f.svc.CreateRule(&models.ReminderRule{
		OwnerID:  "owner-1",
		Channels: []models.ChannelType{models.ChannelSMS},
	})
	assert.Error(t, err, "lead times are required")

	_, err = f.svc.CreateRule(&models.ReminderRule{
		OwnerID:   "owner-1",
		Channels:  []models.ChannelType{models.ChannelSMS},
		LeadTimes: []int{-5},
	})
	assert.Error(t, err, "negative lead times are rejected")

	_, err = f.svc.CreateRule(&models.ReminderRule{
		OwnerID:   "owner-1",
		Channels:  []models.ChannelType{models.ChannelSMS},
		LeadTimes: []int{10},
		Conditions: &models.RuleConditions{
			TimeWindow: &models.TimeWindow{Start: "8:00", End: "20:00"},
		},
	})
	assert.Error(t, err, "time window must be zero-padded HH:MM")
}

func TestUpdateRuleMergesPartialFields(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.CreateRule(&models.ReminderRule{
		OwnerID:    "owner-1",
		EventTypes: []string{"class"},
		Channels:   []models.ChannelType{models.ChannelSMS},
		LeadTimes:  []int{30},
		Active:     true,
	})
	require.NoError(t, err)

	newLeads := []int{10, 60}
	inactive := false
	updated, err := f.svc.UpdateRule(created.ID, models.RuleUpdate{
		LeadTimes: &newLeads,
		Active:    &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, []int{10, 60}, updated.LeadTimes)
	assert.False(t, updated.Active)
	// Untouched fields keep their stored values.
	assert.Equal(t, []string{"class"}, updated.EventTypes)
	assert.Equal(t, []models.ChannelType{models.ChannelSMS}, updated.Channels)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt) || updated.UpdatedAt.Equal(created.CreatedAt))
}

func TestUpdateUnknownRule(t *testing.T) {
	f := newFixture(t)
	active := true
	_, err := f.svc.UpdateRule("nope", models.RuleUpdate{Active: &active})
	assert.ErrorIs(t, err, ruleRepo.ErrRuleNotFound)
}

func TestDeleteUnknownRule(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.DeleteRule("nope"), ruleRepo.ErrRuleNotFound)
}

func TestListExecutionsSortedByTargetTime(t *testing.T) {
	f := newFixture(t)
	rule := f.addRule(models.ReminderRule{
		OwnerID:   "owner-1",
		Channels:  []models.ChannelType{models.ChannelPush},
		LeadTimes: []int{120, 15, 60},
	})
	event := testEvent("e1", f.now.Add(6*time.Hour))
	require.Equal(t, 3, f.svc.expandAndSchedule(context.Background(), &rule, &event))

	items, err := f.svc.ListExecutions("owner-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	// Largest lead time fires first.
	assert.Equal(t, []int{120, 60, 15},
		[]int{items[0].LeadTimeMinutes, items[1].LeadTimeMinutes, items[2].LeadTimeMinutes})
}

func TestRecordAck(t *testing.T) {
	f := newFixture(t)
	rule := f.addRule(models.ReminderRule{
		OwnerID:   "owner-1",
		Channels:  []models.ChannelType{models.ChannelPush},
		LeadTimes: []int{30},
	})
	event := testEvent("e1", f.now.Add(time.Hour))
	require.Equal(t, 1, f.svc.expandAndSchedule(context.Background(), &rule, &event))
	items, err := f.svc.ListExecutions("owner-1")
	require.NoError(t, err)
	key := items[0].Key

	f.advance(40 * time.Minute)
	require.NoError(t, f.svc.Deliver(context.Background(), key))
	require.NoError(t, f.svc.RecordAck(key))

	exec, err := f.execs.Get(key)
	require.NoError(t, err)
	require.NotNil(t, exec.Response)
	assert.True(t, exec.Response.Responded)
	require.NotNil(t, exec.Response.RespondedAt)
}
