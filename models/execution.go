package models

import (
	"fmt"
	"time"
)

// ExecutionStatus tracks a scheduled reminder through its lifecycle.
type ExecutionStatus string

const (
	StatusScheduled ExecutionStatus = "scheduled"
	StatusSent      ExecutionStatus = "sent"
	StatusDelivered ExecutionStatus = "delivered"
	StatusFailed    ExecutionStatus = "failed"
	StatusCancelled ExecutionStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s ExecutionStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusFailed || s == StatusCancelled
}

// ExecutionKey builds the deterministic identity of a scheduled reminder.
// Two passes over the same (rule, event, lead, channel) tuple always produce
// the same key, which is what makes re-scheduling idempotent.
func ExecutionKey(ruleID, eventID string, leadMinutes int, channel ChannelType) string {
	return fmt.Sprintf("%s:%s:%d:%s", ruleID, eventID, leadMinutes, channel)
}

// EventSnapshot freezes the event fields used in reminder wording at
// scheduling time, so later event edits do not rewrite a pending reminder.
type EventSnapshot struct {
	Title     string    `json:"title" bson:"title"`
	StartTime time.Time `json:"startTime" bson:"startTime"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	Priority  Priority  `json:"priority" bson:"priority"`
}

// AckResponse records recipient acknowledgement, written by the feedback
// path and read-only to the engine core.
type AckResponse struct {
	Responded   bool       `json:"responded" bson:"responded"`
	RespondedAt *time.Time `json:"respondedAt,omitempty" bson:"respondedAt,omitempty"`
}

// Execution is one concrete scheduled reminder: this rule, for this event,
// at this lead time, on this channel.
type Execution struct {
	Key             string          `json:"key" bson:"key"`
	RuleID          string          `json:"ruleId" bson:"ruleId"`
	OwnerID         string          `json:"ownerId" bson:"ownerId"`
	EventID         string          `json:"eventId" bson:"eventId"`
	Channel         ChannelType     `json:"channel" bson:"channel"`
	LeadTimeMinutes int             `json:"leadTimeMinutes" bson:"leadTimeMinutes"`
	Status          ExecutionStatus `json:"status" bson:"status"`
	TargetTime      time.Time       `json:"targetTime" bson:"targetTime"`
	FiredAt         *time.Time      `json:"firedAt,omitempty" bson:"firedAt,omitempty"`
	Snapshot        EventSnapshot   `json:"snapshot" bson:"snapshot"`
	Response        *AckResponse    `json:"response,omitempty" bson:"response,omitempty"`
	Error           string          `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
}
