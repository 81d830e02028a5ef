package models

import "time"

// ChannelType tags a delivery channel for a reminder.
type ChannelType string

const (
	ChannelSMS       ChannelType = "sms"
	ChannelVoice     ChannelType = "voice"
	ChannelVoicemail ChannelType = "voicemail"
	ChannelPush      ChannelType = "push"
)

// Priority is the ordered event-priority scale.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank maps a priority to its position on the scale; unknown values rank
// below "low" so a malformed floor never excludes everything.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityNormal:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 0
	}
}

// TimeWindow restricts matching to a time-of-day range. Start and End are
// zero-padded "HH:MM" strings compared lexicographically, so a window that
// crosses midnight (e.g. 22:00-02:00) matches nothing between Start and
// 23:59. Known limitation, kept as observed behavior.
type TimeWindow struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// RuleConditions is the optional predicate bundle on a reminder rule.
// Every zero-valued field means "no constraint".
type RuleConditions struct {
	MinPriority     Priority    `json:"minPriority,omitempty" bson:"minPriority,omitempty"`
	Keywords        []string    `json:"keywords,omitempty" bson:"keywords,omitempty"`
	ExcludeKeywords []string    `json:"excludeKeywords,omitempty" bson:"excludeKeywords,omitempty"`
	TimeWindow      *TimeWindow `json:"timeWindow,omitempty" bson:"timeWindow,omitempty"`
	Weekdays        []int       `json:"weekdays,omitempty" bson:"weekdays,omitempty"`
	Location        string      `json:"location,omitempty" bson:"location,omitempty"`
}

// ReminderRule describes which calendar events trigger reminders, through
// which channels, and how far in advance.
type ReminderRule struct {
	ID              string          `json:"id" bson:"id"`
	OwnerID         string          `json:"ownerId" bson:"ownerId"`
	EventTypes      []string        `json:"eventTypes,omitempty" bson:"eventTypes,omitempty"`
	Channels        []ChannelType   `json:"channels" bson:"channels"`
	LeadTimes       []int           `json:"leadTimes" bson:"leadTimes"`
	Conditions      *RuleConditions `json:"conditions,omitempty" bson:"conditions,omitempty"`
	Active          bool            `json:"active" bson:"active"`
	LastTriggeredAt *time.Time      `json:"lastTriggeredAt,omitempty" bson:"lastTriggeredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// RuleUpdate carries a partial rule update; nil fields keep the stored value.
type RuleUpdate struct {
	EventTypes *[]string       `json:"eventTypes,omitempty"`
	Channels   *[]ChannelType  `json:"channels,omitempty"`
	LeadTimes  *[]int          `json:"leadTimes,omitempty"`
	Conditions *RuleConditions `json:"conditions,omitempty"`
	Active     *bool           `json:"active,omitempty"`
}
