package ruleRepo

import (
	"errors"
	"time"

	"chime/models"
)

// ErrRuleNotFound is returned when no rule exists for the given id.
var ErrRuleNotFound = errors.New("reminder rule not found")

// RuleRepository persists reminder rules keyed by id.
type RuleRepository interface {
	Create(rule *models.ReminderRule) error
	GetByID(id string) (*models.ReminderRule, error)
	Update(rule *models.ReminderRule) error
	Delete(id string) error
	ListByOwner(ownerID string) ([]models.ReminderRule, error)
	ListActive() ([]models.ReminderRule, error)
	TouchLastTriggered(id string, at time.Time) error
}
