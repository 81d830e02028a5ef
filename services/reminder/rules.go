package reminder

import (
	"chime/models"
	"chime/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateRule validates and stores a new reminder rule, assigning its id.
func (s *DefaultReminderService) CreateRule(rule *models.ReminderRule) (*models.ReminderRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	now := s.now()
	rule.ID = uuid.New().String()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	if err := s.Rules.Create(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// UpdateRule applies a partial update with merge semantics: nil fields keep
// the stored value.
func (s *DefaultReminderService) UpdateRule(id string, upd models.RuleUpdate) (*models.ReminderRule, error) {
	rule, err := s.Rules.GetByID(id)
	if err != nil {
		return nil, err
	}

	if upd.EventTypes != nil {
		rule.EventTypes = *upd.EventTypes
	}
	if upd.Channels != nil {
		rule.Channels = *upd.Channels
	}
	if upd.LeadTimes != nil {
		rule.LeadTimes = *upd.LeadTimes
	}
	if upd.Conditions != nil {
		rule.Conditions = upd.Conditions
	}
	if upd.Active != nil {
		rule.Active = *upd.Active
	}

	if err := validateRule(rule); err != nil {
		return nil, err
	}
	rule.UpdatedAt = s.now()
	if err := s.Rules.Update(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// DeleteRule removes a rule. Every still-scheduled execution referencing it
// is cancelled before this returns, so no reminder can fire for a rule that
// no longer exists; timers that fire later find the cancelled status and
// do nothing.
func (s *DefaultReminderService) DeleteRule(id string) error {
	if _, err := s.Rules.GetByID(id); err != nil {
		return err
	}

	cancelled, err := s.Executions.CancelByRule(id)
	if err != nil {
		return err
	}
	if cancelled > 0 {
		utils.GetLogger().Info("cancelled pending executions for deleted rule",
			zap.String("ruleId", id), zap.Int("count", cancelled))
	}

	return s.Rules.Delete(id)
}

// ListRules returns the owner's rules.
func (s *DefaultReminderService) ListRules(ownerID string) ([]models.ReminderRule, error) {
	return s.Rules.ListByOwner(ownerID)
}

// ListExecutions returns the owner's executions sorted ascending by target time.
func (s *DefaultReminderService) ListExecutions(ownerID string) ([]models.Execution, error) {
	return s.Executions.ListByOwner(ownerID)
}

// RecordAck records recipient acknowledgement on an execution.
func (s *DefaultReminderService) RecordAck(key string) error {
	return s.Executions.RecordAck(key, s.now())
}

func validateRule(rule *models.ReminderRule) error {
	if rule.OwnerID == "" {
		return NewRuleError("ownerId is required")
	}
	if len(rule.Channels) == 0 {
		return NewRuleError("at least one channel is required")
	}
	if len(rule.LeadTimes) == 0 {
		return NewRuleError("at least one lead time is required")
	}
	for _, lead := range rule.LeadTimes {
		if lead < 0 {
			return NewRuleError("lead times must be non-negative minutes")
		}
	}
	if c := rule.Conditions; c != nil && c.TimeWindow != nil {
		if !validHHMM(c.TimeWindow.Start) || !validHHMM(c.TimeWindow.End) {
			return NewRuleError("time window must use zero-padded HH:MM")
		}
	}
	return nil
}

func validHHMM(v string) bool {
	if len(v) != 5 || v[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	hh := v[:2]
	mm := v[3:]
	return hh <= "23" && mm <= "59"
}
