package ruleRepo

import (
	"sync"
	"time"

	"chime/models"
)

// MemoryRuleRepo is an in-memory RuleRepository for tests and standalone runs.
type MemoryRuleRepo struct {
	mu    sync.RWMutex
	rules map[string]models.ReminderRule
}

// NewMemoryRuleRepo constructs an empty in-memory rule store.
func NewMemoryRuleRepo() *MemoryRuleRepo {
	return &MemoryRuleRepo{rules: make(map[string]models.ReminderRule)}
}

func (repo *MemoryRuleRepo) Create(rule *models.ReminderRule) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.rules[rule.ID] = *rule
	return nil
}

func (repo *MemoryRuleRepo) GetByID(id string) (*models.ReminderRule, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	r, ok := repo.rules[id]
	if !ok {
		return nil, ErrRuleNotFound
	}
	return &r, nil
}

func (repo *MemoryRuleRepo) Update(rule *models.ReminderRule) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rules[rule.ID]; !ok {
		return ErrRuleNotFound
	}
	repo.rules[rule.ID] = *rule
	return nil
}

func (repo *MemoryRuleRepo) Delete(id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rules[id]; !ok {
		return ErrRuleNotFound
	}
	delete(repo.rules, id)
	return nil
}

func (repo *MemoryRuleRepo) ListByOwner(ownerID string) ([]models.ReminderRule, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	var out []models.ReminderRule
	for _, r := range repo.rules {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (repo *MemoryRuleRepo) ListActive() ([]models.ReminderRule, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	var out []models.ReminderRule
	for _, r := range repo.rules {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (repo *MemoryRuleRepo) TouchLastTriggered(id string, at time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	r, ok := repo.rules[id]
	if !ok {
		return ErrRuleNotFound
	}
	r.LastTriggeredAt = &at
	repo.rules[id] = r
	return nil
}
