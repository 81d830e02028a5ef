package executionRepo

import (
	"sort"
	"sync"
	"time"

	"chime/models"
)

// MemoryExecutionRepo is an in-memory ExecutionRepository for tests and
// standalone runs. A single mutex serializes every mutation, which also
// makes MarkSent an atomic check-and-set.
type MemoryExecutionRepo struct {
	mu        sync.Mutex
	scheduled map[string]models.Execution
	executed  map[string]models.Execution
}

// NewMemoryExecutionRepo constructs empty in-memory execution stores.
func NewMemoryExecutionRepo() *MemoryExecutionRepo {
	return &MemoryExecutionRepo{
		scheduled: make(map[string]models.Execution),
		executed:  make(map[string]models.Execution),
	}
}

func (repo *MemoryExecutionRepo) Insert(exec *models.Execution) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.scheduled[exec.Key]; ok {
		return ErrDuplicateKey
	}
	if _, ok := repo.executed[exec.Key]; ok {
		return ErrDuplicateKey
	}
	repo.scheduled[exec.Key] = *exec
	return nil
}

func (repo *MemoryExecutionRepo) Exists(key string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.scheduled[key]; ok {
		return true, nil
	}
	_, ok := repo.executed[key]
	return ok, nil
}

func (repo *MemoryExecutionRepo) Get(key string) (*models.Execution, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if e, ok := repo.scheduled[key]; ok {
		return &e, nil
	}
	if e, ok := repo.executed[key]; ok {
		return &e, nil
	}
	return nil, ErrExecutionNotFound
}

func (repo *MemoryExecutionRepo) MarkSent(key string, firedAt time.Time) (*models.Execution, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	e, ok := repo.scheduled[key]
	if !ok || e.Status != models.StatusScheduled {
		return nil, ErrNotPending
	}
	e.Status = models.StatusSent
	e.FiredAt = &firedAt
	repo.scheduled[key] = e
	out := e
	return &out, nil
}

func (repo *MemoryExecutionRepo) MarkDelivered(key string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	e, ok := repo.scheduled[key]
	if !ok || e.Status != models.StatusSent {
		return ErrNotPending
	}
	e.Status = models.StatusDelivered
	delete(repo.scheduled, key)
	repo.executed[key] = e
	return nil
}

func (repo *MemoryExecutionRepo) MarkFailed(key string, cause string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	e, ok := repo.scheduled[key]
	if !ok || e.Status != models.StatusSent {
		return ErrNotPending
	}
	e.Status = models.StatusFailed
	e.Error = cause
	repo.scheduled[key] = e
	return nil
}

func (repo *MemoryExecutionRepo) CancelByRule(ruleID string) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	n := 0
	for key, e := range repo.scheduled {
		if e.RuleID == ruleID && e.Status == models.StatusScheduled {
			e.Status = models.StatusCancelled
			repo.scheduled[key] = e
			n++
		}
	}
	return n, nil
}

func (repo *MemoryExecutionRepo) ListByOwner(ownerID string) ([]models.Execution, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var out []models.Execution
	for _, e := range repo.scheduled {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	for _, e := range repo.executed {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sortByTargetTime(out)
	return out, nil
}

func (repo *MemoryExecutionRepo) ListDue(now time.Time) ([]models.Execution, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var out []models.Execution
	for _, e := range repo.scheduled {
		if e.Status == models.StatusScheduled && !e.TargetTime.After(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (repo *MemoryExecutionRepo) ListHistory() ([]models.Execution, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var out []models.Execution
	for _, e := range repo.executed {
		out = append(out, e)
	}
	for _, e := range repo.scheduled {
		if e.Status == models.StatusFailed {
			out = append(out, e)
		}
	}
	return out, nil
}

func (repo *MemoryExecutionRepo) RecordAck(key string, at time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if e, ok := repo.executed[key]; ok {
		e.Response = &models.AckResponse{Responded: true, RespondedAt: &at}
		repo.executed[key] = e
		return nil
	}
	if e, ok := repo.scheduled[key]; ok {
		e.Response = &models.AckResponse{Responded: true, RespondedAt: &at}
		repo.scheduled[key] = e
		return nil
	}
	return ErrExecutionNotFound
}

func sortByTargetTime(items []models.Execution) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].TargetTime.Before(items[j].TargetTime)
	})
}
