package executionRepo

import (
	"errors"
	"time"

	"chime/models"
)

var (
	// ErrExecutionNotFound is returned when no execution exists for the key.
	ErrExecutionNotFound = errors.New("execution not found")
	// ErrDuplicateKey is returned when inserting a key that already exists.
	ErrDuplicateKey = errors.New("execution key already exists")
	// ErrNotPending is returned when a status transition loses the race for
	// an execution that is no longer in scheduled state.
	ErrNotPending = errors.New("execution is not pending")
)

// ExecutionRepository persists scheduled reminders across two keyed
// collections: the in-flight store (scheduled, sent, failed, cancelled) and
// the historical store (delivered). Dedup is permanent per key: Exists
// reports true for any record in either store, whatever its status.
type ExecutionRepository interface {
	Insert(exec *models.Execution) error
	Exists(key string) (bool, error)
	Get(key string) (*models.Execution, error)

	// MarkSent atomically transitions scheduled→sent, stamping FiredAt.
	// Exactly one of several racing callers wins; losers get ErrNotPending.
	MarkSent(key string, firedAt time.Time) (*models.Execution, error)

	// MarkDelivered finalizes a sent execution and moves it from the
	// in-flight store into the historical store.
	MarkDelivered(key string) error

	// MarkFailed finalizes a sent execution as failed. The record stays in
	// the in-flight store for operator inspection.
	MarkFailed(key string, cause string) error

	// CancelByRule marks every still-scheduled execution of the rule
	// cancelled and reports how many were affected.
	CancelByRule(ruleID string) (int, error)

	// ListByOwner returns every execution of the owner across both stores,
	// sorted ascending by TargetTime.
	ListByOwner(ownerID string) ([]models.Execution, error)

	// ListDue returns in-flight executions still in scheduled status whose
	// TargetTime is at or before now.
	ListDue(now time.Time) ([]models.Execution, error)

	// ListHistory returns every execution with a delivery outcome: delivered
	// records from the historical store plus failed records left in-flight.
	ListHistory() ([]models.Execution, error)
	RecordAck(key string, at time.Time) error
}
