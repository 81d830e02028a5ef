package executionRepo

import (
	"context"
	"fmt"
	"time"

	"chime/database"
	"chime/models"
	"chime/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoExecutionRepo implements ExecutionRepository using MongoDB.
type MongoExecutionRepo struct {
	scheduledColl *mongo.Collection
	executedColl  *mongo.Collection
}

// NewMongoExecutionRepo constructs a new instance of MongoExecutionRepo.
func NewMongoExecutionRepo() ExecutionRepository {
	db := database.MongoClient.Database("chime")
	repo := &MongoExecutionRepo{
		scheduledColl: db.Collection("scheduled_executions"),
		executedColl:  db.Collection("executed_executions"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (repo *MongoExecutionRepo) Insert(exec *models.Execution) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := repo.Exists(exec.Key)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateKey
	}
	if _, err := repo.scheduledColl.InsertOne(ctx, exec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("error inserting execution %s: %w", exec.Key, err)
	}
	return nil
}

func (repo *MongoExecutionRepo) Exists(key string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"key": key}
	n, err := repo.scheduledColl.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("error counting scheduled executions: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	n, err = repo.executedColl.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("error counting executed executions: %w", err)
	}
	return n > 0, nil
}

func (repo *MongoExecutionRepo) Get(key string) (*models.Execution, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var exec models.Execution
	err := repo.scheduledColl.FindOne(ctx, bson.M{"key": key}).Decode(&exec)
	if err == nil {
		return &exec, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("error fetching execution %s: %w", key, err)
	}
	if err := repo.executedColl.FindOne(ctx, bson.M{"key": key}).Decode(&exec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrExecutionNotFound
		}
		return nil, fmt.Errorf("error fetching execution %s: %w", key, err)
	}
	return &exec, nil
}

// MarkSent relies on findOneAndUpdate's single-document atomicity: the
// status filter and the status write happen as one operation, so only one
// of a racing timer and sweep can observe scheduled and claim the item.
func (repo *MongoExecutionRepo) MarkSent(key string, firedAt time.Time) (*models.Execution, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"key": key, "status": models.StatusScheduled}
	update := bson.M{"$set": bson.M{"status": models.StatusSent, "firedAt": firedAt}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var exec models.Execution
	if err := repo.scheduledColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&exec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotPending
		}
		return nil, fmt.Errorf("error marking execution %s sent: %w", key, err)
	}
	return &exec, nil
}

func (repo *MongoExecutionRepo) MarkDelivered(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var exec models.Execution
	filter := bson.M{"key": key, "status": models.StatusSent}
	if err := repo.scheduledColl.FindOneAndDelete(ctx, filter).Decode(&exec); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotPending
		}
		return fmt.Errorf("error finalizing execution %s: %w", key, err)
	}
	exec.Status = models.StatusDelivered
	if _, err := repo.executedColl.InsertOne(ctx, &exec); err != nil {
		return fmt.Errorf("error archiving execution %s: %w", key, err)
	}
	return nil
}

func (repo *MongoExecutionRepo) MarkFailed(key string, cause string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"key": key, "status": models.StatusSent}
	update := bson.M{"$set": bson.M{"status": models.StatusFailed, "error": cause}}
	res, err := repo.scheduledColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error marking execution %s failed: %w", key, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotPending
	}
	return nil
}

func (repo *MongoExecutionRepo) CancelByRule(ruleID string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"ruleId": ruleID, "status": models.StatusScheduled}
	update := bson.M{"$set": bson.M{"status": models.StatusCancelled}}
	res, err := repo.scheduledColl.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("error cancelling executions for rule %s: %w", ruleID, err)
	}
	return int(res.ModifiedCount), nil
}

func (repo *MongoExecutionRepo) ListByOwner(ownerID string) ([]models.Execution, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"ownerId": ownerID}
	var out []models.Execution
	for _, coll := range []*mongo.Collection{repo.scheduledColl, repo.executedColl} {
		items, err := decodeExecutions(ctx, coll, filter, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	sortByTargetTime(out)
	return out, nil
}

func (repo *MongoExecutionRepo) ListDue(now time.Time) ([]models.Execution, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":     models.StatusScheduled,
		"targetTime": bson.M{"$lte": now},
	}
	return decodeExecutions(ctx, repo.scheduledColl, filter, nil)
}

func (repo *MongoExecutionRepo) ListHistory() ([]models.Execution, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := decodeExecutions(ctx, repo.executedColl, bson.M{}, nil)
	if err != nil {
		return nil, err
	}
	failed, err := decodeExecutions(ctx, repo.scheduledColl,
		bson.M{"status": models.StatusFailed}, nil)
	if err != nil {
		return nil, err
	}
	return append(out, failed...), nil
}

func (repo *MongoExecutionRepo) RecordAck(key string, at time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"response": models.AckResponse{Responded: true, RespondedAt: &at},
	}}
	for _, coll := range []*mongo.Collection{repo.executedColl, repo.scheduledColl} {
		res, err := coll.UpdateOne(ctx, bson.M{"key": key}, update)
		if err != nil {
			return fmt.Errorf("error recording ack for %s: %w", key, err)
		}
		if res.MatchedCount > 0 {
			return nil
		}
	}
	return ErrExecutionNotFound
}

func decodeExecutions(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]models.Execution, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = coll.Find(ctx, filter, opts)
	} else {
		cursor, err = coll.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing executions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Execution
	for cursor.Next(ctx) {
		var e models.Execution
		if err := cursor.Decode(&e); err != nil {
			// Malformed records are skipped so one bad document cannot
			// poison a sweep.
			utils.GetLogger().Warn("skipping undecodable execution record", zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}
