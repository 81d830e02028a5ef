package executionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for fields frequently used in queries. The
// unique key index on the scheduled collection backs the dedup invariant at
// the storage layer as well.
func (repo *MongoExecutionRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduledModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ruleId", Value: 1}}},
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "targetTime", Value: 1}}},
	}
	if _, err := repo.scheduledColl.Indexes().CreateMany(ctx, scheduledModels); err != nil {
		return fmt.Errorf("failed to create scheduled indexes: %w", err)
	}

	executedModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		{Keys: bson.D{{Key: "firedAt", Value: 1}}},
	}
	if _, err := repo.executedColl.Indexes().CreateMany(ctx, executedModels); err != nil {
		return fmt.Errorf("failed to create executed indexes: %w", err)
	}
	return nil
}
