package ruleRepo

import (
	"context"
	"fmt"
	"time"

	"chime/database"
	"chime/models"
	"chime/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoRuleRepo implements RuleRepository using MongoDB.
type MongoRuleRepo struct {
	coll *mongo.Collection
}

// NewMongoRuleRepo constructs a new instance of MongoRuleRepo.
func NewMongoRuleRepo() RuleRepository {
	db := database.MongoClient.Database("chime")
	repo := &MongoRuleRepo{coll: db.Collection("reminder_rules")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (repo *MongoRuleRepo) Create(rule *models.ReminderRule) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, rule); err != nil {
		return fmt.Errorf("error inserting rule %s: %w", rule.ID, err)
	}
	return nil
}

func (repo *MongoRuleRepo) GetByID(id string) (*models.ReminderRule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var rule models.ReminderRule
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rule); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("error fetching rule with id %s: %w", id, err)
	}
	return &rule, nil
}

func (repo *MongoRuleRepo) Update(rule *models.ReminderRule) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctx, bson.M{"id": rule.ID}, rule)
	if err != nil {
		return fmt.Errorf("error updating rule %s: %w", rule.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (repo *MongoRuleRepo) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting rule %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (repo *MongoRuleRepo) ListByOwner(ownerID string) ([]models.ReminderRule, error) {
	return repo.list(bson.M{"ownerId": ownerID})
}

func (repo *MongoRuleRepo) ListActive() ([]models.ReminderRule, error) {
	return repo.list(bson.M{"active": true})
}

func (repo *MongoRuleRepo) list(filter bson.M) ([]models.ReminderRule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []models.ReminderRule
	for cursor.Next(ctx) {
		var r models.ReminderRule
		if err := cursor.Decode(&r); err != nil {
			// A malformed record degrades to a skipped rule, not a dead loop.
			utils.GetLogger().Warn("skipping undecodable rule record", zap.Error(err))
			continue
		}
		rules = append(rules, r)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return rules, nil
}

func (repo *MongoRuleRepo) TouchLastTriggered(id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := repo.coll.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"lastTriggeredAt": at}})
	if err != nil {
		return fmt.Errorf("error touching rule %s: %w", id, err)
	}
	return nil
}
