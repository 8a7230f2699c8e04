// FILE: database/repository/scheduler/indexes.go
package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (repo *MongoSchedulerRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Overlap lookups: provider timeline by status and start.
		{
			Keys:    bson.D{{Key: "providerUserId", Value: 1}, {Key: "status", Value: 1}, {Key: "startAt", Value: 1}},
			Options: options.Index().SetName("provider_status_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "startAt", Value: -1}},
			Options: options.Index().SetName("client_start_idx"),
		},
		// A booking has at most one successor.
		{
			Keys: bson.D{{Key: "rescheduledFromId", Value: 1}},
			Options: options.Index().SetName("unique_rescheduled_from").SetUnique(true).
				SetPartialFilterExpression(bson.M{"rescheduledFromId": bson.M{"$type": "string"}}),
		},
	}

	if _, err := repo.bookingColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
