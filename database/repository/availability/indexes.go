// FILE: database/repository/availability/indexes.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on the weekly_availability and blackouts collections.
func (r *MongoAvailabilityRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	weeklyIndexes := []mongo.IndexModel{
		// one template per provider
		{
			Keys:    bson.D{{Key: "providerUserId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_provider"),
		},
	}
	if _, err := r.weeklyColl.Indexes().CreateMany(ctx, weeklyIndexes); err != nil {
		return fmt.Errorf("failed to create weekly availability indexes: %w", err)
	}

	blackoutIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "providerUserId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "startAt", Value: 1}},
			Options: options.Index().SetName("provider_active_start_idx"),
		},
	}
	if _, err := r.blackoutColl.Indexes().CreateMany(ctx, blackoutIndexes); err != nil {
		return fmt.Errorf("failed to create blackout indexes: %w", err)
	}
	return nil
}
