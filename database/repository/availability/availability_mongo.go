package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
type MongoAvailabilityRepo struct {
	weeklyColl   *mongo.Collection
	blackoutColl *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo(db *mongo.Database) *MongoAvailabilityRepo {
	return &MongoAvailabilityRepo{
		weeklyColl:   db.Collection("weekly_availability"),
		blackoutColl: db.Collection("blackouts"),
	}
}

func (r *MongoAvailabilityRepo) GetWeekly(ctx context.Context, providerUserID string) (*models.WeeklyAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var weekly models.WeeklyAvailability
	if err := r.weeklyColl.FindOne(ctx, bson.M{"providerUserId": providerUserID}).Decode(&weekly); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch weekly availability for %s: %w", providerUserID, err)
	}
	return &weekly, nil
}

func (r *MongoAvailabilityRepo) UpsertWeekly(ctx context.Context, weekly *models.WeeklyAvailability) (*models.WeeklyAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"timeZone":        weekly.TimeZone,
			"slotDurationMin": weekly.SlotDurationMin,
			"bufferMin":       weekly.BufferMin,
			"isActive":        weekly.IsActive,
			"weekly":          weekly.Weekly,
			"updatedAt":       weekly.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"id":        weekly.ID,
			"createdAt": weekly.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.WeeklyAvailability
	err := r.weeklyColl.FindOneAndUpdate(ctx, bson.M{"providerUserId": weekly.ProviderUserID}, update, opts).Decode(&saved)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert weekly availability for %s: %w", weekly.ProviderUserID, err)
	}
	return &saved, nil
}

func (r *MongoAvailabilityRepo) SetWeeklyActive(ctx context.Context, providerUserID string, active bool, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.weeklyColl.UpdateOne(ctx,
		bson.M{"providerUserId": providerUserID},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to update weekly availability for %s: %w", providerUserID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAvailabilityRepo) CreateBlackout(ctx context.Context, blackout *models.Blackout) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.blackoutColl.InsertOne(ctx, blackout); err != nil {
		return fmt.Errorf("failed to insert blackout: %w", err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) GetBlackoutByID(ctx context.Context, blackoutID string) (*models.Blackout, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var blackout models.Blackout
	if err := r.blackoutColl.FindOne(ctx, bson.M{"id": blackoutID}).Decode(&blackout); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch blackout %s: %w", blackoutID, err)
	}
	return &blackout, nil
}

func (r *MongoAvailabilityRepo) DeactivateBlackout(ctx context.Context, blackoutID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.blackoutColl.UpdateOne(ctx, bson.M{"id": blackoutID}, bson.M{"$set": bson.M{"isActive": false}})
	if err != nil {
		return fmt.Errorf("failed to deactivate blackout %s: %w", blackoutID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAvailabilityRepo) findBlackouts(ctx context.Context, filter bson.M) ([]models.Blackout, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startAt", Value: 1}})
	cursor, err := r.blackoutColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query blackouts: %w", err)
	}
	defer cursor.Close(ctx)

	blackouts := []models.Blackout{}
	if err := cursor.All(ctx, &blackouts); err != nil {
		return nil, fmt.Errorf("failed to decode blackouts: %w", err)
	}
	return blackouts, nil
}

func (r *MongoAvailabilityRepo) FindActiveBlackouts(ctx context.Context, providerUserID string, start, end time.Time) ([]models.Blackout, error) {
	return r.findBlackouts(ctx, bson.M{
		"providerUserId": providerUserID,
		"isActive":       true,
		"startAt":        bson.M{"$lt": end},
		"endAt":          bson.M{"$gt": start},
	})
}

func (r *MongoAvailabilityRepo) ListBlackouts(ctx context.Context, providerUserID string, start, end time.Time) ([]models.Blackout, error) {
	return r.findBlackouts(ctx, bson.M{
		"providerUserId": providerUserID,
		"startAt":        bson.M{"$lt": end},
		"endAt":          bson.M{"$gt": start},
	})
}
