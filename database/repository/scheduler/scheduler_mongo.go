package schedulerRepo

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

// MongoSchedulerRepo implements SchedulerRepository using MongoDB.
type MongoSchedulerRepo struct {
	bookingColl *mongo.Collection
	lockColl    *mongo.Collection
}

// NewMongoSchedulerRepo constructs a new instance of MongoSchedulerRepo.
func NewMongoSchedulerRepo(db *mongo.Database) *MongoSchedulerRepo {
	return &MongoSchedulerRepo{
		bookingColl: db.Collection("bookings"),
		lockColl:    db.Collection("booking_locks"),
	}
}

func overlapFilter(providerUserID string, start, end time.Time) bson.M {
	return bson.M{
		"providerUserId": providerUserID,
		"status":         bson.M{"$ne": models.BookingStatusCancelled},
		"startAt":        bson.M{"$lt": end},
		"endAt":          bson.M{"$gt": start},
	}
}

// GetBookingByID retrieves a booking document by ID.
func (repo *MongoSchedulerRepo) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := repo.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", bookingID, err)
	}
	return &booking, nil
}

// FindOverlapping returns non-cancelled bookings of the provider overlapping [start, end).
func (repo *MongoSchedulerRepo) FindOverlapping(ctx context.Context, providerUserID string, start, end time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startAt", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := repo.bookingColl.Find(ctx, overlapFilter(providerUserID, start, end), opts)
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// ListBookings returns bookings matching filter, newest start first.
func (repo *MongoSchedulerRepo) ListBookings(ctx context.Context, filter ListFilter) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.ProviderUserID != "" {
		query["providerUserId"] = filter.ProviderUserID
	}
	if filter.ClientID != "" {
		query["clientId"] = filter.ClientID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startAt", Value: -1}}).
		SetLimit(int64(listLimit(filter.Limit)))
	cursor, err := repo.bookingColl.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func patchDocument(patch models.BookingPatch) bson.M {
	set := bson.M{
		"status":    patch.Status,
		"updatedAt": patch.UpdatedAt,
	}
	if patch.CancelledAt != nil {
		set["cancelledAt"] = patch.CancelledAt
		set["cancelledBy"] = patch.CancelledBy
		set["cancelReason"] = patch.CancelReason
	}
	if patch.RescheduledToID != "" {
		set["rescheduledToId"] = patch.RescheduledToID
		set["rescheduledAt"] = patch.RescheduledAt
		set["rescheduleReason"] = patch.RescheduleReason
	}
	return bson.M{"$set": set}
}

// UpdateStatus applies patch while the booking is still in expectedStatus.
func (repo *MongoSchedulerRepo) UpdateStatus(ctx context.Context, bookingID, expectedStatus string, patch models.BookingPatch) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID, "status": expectedStatus}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := repo.bookingColl.FindOneAndUpdate(ctx, filter, patchDocument(patch), opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("error updating booking %s: %w", bookingID, err)
	}

	// Distinguish a missing booking from a failed precondition.
	count, cerr := repo.bookingColl.CountDocuments(ctx, bson.M{"id": bookingID})
	if cerr != nil {
		return nil, fmt.Errorf("error checking booking %s: %w", bookingID, cerr)
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrStatusMismatch
}
