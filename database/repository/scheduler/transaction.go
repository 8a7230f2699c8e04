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

const (
	writeConflictCode         = 112
	transientTransactionLabel = "TransientTransactionError"
)

// isWriteConflict reports whether err means another transaction won the race
// for the same provider. Concurrent first upserts of a lock document collide
// on its _id instead of raising a write conflict.
func isWriteConflict(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorLabel(transientTransactionLabel) || se.HasErrorCode(writeConflictCode)
	}
	return false
}

// runInTransaction executes fn inside a single transaction. It never retries:
// a transaction that lost a race surfaces ErrWriteConflict to the caller.
func (repo *MongoSchedulerRepo) runInTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrOverlap) || errors.Is(err, ErrStatusMismatch) || errors.Is(err, ErrNotFound) {
		return err
	}
	if isWriteConflict(err) {
		return fmt.Errorf("%w: %v", ErrWriteConflict, err)
	}
	return fmt.Errorf("booking transaction failed: %w", err)
}

// bumpProviderLock writes the provider's lock document so that any two
// transactions touching the same provider timeline conflict with each other.
func (repo *MongoSchedulerRepo) bumpProviderLock(sc mongo.SessionContext, providerUserID string) error {
	_, err := repo.lockColl.UpdateOne(sc,
		bson.M{"_id": providerUserID},
		bson.M{
			"$inc": bson.M{"seq": 1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("lock provider timeline: %w", err)
	}
	return nil
}

func (repo *MongoSchedulerRepo) checkNoOverlap(sc mongo.SessionContext, booking *models.Booking, excludeID string) error {
	filter := overlapFilter(booking.ProviderUserID, booking.StartAt, booking.EndAt)
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	count, err := repo.bookingColl.CountDocuments(sc, filter)
	if err != nil {
		return fmt.Errorf("overlap check failed: %w", err)
	}
	if count > 0 {
		return ErrOverlap
	}
	return nil
}

// InsertIfNoOverlap inserts booking inside a transaction guarded by the
// provider lock document.
func (repo *MongoSchedulerRepo) InsertIfNoOverlap(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return repo.runInTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := repo.bumpProviderLock(sc, booking.ProviderUserID); err != nil {
			return err
		}
		if err := repo.checkNoOverlap(sc, booking, ""); err != nil {
			return err
		}
		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	})
}

// Reschedule inserts next and supersedes oldID in one transaction. If the old
// booking is no longer confirmed the insert is rolled back.
func (repo *MongoSchedulerRepo) Reschedule(ctx context.Context, oldID string, oldPatch models.BookingPatch, next *models.Booking) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var old models.Booking
	err := repo.runInTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := repo.bumpProviderLock(sc, next.ProviderUserID); err != nil {
			return err
		}
		if err := repo.checkNoOverlap(sc, next, oldID); err != nil {
			return err
		}
		if _, err := repo.bookingColl.InsertOne(sc, next); err != nil {
			return fmt.Errorf("insert rescheduled booking failed: %w", err)
		}

		filter := bson.M{"id": oldID, "status": models.BookingStatusConfirmed}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err := repo.bookingColl.FindOneAndUpdate(sc, filter, patchDocument(oldPatch), opts).Decode(&old)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrStatusMismatch
		}
		if err != nil {
			return fmt.Errorf("supersede booking %s failed: %w", oldID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &old, nil
}
