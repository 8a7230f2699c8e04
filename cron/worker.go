package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	schedulerRepo "slotwise/database/repository/scheduler"
	"slotwise/models"
	"slotwise/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingReader is the slice of the booking repository the worker needs.
type BookingReader interface {
	GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
}

// StartReminderWorker runs the reminder worker in the background. The returned
// server must be shut down by the caller.
func StartReminderWorker(redisOpts asynq.RedisClientOpt, repo BookingReader, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingReminder, HandleReminderTask(repo, logger))

	go func() {
		logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("Reminder worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Reminder worker gave up, reminders will not be delivered")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleReminderTask delivers a reminder only while the booking is still confirmed.
func HandleReminderTask(repo BookingReader, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("decode reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		booking, err := repo.GetBookingByID(ctx, p.BookingID)
		if errors.Is(err, schedulerRepo.ErrNotFound) {
			logger.Warn("Reminder for unknown booking", zap.String("bookingID", p.BookingID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("load booking %s: %w", p.BookingID, err)
		}

		if booking.Status != models.BookingStatusConfirmed || !booking.StartAt.Equal(p.StartAt) {
			logger.Debug("Skipping stale reminder",
				zap.String("bookingID", booking.ID), zap.String("status", booking.Status))
			return nil
		}

		logger.Info("Booking reminder due",
			zap.String("bookingID", booking.ID),
			zap.String("clientId", booking.ClientID),
			zap.String("providerUserId", booking.ProviderUserID),
			zap.Time("startAt", booking.StartAt))
		return nil
	}
}
