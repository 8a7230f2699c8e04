package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"slotwise/models"

	"github.com/hibiken/asynq"
)

const TypeBookingReminder = "booking:reminder"

// ReminderTaskID is the asynq task id for a booking's reminder.
func ReminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload.BookingID)),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqReminderScheduler queues a reminder Lead before each booking starts.
type AsynqReminderScheduler struct {
	client enqueuer
	lead   time.Duration
	now    func() time.Time
}

func NewAsynqReminderScheduler(client *asynq.Client, lead time.Duration) *AsynqReminderScheduler {
	return newReminderScheduler(client, lead, time.Now)
}

func newReminderScheduler(client enqueuer, lead time.Duration, now func() time.Time) *AsynqReminderScheduler {
	if lead <= 0 {
		lead = time.Hour
	}
	return &AsynqReminderScheduler{client: client, lead: lead, now: now}
}

// ScheduleReminder enqueues the reminder unless its fire time has passed.
func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, booking *models.Booking) error {
	fireAt := booking.StartAt.Add(-s.lead)
	if fireAt.Before(s.now()) {
		return nil
	}
	task, opts, err := NewReminderTask(models.ReminderPayload{BookingID: booking.ID, StartAt: booking.StartAt}, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue reminder for %s: %w", booking.ID, err)
	}
	return nil
}
