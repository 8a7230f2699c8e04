package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"slotwise/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (r *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{ID: "x"}, nil
}

func TestScheduleReminder(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	q := &recordingEnqueuer{}
	s := newReminderScheduler(q, time.Hour, func() time.Time { return now })

	b := &models.Booking{ID: "b1", StartAt: now.Add(3 * time.Hour)}
	require.NoError(t, s.ScheduleReminder(context.Background(), b))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeBookingReminder, q.tasks[0].Type())

	var payload models.ReminderPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, "b1", payload.BookingID)
	assert.True(t, b.StartAt.Equal(payload.StartAt))
}

func TestScheduleReminder_SkipsPassedFireTime(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	q := &recordingEnqueuer{}
	s := newReminderScheduler(q, time.Hour, func() time.Time { return now })

	require.NoError(t, s.ScheduleReminder(context.Background(), &models.Booking{ID: "b1", StartAt: now.Add(30 * time.Minute)}))
	assert.Empty(t, q.tasks)
}

func TestScheduleReminder_Errors(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	b := &models.Booking{ID: "b1", StartAt: now.Add(3 * time.Hour)}

	dup := newReminderScheduler(&recordingEnqueuer{err: asynq.ErrTaskIDConflict}, time.Hour, func() time.Time { return now })
	assert.NoError(t, dup.ScheduleReminder(context.Background(), b))

	down := newReminderScheduler(&recordingEnqueuer{err: errors.New("redis down")}, time.Hour, func() time.Time { return now })
	assert.Error(t, down.ScheduleReminder(context.Background(), b))
}
