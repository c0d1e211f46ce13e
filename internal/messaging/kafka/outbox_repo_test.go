package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/messaging/kafka"
)

func pendingEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "leave_request",
		AggregateID:   uuid.New().String(),
		EventType:     "leave.reviewed",
		Topic:         "dayflow.leave.lifecycle.v1",
		Payload:       []byte(`{"status":"approved"}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success inserts within the caller's tx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := pendingEvent()
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO event_outbox").
			WithArgs(
				event.ID, event.RequestID, event.AggregateType,
				event.AggregateID, event.EventType, event.Topic,
				event.Payload, event.Status,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.BeginTx(ctx, nil)
		assert.NoError(t, err)

		repo := kafka.NewOutboxRepository(db)
		assert.NoError(t, repo.WithTx(tx).Create(ctx, event))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative rejects event without topic", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := pendingEvent()
		event.Topic = ""

		repo := kafka.NewOutboxRepository(db)
		assert.Error(t, repo.Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative rejects unknown status", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := pendingEvent()
		event.Status = "queued"

		repo := kafka.NewOutboxRepository(db)
		assert.Error(t, repo.Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_ListPending(t *testing.T) {
	ctx := context.Background()

	t.Run("returns deliverable rows oldest first", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{
			"id", "aggregate_type", "aggregate_id", "event_type",
			"topic", "payload", "status", "attempts", "deliver_after",
		}).AddRow(
			uuid.New().String(), "user", uuid.New().String(), "user.signed_up",
			"dayflow.user.signup.v1", []byte(`{}`), kafka.OutboxStatusPending, 0, now,
		).AddRow(
			uuid.New().String(), "leave_request", uuid.New().String(), "leave.reviewed",
			"dayflow.leave.lifecycle.v1", []byte(`{}`), kafka.OutboxStatusFailed, 2, now,
		)

		mock.ExpectQuery("FROM event_outbox").
			WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
			WillReturnRows(rows)

		repo := kafka.NewOutboxRepository(db)
		events, err := repo.ListPending(ctx, 50)

		assert.NoError(t, err)
		assert.Len(t, events, 2)
		assert.Equal(t, "user.signed_up", events[0].EventType)
		assert.Equal(t, 2, events[1].Attempts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("bumps attempts and schedules a capped retry", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		id := uuid.New().String()
		mock.ExpectExec("UPDATE event_outbox").
			WithArgs(id, kafka.OutboxStatusFailed, "broker unreachable", 8, "20s").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := kafka.NewOutboxRepository(db)
		assert.NoError(t, repo.MarkFailed(ctx, id, "broker unreachable"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
