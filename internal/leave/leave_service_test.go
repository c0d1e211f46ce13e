package leave_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/authz"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/events"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/leave"
	leaveerrors "github.com/anjal-tejani/dayflow-hr-hub/internal/leave/errors"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/messaging/kafka"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/apperror"
)

type fakeLeaveRepository struct {
	withTxFn        func(tx *sql.Tx) leave.Repository
	createFn        func(ctx context.Context, l *leave.LeaveRequest) error
	findAllFn       func(ctx context.Context) ([]leave.LeaveRequest, error)
	findAllByUserFn func(ctx context.Context, userID string) ([]leave.LeaveRequest, error)
	findByIDFn      func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	applyReviewFn   func(ctx context.Context, l *leave.LeaveRequest) (int64, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) ApplyReview(ctx context.Context, l *leave.LeaveRequest) (int64, error) {
	if f.applyReviewFn != nil {
		return f.applyReviewFn(ctx, l)
	}
	return 1, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id, reason string) error { return nil }

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	outbox  *fakeOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	outbox := &fakeOutboxRepository{}
	svc := leave.NewServiceWithOutbox(db, repo, outbox)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	employee := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleEmployee}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			LeaveType: "paid",
			StartDate: futureDate(7),
			EndDate:   futureDate(9),
			Remarks:   "Family event",
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, uuid.MustParse(employee.UserID), l.UserID)
			assert.Equal(t, "paid", l.LeaveType)
			assert.Equal(t, leave.StatusPending, l.Status)
			return nil
		}

		resp, err := deps.service.Submit(ctx, employee, req)

		assert.NoError(t, err)
		assert.Equal(t, employee.UserID, resp.UserID)
		assert.Equal(t, "paid", resp.LeaveType)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Nil(t, resp.ReviewedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveType: "sick",
			StartDate: futureDate(9),
			EndDate:   futureDate(7),
		}

		_, err := deps.service.Submit(ctx, employee, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative start in past", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveType: "unpaid",
			StartDate: futureDate(-1),
			EndDate:   futureDate(2),
		}

		_, err := deps.service.Submit(ctx, employee, req)

		assert.ErrorIs(t, err, leaveerrors.ErrStartDateInPast)
	})

	t.Run("single day leave allowed", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			LeaveType: "sick",
			StartDate: futureDate(3),
			EndDate:   futureDate(3),
		}

		resp, err := deps.service.Submit(ctx, employee, req)

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid date format", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveType: "paid",
			StartDate: "03/01/2026",
			EndDate:   futureDate(5),
		}

		_, err := deps.service.Submit(ctx, employee, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("employee sees only own requests", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		employee := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleEmployee}
		deps.repo.findAllByUserFn = func(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
			assert.Equal(t, employee.UserID, userID)
			return []leave.LeaveRequest{
				{
					ID:        uuid.New(),
					UserID:    uuid.MustParse(employee.UserID),
					LeaveType: "sick",
					StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
					EndDate:   time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
					Status:    leave.StatusPending,
				},
			}, nil
		}
		deps.repo.findAllFn = func(ctx context.Context) ([]leave.LeaveRequest, error) {
			t.Fatal("employee must not list all requests")
			return nil, nil
		}

		resp, err := deps.service.GetAll(ctx, employee)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, 2, resp[0].TotalDays)
	})

	t.Run("admin sees all requests", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		admin := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleAdmin}
		deps.repo.findAllFn = func(ctx context.Context) ([]leave.LeaveRequest, error) {
			return []leave.LeaveRequest{
				{ID: uuid.New(), UserID: uuid.New(), Status: leave.StatusApproved},
				{ID: uuid.New(), UserID: uuid.New(), Status: leave.StatusPending},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, admin)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		employee := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleEmployee}
		deps.repo.findAllByUserFn = func(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
			return nil, errors.New("db error")
		}

		resp, err := deps.service.GetAll(ctx, employee)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can read own request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		owner := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleEmployee}
		id := uuid.New().String()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			assert.Equal(t, id, targetID)
			return &leave.LeaveRequest{
				ID:     uuid.MustParse(targetID),
				UserID: uuid.MustParse(owner.UserID),
				Status: leave.StatusPending,
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, owner, id)

		assert.NoError(t, err)
		assert.Equal(t, owner.UserID, resp.UserID)
	})

	t.Run("negative other employee forbidden", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		stranger := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleEmployee}
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{
				ID:     uuid.MustParse(targetID),
				UserID: uuid.New(),
				Status: leave.StatusPending,
			}, nil
		}

		_, err := deps.service.GetByID(ctx, stranger, uuid.New().String())

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("admin can read any request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		admin := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleAdmin}
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{
				ID:     uuid.MustParse(targetID),
				UserID: uuid.New(),
				Status: leave.StatusApproved,
			}, nil
		}

		_, err := deps.service.GetByID(ctx, admin, uuid.New().String())

		assert.NoError(t, err)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		admin := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleAdmin}
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByID(ctx, admin, uuid.New().String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Review(t *testing.T) {
	ctx := context.Background()
	admin := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleAdmin}

	pendingRequest := func(id string) *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:        uuid.MustParse(id),
			UserID:    uuid.New(),
			LeaveType: "paid",
			StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
			Status:    leave.StatusPending,
		}
	}

	t.Run("approve success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		id := uuid.New().String()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return pendingRequest(targetID), nil
		}
		deps.repo.applyReviewFn = func(ctx context.Context, l *leave.LeaveRequest) (int64, error) {
			assert.Equal(t, leave.StatusApproved, l.Status)
			assert.Equal(t, admin.UserID, l.ReviewedBy.String())
			assert.NotNil(t, l.ReviewedAt)
			return 1, nil
		}

		comment := "Enjoy"
		resp, err := deps.service.Review(ctx, admin, id, leave.ReviewLeaveRequest{
			Decision: leave.DecisionApprove,
			Comment:  &comment,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NotNil(t, resp.AdminComment)
		assert.Equal(t, comment, *resp.AdminComment)
		assert.NotNil(t, resp.ReviewedBy)
		assert.Equal(t, admin.UserID, *resp.ReviewedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject success publishes event", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		id := uuid.New().String()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return pendingRequest(targetID), nil
		}

		comment := "Short staffed"
		resp, err := deps.service.Review(ctx, admin, id, leave.ReviewLeaveRequest{
			Decision: leave.DecisionReject,
			Comment:  &comment,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveLifecycleTopic, deps.outbox.created[0].Topic)

		var event events.LeaveReviewedEvent
		assert.NoError(t, json.Unmarshal(deps.outbox.created[0].Payload, &event))
		assert.Equal(t, id, event.LeaveRequestID)
		assert.Equal(t, leave.StatusRejected, event.Status)
		assert.Equal(t, admin.UserID, event.ReviewerID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-admin forbidden", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		employee := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleEmployee}
		_, err := deps.service.Review(ctx, employee, uuid.New().String(), leave.ReviewLeaveRequest{
			Decision: leave.DecisionApprove,
		})

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("negative already reviewed", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			l := pendingRequest(targetID)
			l.Status = leave.StatusApproved
			return l, nil
		}

		_, err := deps.service.Review(ctx, admin, uuid.New().String(), leave.ReviewLeaveRequest{
			Decision: leave.DecisionReject,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative concurrent reviewer loses", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return pendingRequest(targetID), nil
		}
		deps.repo.applyReviewFn = func(ctx context.Context, l *leave.LeaveRequest) (int64, error) {
			// Status guard matched zero rows: another admin won the race.
			return 0, nil
		}

		_, err := deps.service.Review(ctx, admin, uuid.New().String(), leave.ReviewLeaveRequest{
			Decision: leave.DecisionApprove,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
