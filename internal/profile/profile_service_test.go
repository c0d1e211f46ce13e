package profile_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/authz"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/events"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/profile"
	profileerrors "github.com/anjal-tejani/dayflow-hr-hub/internal/profile/errors"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/apperror"
)

type fakeProfileRepository struct {
	createFn   func(ctx context.Context, p *profile.Profile) error
	findByIDFn func(ctx context.Context, id string) (*profile.Profile, error)
	findAllFn  func(ctx context.Context) ([]profile.Profile, error)
	updateFn   func(ctx context.Context, p *profile.Profile) error
}

func (f *fakeProfileRepository) WithTx(tx *sql.Tx) profile.Repository { return f }

func (f *fakeProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakeProfileRepository) FindByID(ctx context.Context, id string) (*profile.Profile, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepository) FindAll(ctx context.Context) ([]profile.Profile, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type profileServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service profile.Service
	repo    *fakeProfileRepository
	counter *fakeCounterRepository
}

func setupProfileServiceTest(t *testing.T) *profileServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeProfileRepository{}
	counterRepo := &fakeCounterRepository{}
	svc := profile.NewService(db, repo, counterRepo)

	return &profileServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		counter: counterRepo,
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

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func TestProfileService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()

		actor := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleEmployee}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*profile.Profile, error) {
			assert.Equal(t, actor.UserID, id)
			return &profile.Profile{
				ID:           uuid.MustParse(id),
				EmployeeCode: "EMP-0001",
				Email:        "jordan@dayflow.dev",
				Role:         authz.RoleEmployee,
				FirstName:    "Jordan",
				LastName:     "Reyes",
			}, nil
		}

		resp, err := deps.service.GetMe(ctx, actor)

		assert.NoError(t, err)
		assert.Equal(t, "EMP-0001", resp.EmployeeCode)
		assert.Equal(t, "jordan@dayflow.dev", resp.Email)
	})

	t.Run("negative profile row not created yet", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()

		actor := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleEmployee}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*profile.Profile, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetMe(ctx, actor)

		assert.ErrorIs(t, err, profileerrors.ErrProfileNotFound)
	})
}

func TestProfileService_UpdateSelf(t *testing.T) {
	ctx := context.Background()
	actor := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleEmployee}

	t.Run("success updates only contact fields", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		phone := "+15550100"
		existingRole := authz.RoleEmployee
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*profile.Profile, error) {
			return &profile.Profile{
				ID:        uuid.MustParse(id),
				Role:      existingRole,
				FirstName: "Jordan",
				LastName:  "Reyes",
			}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, p *profile.Profile) error {
			assert.Equal(t, &phone, p.Phone)
			assert.Equal(t, existingRole, p.Role)
			return nil
		}

		resp, err := deps.service.UpdateSelf(ctx, actor, profile.UpdateSelfRequest{Phone: &phone})

		assert.NoError(t, err)
		assert.Equal(t, &phone, resp.Phone)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestProfileService_AdminUpdate(t *testing.T) {
	ctx := context.Background()
	admin := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleAdmin}

	t.Run("success promotes employee to admin", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		targetID := uuid.New().String()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*profile.Profile, error) {
			return &profile.Profile{ID: uuid.MustParse(id), Role: authz.RoleEmployee}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, p *profile.Profile) error {
			assert.Equal(t, authz.RoleAdmin, p.Role)
			return nil
		}

		resp, err := deps.service.AdminUpdate(ctx, admin, targetID, profile.AdminUpdateRequest{
			Role:      authz.RoleAdmin,
			FirstName: "Sam",
			LastName:  "Okafor",
		})

		assert.NoError(t, err)
		assert.Equal(t, authz.RoleAdmin, resp.Role)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-admin forbidden", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()

		employee := authz.Actor{UserID: uuid.New().String(), Role: authz.RoleEmployee}
		_, err := deps.service.AdminUpdate(ctx, employee, uuid.New().String(), profile.AdminUpdateRequest{
			Role: authz.RoleAdmin,
		})

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("negative admin cannot change own role", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*profile.Profile, error) {
			return &profile.Profile{ID: uuid.MustParse(id), Role: authz.RoleAdmin}, nil
		}

		_, err := deps.service.AdminUpdate(ctx, admin, admin.UserID, profile.AdminUpdateRequest{
			Role: authz.RoleEmployee,
		})

		assert.ErrorIs(t, err, profileerrors.ErrOwnRoleImmutable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestProfileService_CreateFromSignup(t *testing.T) {
	ctx := context.Background()

	signupEvent := func(userID string) events.UserSignedUpEvent {
		return events.UserSignedUpEvent{
			EventType: "user.signed_up",
			UserID:    userID,
			Email:     "sam@dayflow.dev",
			Role:      authz.RoleEmployee,
			FirstName: "Sam",
			LastName:  "Okafor",
		}
	}

	t.Run("success generates employee code", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		userID := uuid.New().String()
		deps.repo.createFn = func(ctx context.Context, p *profile.Profile) error {
			assert.Equal(t, uuid.MustParse(userID), p.ID)
			assert.Equal(t, "EMP-0001", p.EmployeeCode)
			assert.Equal(t, authz.RoleEmployee, p.Role)
			return nil
		}

		resp, err := deps.service.CreateFromSignup(ctx, signupEvent(userID))

		assert.NoError(t, err)
		assert.Equal(t, "EMP-0001", resp.EmployeeCode)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("replayed event returns existing profile", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		userID := uuid.New().String()
		deps.repo.createFn = func(ctx context.Context, p *profile.Profile) error {
			return uniqueViolation("profiles_pkey")
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*profile.Profile, error) {
			return &profile.Profile{
				ID:           uuid.MustParse(id),
				EmployeeCode: "EMP-0042",
				Role:         authz.RoleEmployee,
			}, nil
		}

		resp, err := deps.service.CreateFromSignup(ctx, signupEvent(userID))

		assert.NoError(t, err)
		assert.Equal(t, "EMP-0042", resp.EmployeeCode)
	})

	t.Run("unknown role falls back to employee", func(t *testing.T) {
		deps := setupProfileServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		ev := signupEvent(uuid.New().String())
		ev.Role = "superuser"

		deps.repo.createFn = func(ctx context.Context, p *profile.Profile) error {
			assert.Equal(t, authz.RoleEmployee, p.Role)
			return nil
		}

		_, err := deps.service.CreateFromSignup(ctx, ev)

		assert.NoError(t, err)
	})
}
