package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/authz"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/events"
	profileerrors "github.com/anjal-tejani/dayflow-hr-hub/internal/profile/errors"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/apperror"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/counter"
)

//go:generate mockgen -source=profile_service.go -destination=mock/profile_service_mock.go -package=mock
type Service interface {
	GetMe(ctx context.Context, actor authz.Actor) (ProfileResponse, error)
	GetByID(ctx context.Context, id string) (ProfileResponse, error)
	GetAll(ctx context.Context) ([]ProfileResponse, error)
	UpdateSelf(ctx context.Context, actor authz.Actor, req UpdateSelfRequest) (ProfileResponse, error)
	AdminUpdate(ctx context.Context, actor authz.Actor, id string, req AdminUpdateRequest) (ProfileResponse, error)
	CreateFromSignup(ctx context.Context, ev events.UserSignedUpEvent) (ProfileResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("profile.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("profile.service")
	}
	return &service{db: db, repo: repo, counter: counterRepo, logger: l}
}

func (s *service) GetMe(ctx context.Context, actor authz.Actor) (ProfileResponse, error) {
	p, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		// A fresh signup may not have its profile row yet; surface NotFound
		// so the client can retry.
		return ProfileResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ProfileResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ProfileResponse{}, profileerrors.ErrInvalidUserID
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context) ([]ProfileResponse, error) {
	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(profiles), nil
}

func (s *service) UpdateSelf(ctx context.Context, actor authz.Actor, req UpdateSelfRequest) (ProfileResponse, error) {
	s.logger.Debug("update own profile requested", zap.String("user_id", actor.UserID))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update own profile begin tx failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, actor.UserID)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}

	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.PictureURL != nil {
		p.PictureURL = req.PictureURL
	}

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("update own profile persist failed", zap.Error(err))
		return ProfileResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return ProfileResponse{}, err
	}

	return mapToResponse(*p), nil
}

func (s *service) AdminUpdate(ctx context.Context, actor authz.Actor, id string, req AdminUpdateRequest) (ProfileResponse, error) {
	s.logger.Debug("admin update profile requested",
		zap.String("actor_id", actor.UserID),
		zap.String("target_id", id),
	)

	if !actor.IsAdmin() {
		return ProfileResponse{}, apperror.ErrForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return ProfileResponse{}, profileerrors.ErrInvalidUserID
	}

	var hireDate *time.Time
	if req.HireDate != nil && *req.HireDate != "" {
		d, err := time.Parse("2006-01-02", *req.HireDate)
		if err != nil {
			return ProfileResponse{}, profileerrors.ErrInvalidHireDate
		}
		hireDate = &d
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("admin update profile begin tx failed", zap.Error(err))
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		return ProfileResponse{}, mapRepositoryError(err)
	}

	// Admins manage other profiles; nobody rewrites their own role.
	if actor.UserID == id && p.Role != req.Role {
		return ProfileResponse{}, profileerrors.ErrOwnRoleImmutable
	}

	p.Role = req.Role
	p.FirstName = req.FirstName
	p.LastName = req.LastName
	p.Department = req.Department
	p.Position = req.Position
	p.HireDate = hireDate
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.PictureURL != nil {
		p.PictureURL = req.PictureURL
	}

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("admin update profile persist failed", zap.Error(err))
		return ProfileResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return ProfileResponse{}, err
	}
	s.logger.Info("admin update profile success",
		zap.String("target_id", id),
		zap.String("role", p.Role),
	)

	return mapToResponse(*p), nil
}

// CreateFromSignup is the second step of the signup workflow. It is
// idempotent: replays of the same signup event map the duplicate-key failure
// back to the existing row.
func (s *service) CreateFromSignup(ctx context.Context, ev events.UserSignedUpEvent) (ProfileResponse, error) {
	userID, err := uuid.Parse(ev.UserID)
	if err != nil {
		return ProfileResponse{}, profileerrors.ErrInvalidUserID
	}

	role := ev.Role
	if role != authz.RoleAdmin {
		role = authz.RoleEmployee
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ProfileResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	employeeCode := ev.EmployeeCode
	if employeeCode == "" {
		next, err := s.counter.GetNextValue(ctx, "employee_code")
		if err != nil {
			s.logger.Error("generate employee code failed", zap.Error(err))
			return ProfileResponse{}, err
		}
		employeeCode = fmt.Sprintf("EMP-%04d", next)
	}

	p := &Profile{
		ID:           userID,
		EmployeeCode: employeeCode,
		Email:        ev.Email,
		Role:         role,
		FirstName:    ev.FirstName,
		LastName:     ev.LastName,
	}

	if err := qtx.Create(ctx, p); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, profileerrors.ErrProfileAlreadyExists) {
			s.logger.Warn("profile already exists for signup event, skipping",
				zap.String("user_id", ev.UserID),
			)
			existing, findErr := s.repo.FindByID(ctx, ev.UserID)
			if findErr != nil {
				return ProfileResponse{}, mapRepositoryError(findErr)
			}
			return mapToResponse(*existing), nil
		}
		s.logger.Error("create profile from signup failed", zap.Error(err))
		return ProfileResponse{}, mapped
	}

	if err := tx.Commit(); err != nil {
		return ProfileResponse{}, err
	}
	s.logger.Info("profile created from signup",
		zap.String("user_id", ev.UserID),
		zap.String("employee_code", employeeCode),
	)

	return mapToResponse(*p), nil
}

func mapToResponse(p Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:           p.ID.String(),
		EmployeeCode: p.EmployeeCode,
		Email:        p.Email,
		Role:         p.Role,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Phone:        p.Phone,
		Address:      p.Address,
		Department:   p.Department,
		Position:     p.Position,
		PictureURL:   p.PictureURL,
	}
	if p.HireDate != nil {
		v := p.HireDate.Format("2006-01-02")
		resp.HireDate = &v
	}
	return resp
}

func mapToListResponse(profiles []Profile) []ProfileResponse {
	resp := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = mapToResponse(p)
	}
	return resp
}
