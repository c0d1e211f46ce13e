package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/authz"
	payrollerrors "github.com/anjal-tejani/dayflow-hr-hub/internal/payroll/errors"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/apperror"
)

const SalaryCacheKeyPrefix = "payroll:salary:"

func GetSalaryCacheKey(userID string) string {
	return SalaryCacheKeyPrefix + userID
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Upsert(ctx context.Context, actor authz.Actor, userID string, req UpsertSalaryRequest) (SalaryResponse, error)
	View(ctx context.Context, actor authz.Actor, userID string) (*SalaryResponse, error)
	Payslip(ctx context.Context, actor authz.Actor, userID string) ([]byte, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		now:    time.Now,
		logger: l,
	}
}

func (s *service) Upsert(ctx context.Context, actor authz.Actor, userID string, req UpsertSalaryRequest) (SalaryResponse, error) {
	s.logger.Debug("upsert salary requested",
		zap.String("actor_id", actor.UserID),
		zap.String("user_id", userID),
	)

	if !actor.IsAdmin() {
		return SalaryResponse{}, apperror.ErrForbidden
	}
	targetID, err := uuid.Parse(userID)
	if err != nil {
		return SalaryResponse{}, payrollerrors.ErrInvalidUserID
	}
	actorID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return SalaryResponse{}, payrollerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("upsert salary begin tx failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	structure := &SalaryStructure{
		ID:                 uuid.New(),
		UserID:             targetID,
		BasicSalary:        req.BasicSalary,
		HousingAllowance:   req.HousingAllowance,
		TransportAllowance: req.TransportAllowance,
		OtherAllowance:     req.OtherAllowance,
		TaxDeduction:       req.TaxDeduction,
		OtherDeduction:     req.OtherDeduction,
		NetSalary:          computeNetSalary(req),
		EffectiveDate:      s.now().UTC(),
		UpdatedBy:          actorID,
	}

	if err := qtx.Upsert(ctx, structure); err != nil {
		s.logger.Error("upsert salary persist failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("upsert salary commit failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, GetSalaryCacheKey(userID)).Err(); err != nil {
			s.logger.Warn("invalidate salary cache failed",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}
	s.logger.Info("upsert salary success",
		zap.String("user_id", userID),
		zap.String("updated_by", actor.UserID),
	)

	return mapToResponse(*structure), nil
}

// View returns nil without an error when no salary structure exists yet.
// That is the normal state for a new hire, not a failure.
func (s *service) View(ctx context.Context, actor authz.Actor, userID string) (*SalaryResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, payrollerrors.ErrInvalidUserID
	}
	if !actor.CanAccess(userID) {
		return nil, apperror.ErrForbidden
	}

	cacheKey := GetSalaryCacheKey(userID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp SalaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		structure, err := s.repo.FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return (*SalaryResponse)(nil), nil
			}
			return nil, err
		}

		resp := mapToResponse(*structure)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, payload, 1*time.Hour)
			}
		}

		return &resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*SalaryResponse), nil
}

func (s *service) Payslip(ctx context.Context, actor authz.Actor, userID string) ([]byte, error) {
	resp, err := s.View(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, payrollerrors.ErrSalaryNotConfigured
	}
	return buildPayslipPDF(*resp, s.now().UTC())
}

// computeNetSalary is the only place the net amount is derived. Client-sent
// totals are never trusted.
func computeNetSalary(req UpsertSalaryRequest) int64 {
	return req.BasicSalary +
		req.HousingAllowance +
		req.TransportAllowance +
		req.OtherAllowance -
		req.TaxDeduction -
		req.OtherDeduction
}

func mapToResponse(structure SalaryStructure) SalaryResponse {
	return SalaryResponse{
		ID:                 structure.ID.String(),
		UserID:             structure.UserID.String(),
		BasicSalary:        structure.BasicSalary,
		HousingAllowance:   structure.HousingAllowance,
		TransportAllowance: structure.TransportAllowance,
		OtherAllowance:     structure.OtherAllowance,
		TaxDeduction:       structure.TaxDeduction,
		OtherDeduction:     structure.OtherDeduction,
		NetSalary:          structure.NetSalary,
		EffectiveDate:      structure.EffectiveDate.Format(time.RFC3339),
		UpdatedBy:          structure.UpdatedBy.String(),
	}
}
