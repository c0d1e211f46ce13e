package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/authz"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/events"
	leaveerrors "github.com/anjal-tejani/dayflow-hr-hub/internal/leave/errors"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/messaging/kafka"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/apperror"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/contextutil"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

const maxRemarksLength = 500

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor authz.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor authz.Actor) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error)
	Review(ctx context.Context, actor authz.Actor, id string, req ReviewLeaveRequest) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) Submit(ctx context.Context, actor authz.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("user_id", actor.UserID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	requesterID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	startDate, endDate, err := validateSubmitDates(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if len(req.Remarks) > maxRemarksLength {
		return LeaveResponse{}, leaveerrors.ErrRemarksTooLong
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l := &LeaveRequest{
		ID:        uuid.New(),
		UserID:    requesterID,
		LeaveType: req.LeaveType,
		StartDate: startDate,
		EndDate:   endDate,
		Remarks:   req.Remarks,
		Status:    StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", actor.UserID),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, actor authz.Actor) ([]LeaveResponse, error) {
	var (
		requests []LeaveRequest
		err      error
	)
	if actor.IsAdmin() {
		requests, err = s.repo.FindAll(ctx)
	} else {
		requests, err = s.repo.FindAllByUser(ctx, actor.UserID)
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !actor.CanAccess(l.UserID.String()) {
		return LeaveResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*l), nil
}

func (s *service) Review(ctx context.Context, actor authz.Actor, id string, req ReviewLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("review leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actor.UserID),
		zap.String("decision", req.Decision),
	)

	if !actor.IsAdmin() {
		return LeaveResponse{}, apperror.ErrForbidden
	}
	reviewerID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	targetStatus := StatusApproved
	if req.Decision == DecisionReject {
		targetStatus = StatusRejected
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("review leave invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	l.Status = targetStatus
	l.AdminComment = req.Comment
	l.ReviewedBy = &reviewerID
	l.ReviewedAt = &now

	affected, err := qtx.ApplyReview(ctx, l)
	if err != nil {
		s.logger.Error("review leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if affected == 0 {
		// Another admin won the race between our read and the guarded write.
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	if s.outbox != nil {
		if err := s.enqueueReviewedEvent(ctx, tx, l); err != nil {
			s.logger.Error("enqueue leave reviewed event failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review leave commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("review leave success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
		zap.String("reviewed_by", actor.UserID),
	)

	return mapToResponse(*l), nil
}

func (s *service) enqueueReviewedEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest) error {
	payload, err := json.Marshal(events.LeaveReviewedEvent{
		EventType:      "leave.reviewed",
		LeaveRequestID: l.ID.String(),
		UserID:         l.UserID.String(),
		ReviewerID:     l.ReviewedBy.String(),
		Status:         l.Status,
		OccurredAt:     *l.ReviewedAt,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     "leave.reviewed",
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func validateSubmitDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	if startDate.Before(today()) {
		return time.Time{}, time.Time{}, leaveerrors.ErrStartDateInPast
	}
	return startDate, endDate, nil
}

// today is the server's local calendar date at UTC midnight, matching the
// date-only representation parseDate produces.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	totalDays := int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
	resp := LeaveResponse{
		ID:           l.ID.String(),
		UserID:       l.UserID.String(),
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		TotalDays:    totalDays,
		Remarks:      l.Remarks,
		Status:       l.Status,
		AdminComment: l.AdminComment,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
