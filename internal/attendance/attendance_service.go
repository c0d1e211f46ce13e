package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	attendanceerrors "github.com/anjal-tejani/dayflow-hr-hub/internal/attendance/errors"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/authz"
)

const (
	RangeThisWeek  = "this_week"
	RangeThisMonth = "this_month"
	RangeAllTime   = "all_time"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, actor authz.Actor) (AttendanceResponse, error)
	CheckOut(ctx context.Context, actor authz.Actor) (AttendanceResponse, error)
	GetAll(ctx context.Context, actor authz.Actor, rangeKey string) ([]AttendanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, now: time.Now, logger: l}
}

func (s *service) CheckIn(ctx context.Context, actor authz.Actor) (AttendanceResponse, error) {
	s.logger.Debug("check-in requested", zap.String("user_id", actor.UserID))

	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}

	now := s.now().UTC()
	workDate := dateOf(now)

	if _, err := s.repo.FindByUserAndDate(ctx, actor.UserID, workDate); err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	record := &AttendanceRecord{
		ID:          uuid.New(),
		UserID:      userID,
		WorkDate:    workDate,
		CheckInTime: now,
		Status:      StatusPresent,
	}

	// The unique index catches the race between the existence check and
	// the insert.
	if err := s.repo.Create(ctx, record); err != nil {
		mapped := mapPersistenceError(err)
		if !errors.Is(mapped, attendanceerrors.ErrAlreadyCheckedIn) {
			s.logger.Error("check-in persist failed", zap.Error(err))
		}
		return AttendanceResponse{}, mapped
	}
	s.logger.Info("check-in success",
		zap.String("user_id", actor.UserID),
		zap.String("work_date", workDate.Format("2006-01-02")),
	)

	return mapToResponse(*record), nil
}

func (s *service) CheckOut(ctx context.Context, actor authz.Actor) (AttendanceResponse, error) {
	s.logger.Debug("check-out requested", zap.String("user_id", actor.UserID))

	if _, err := uuid.Parse(actor.UserID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}

	now := s.now().UTC()

	record, err := s.repo.FindByUserAndDate(ctx, actor.UserID, dateOf(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoCheckInToday
		}
		return AttendanceResponse{}, err
	}
	if record.CheckOutTime != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	record.CheckOutTime = &now
	if err := s.repo.Update(ctx, record); err != nil {
		s.logger.Error("check-out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	s.logger.Info("check-out success",
		zap.String("user_id", actor.UserID),
		zap.String("work_date", record.WorkDate.Format("2006-01-02")),
	)

	return mapToResponse(*record), nil
}

func (s *service) GetAll(ctx context.Context, actor authz.Actor, rangeKey string) ([]AttendanceResponse, error) {
	from, to, err := s.resolveWindow(rangeKey)
	if err != nil {
		return nil, err
	}

	var records []AttendanceRecord
	if actor.IsAdmin() {
		records, err = s.repo.FindAll(ctx, from, to)
	} else {
		records, err = s.repo.FindAllByUser(ctx, actor.UserID, from, to)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]AttendanceResponse, len(records))
	for i, record := range records {
		resp[i] = mapToResponse(record)
	}
	return resp, nil
}

// resolveWindow turns a range keyword into an inclusive work_date window.
// Weeks start on Monday.
func (s *service) resolveWindow(rangeKey string) (*time.Time, *time.Time, error) {
	today := dateOf(s.now().UTC())

	switch rangeKey {
	case "", RangeAllTime:
		return nil, nil, nil
	case RangeThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		from := today.AddDate(0, 0, -offset)
		return &from, &today, nil
	case RangeThisMonth:
		from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return &from, &today, nil
	default:
		return nil, nil, attendanceerrors.ErrInvalidRange
	}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mapToResponse(record AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:            record.ID.String(),
		UserID:        record.UserID.String(),
		WorkDate:      record.WorkDate.Format("2006-01-02"),
		CheckInTime:   record.CheckInTime.Format(time.RFC3339),
		Status:        record.Status,
		DurationHours: "-",
	}
	if record.CheckOutTime != nil {
		v := record.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &v
		resp.DurationHours = fmt.Sprintf("%.2f", record.CheckOutTime.Sub(record.CheckInTime).Hours())
	}
	return resp
}
