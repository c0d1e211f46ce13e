package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/ownership"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *AttendanceRecord) error
	FindByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*AttendanceRecord, error)
	Update(ctx context.Context, record *AttendanceRecord) error
	FindAllByUser(ctx context.Context, userID string, from, to *time.Time) ([]AttendanceRecord, error)
	FindAll(ctx context.Context, from, to *time.Time) ([]AttendanceRecord, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, record *AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*AttendanceRecord, error) {
	var record AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(ownership.Owned(userID)).
		Where("work_date = ?", workDate.Format("2006-01-02")).
		First(&record).Error
	return &record, err
}

func (r *repository) Update(ctx context.Context, record *AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) FindAllByUser(ctx context.Context, userID string, from, to *time.Time) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	err := applyDateWindow(r.db.WithContext(ctx).Scopes(ownership.Owned(userID)), from, to).
		Order("work_date DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindAll(ctx context.Context, from, to *time.Time) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	err := applyDateWindow(r.db.WithContext(ctx), from, to).
		Order("work_date DESC").
		Find(&records).Error
	return records, err
}

func applyDateWindow(db *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		db = db.Where("work_date >= ?", from.Format("2006-01-02"))
	}
	if to != nil {
		db = db.Where("work_date <= ?", to.Format("2006-01-02"))
	}
	return db
}
