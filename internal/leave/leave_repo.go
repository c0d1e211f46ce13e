package leave

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/ownership"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	FindAllByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	ApplyReview(ctx context.Context, l *LeaveRequest) (int64, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(ownership.Owned(userID)).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

// ApplyReview writes the decision and the reviewer stamp in one statement,
// guarded on the pending status. A concurrent second reviewer matches zero
// rows instead of overwriting the first decision.
func (r *repository) ApplyReview(ctx context.Context, l *LeaveRequest) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", l.ID).
		Where("status = ?", StatusPending).
		Updates(map[string]interface{}{
			"status":        l.Status,
			"admin_comment": l.AdminComment,
			"reviewed_by":   l.ReviewedBy,
			"reviewed_at":   l.ReviewedAt,
		})
	return res.RowsAffected, res.Error
}
