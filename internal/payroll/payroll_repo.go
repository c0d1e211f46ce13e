package payroll

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/ownership"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, structure *SalaryStructure) error
	FindByUser(ctx context.Context, userID string) (*SalaryStructure, error)
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

// Upsert overwrites the whole structure on conflict, so an admin edit is a
// full replacement rather than a partial merge.
func (r *repository) Upsert(ctx context.Context, structure *SalaryStructure) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"basic_salary",
				"housing_allowance",
				"transport_allowance",
				"other_allowance",
				"tax_deduction",
				"other_deduction",
				"net_salary",
				"effective_date",
				"updated_by",
				"updated_at",
			}),
		}).
		Create(structure).Error
}

func (r *repository) FindByUser(ctx context.Context, userID string) (*SalaryStructure, error) {
	var structure SalaryStructure
	err := r.db.WithContext(ctx).
		Scopes(ownership.Owned(userID)).
		First(&structure).Error
	return &structure, err
}
