package attendance

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	attendanceerrors "github.com/anjal-tejani/dayflow-hr-hub/internal/attendance/errors"
)

// mapPersistenceError converts the unique-violation raised by the
// (user_id, work_date) index into the domain conflict error.
func mapPersistenceError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "uq_attendance_user_work_date" {
			return attendanceerrors.ErrAlreadyCheckedIn
		}
	}
	return err
}
