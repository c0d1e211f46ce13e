package auth

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	autherrors "github.com/anjal-tejani/dayflow-hr-hub/internal/auth/errors"
)

func mapPersistenceError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "uq_users_email" {
			return autherrors.ErrEmailAlreadyRegistered
		}
	}
	return err
}
