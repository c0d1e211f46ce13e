package profile

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	profileerrors "github.com/anjal-tejani/dayflow-hr-hub/internal/profile/errors"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return profileerrors.ErrProfileNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "profiles_pkey":
				return profileerrors.ErrProfileAlreadyExists
			case "uq_profiles_employee_code":
				return profileerrors.ErrEmployeeCodeTaken
			case "uq_profiles_email":
				return profileerrors.ErrEmailTaken
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "profiles_pkey") {
		return profileerrors.ErrProfileAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_profiles_employee_code") {
		return profileerrors.ErrEmployeeCodeTaken
	}

	return err
}
