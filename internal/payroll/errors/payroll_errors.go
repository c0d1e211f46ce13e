package payrollerrors

import (
	"net/http"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrSalaryNotConfigured = apperror.New(
		apperror.CodeNotFound,
		"salary is not configured for this user",
		http.StatusNotFound,
	)
)
