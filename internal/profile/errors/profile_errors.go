package profileerrors

import (
	"net/http"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/apperror"
)

var (
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"profile not found",
		http.StatusNotFound,
	)
	ErrProfileAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"profile already exists for this user",
		http.StatusConflict,
	)
	ErrEmployeeCodeTaken = apperror.New(
		apperror.CodeConflict,
		"employee code is already in use",
		http.StatusConflict,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"email is already in use",
		http.StatusConflict,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrOwnRoleImmutable = apperror.New(
		apperror.CodeForbidden,
		"you cannot change your own role",
		http.StatusForbidden,
	)
)
