package ledgererrors

import (
	"net/http"

	"leaveline/internal/shared/apperror"
)

var (
	ErrDuplicateRequest = apperror.New(
		apperror.CodeConflict,
		"an identical leave request already exists",
		http.StatusConflict,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"leave balance is not sufficient for the requested period",
		http.StatusUnprocessableEntity,
	)
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type",
		http.StatusBadRequest,
	)
	ErrLedgerCorrupt = apperror.New(
		apperror.CodeServiceUnavailable,
		"leave ledger store is corrupt",
		http.StatusServiceUnavailable,
	)
	ErrLedgerUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"leave ledger store is unavailable",
		http.StatusServiceUnavailable,
	)
)
