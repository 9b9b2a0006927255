package services

import (
	"errors"
	"strings"

	apperrors "hisabu/internal/errors"
)

// translateDBError maps raw store errors onto the app error taxonomy.
// AppErrors pass through untouched; serialization/lock conflicts surface as
// CONCURRENT_UPDATE_CONFLICT so clients know the request is retryable.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "SQLSTATE 40001"), // postgres serialization failure
		strings.Contains(msg, "database is locked"), // sqlite busy
		strings.Contains(msg, "SQLITE_BUSY"):
		return apperrors.Wrap(apperrors.ErrConcurrentUpdateConflict, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
