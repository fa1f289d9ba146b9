// Package service holds the engagement business rules: like toggles, batch
// like status, comment moderation and view counting.
package service

import (
	"errors"

	"brightpath/internal/models"
	"brightpath/internal/repository"

	"github.com/google/uuid"
)

const msgPermissionDenied = "You don't have permission to do that."

// toAppError maps repository failures onto service error kinds. notFound is the
// user-facing message for a missing or hidden target.
func toAppError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repository.ErrTargetNotFound):
		return models.NewNotFoundError(notFound, err)
	case errors.Is(err, repository.ErrPermissionDenied):
		return models.NewPermissionDeniedError(msgPermissionDenied, err)
	default:
		return models.NewInternalError(err)
	}
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, models.NewValidationError("Invalid " + what + " ID")
	}
	return id, nil
}

// outcome is the metric label for err: "ok" or the error code.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return models.KindOf(err).String()
}
