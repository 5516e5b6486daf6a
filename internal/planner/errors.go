package planner

import (
	"errors"

	"github.com/draymaster/tripplanner/internal/apperrors"
)

// Stage identifies which step of the pipeline failed, for logging and
// for the HTTP layer's error-code mapping.
type Stage string

const (
	StageGeocode   Stage = "geocode"
	StageRoute     Stage = "route"
	StageSimulate  Stage = "simulate"
	StagePersist   Stage = "persist"
	StagePublish   Stage = "publish"
)

// Error wraps a pipeline failure with the stage it occurred in, so a
// caller can tell a geocoding failure apart from a routing-provider
// outage without parsing the message.
type Error struct {
	Stage Stage
	Cause error
}

func (e *Error) Error() string {
	return string(e.Stage) + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newStageError(stage Stage, cause error) *Error {
	return &Error{Stage: stage, Cause: cause}
}

// AsAppError converts a planner Error into the apperrors.AppError the
// HTTP layer renders, preserving the wrapped error's code where the
// cause already is one.
func AsAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var stageErr *Error
	if errors.As(err, &stageErr) {
		return apperrors.Wrap(stageErr.Cause, "PLANNER_ERROR", stageErr.Error())
	}

	return apperrors.InternalError("trip planning failed", err)
}
