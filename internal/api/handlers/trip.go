package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/draymaster/tripplanner/internal/api/models"
	"github.com/draymaster/tripplanner/internal/apperrors"
	"github.com/draymaster/tripplanner/internal/domain"
	"github.com/draymaster/tripplanner/internal/logger"
	"github.com/draymaster/tripplanner/internal/planner"
	"github.com/draymaster/tripplanner/internal/validation"
)

// TripHandler exposes the trip-planning pipeline over HTTP.
type TripHandler struct {
	svc *planner.Service
	log *logger.Logger
}

// NewTripHandler constructs a TripHandler.
func NewTripHandler(svc *planner.Service, log *logger.Logger) *TripHandler {
	return &TripHandler{svc: svc, log: log}
}

// PlanTrip handles POST /api/plan-trip.
func (h *TripHandler) PlanTrip(c *gin.Context) {
	var req models.PlanTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	input := validation.TripInput{
		CurrentLocation: req.CurrentLocation,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		CycleUsedHours:  req.CycleUsedHours,
	}
	if err := validation.ValidateTripInput(input); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "VALIDATION_ERROR", Message: err.Error()},
		})
		return
	}

	record, err := h.svc.PlanTrip(c.Request.Context(), domain.TripInput{
		CurrentLocation: req.CurrentLocation,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		CycleUsedHours:  req.CycleUsedHours,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.FromRecord(record))
}

// GetTrip handles GET /api/trips/:id.
func (h *TripHandler) GetTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: "id must be a valid UUID"},
		})
		return
	}

	record, err := h.svc.GetTrip(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.FromRecord(record))
}

// renderError maps a pipeline error to an HTTP status and writes the
// structured error body.
func (h *TripHandler) renderError(c *gin.Context, err error) {
	appErr := planner.AsAppError(err)

	var stageErr *planner.Error
	status := http.StatusInternalServerError
	switch {
	case errors.Is(appErr, apperrors.ErrValidationFailed):
		status = http.StatusBadRequest
	case errors.As(err, &stageErr) && (stageErr.Stage == planner.StageGeocode || stageErr.Stage == planner.StageRoute):
		// Geocoding/routing failures during trip planning are reported as
		// an unprocessable request, not a gateway failure — the caller
		// supplied a location the upstream collaborators couldn't resolve.
		status = http.StatusUnprocessableEntity
	case errors.Is(appErr, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(appErr, apperrors.ErrExternalService):
		status = http.StatusUnprocessableEntity
	}

	h.log.WithError(appErr).Errorw("trip planning request failed", "code", appErr.Code)
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details},
	})
}
