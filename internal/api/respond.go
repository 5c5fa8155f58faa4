package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vetdesk/clinic-scheduling/internal/appointment"
	"github.com/vetdesk/clinic-scheduling/internal/clinic"
	"github.com/vetdesk/clinic-scheduling/internal/integration"
	"github.com/vetdesk/clinic-scheduling/internal/schedule"
)

type ErrorResponse struct {
	Error         string `json:"error"`
	Details       string `json:"details,omitempty"`
	ConflictingID string `json:"conflicting_appointment_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// handleDomainError maps the typed failures of the services onto HTTP
// status signaling. Validation rejections are 400, conflicts 409,
// missing references 404.
func handleDomainError(w http.ResponseWriter, err error) {
	var conflict *schedule.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:         "slot_conflict",
			Details:       conflict.Error(),
			ConflictingID: conflict.ConflictingID.String(),
		})
		return
	}

	switch {
	case errors.Is(err, clinic.ErrClinicNotFound):
		writeError(w, http.StatusNotFound, "clinic_not_found", err.Error())
	case errors.Is(err, clinic.ErrVetNotFound):
		writeError(w, http.StatusNotFound, "vet_not_found", err.Error())
	case errors.Is(err, clinic.ErrHoursNotFound):
		writeError(w, http.StatusNotFound, "hours_not_found", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, integration.ErrIntegrationNotFound):
		writeError(w, http.StatusNotFound, "integration_not_found", err.Error())

	case errors.Is(err, schedule.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, "invalid_window", err.Error())
	case errors.Is(err, schedule.ErrCrossDayWindow):
		writeError(w, http.StatusBadRequest, "cross_day_window", err.Error())
	case errors.Is(err, schedule.ErrClosedDay):
		writeError(w, http.StatusBadRequest, "closed_day", err.Error())
	case errors.Is(err, schedule.ErrOutsideHours):
		writeError(w, http.StatusBadRequest, "outside_hours", err.Error())
	case errors.Is(err, schedule.ErrSlotConflict):
		writeError(w, http.StatusConflict, "slot_conflict", err.Error())

	case errors.Is(err, appointment.ErrPractitionerBusy):
		writeError(w, http.StatusConflict, "practitioner_busy", err.Error())
	case errors.Is(err, appointment.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())

	case errors.Is(err, clinic.ErrDuplicateClinicName):
		writeError(w, http.StatusBadRequest, "duplicate_clinic_name", err.Error())
	case errors.Is(err, clinic.ErrDuplicateVetEmail):
		writeError(w, http.StatusBadRequest, "duplicate_vet_email", err.Error())
	case errors.Is(err, clinic.ErrDuplicateWeekday):
		writeError(w, http.StatusBadRequest, "duplicate_weekday", err.Error())
	case errors.Is(err, clinic.ErrInvalidWeekday):
		writeError(w, http.StatusBadRequest, "invalid_weekday", err.Error())
	case errors.Is(err, clinic.ErrInvalidHoursWindow):
		writeError(w, http.StatusBadRequest, "invalid_hours_window", err.Error())
	case errors.Is(err, schedule.ErrInvalidTimeOfDay):
		writeError(w, http.StatusBadRequest, "invalid_time_of_day", err.Error())

	case errors.Is(err, integration.ErrDuplicateServiceType):
		writeError(w, http.StatusBadRequest, "duplicate_service_type", err.Error())
	case errors.Is(err, integration.ErrUnsupportedServiceType):
		writeError(w, http.StatusBadRequest, "unsupported_service_type", err.Error())
	case errors.Is(err, integration.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "invalid_credentials", err.Error())

	default:
		log.Error().Err(err).Msg("unhandled service error")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
