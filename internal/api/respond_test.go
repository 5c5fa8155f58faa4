package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/clinic-scheduling/internal/appointment"
	"github.com/vetdesk/clinic-scheduling/internal/clinic"
	"github.com/vetdesk/clinic-scheduling/internal/integration"
	"github.com/vetdesk/clinic-scheduling/internal/schedule"
)

func TestHandleDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"clinic not found", clinic.ErrClinicNotFound, http.StatusNotFound, "clinic_not_found"},
		{"vet not found", clinic.ErrVetNotFound, http.StatusNotFound, "vet_not_found"},
		{"hours not found", clinic.ErrHoursNotFound, http.StatusNotFound, "hours_not_found"},
		{"appointment not found", appointment.ErrAppointmentNotFound, http.StatusNotFound, "appointment_not_found"},
		{"invalid window", schedule.ErrInvalidWindow, http.StatusBadRequest, "invalid_window"},
		{"cross day window", schedule.ErrCrossDayWindow, http.StatusBadRequest, "cross_day_window"},
		{"closed day", schedule.ErrClosedDay, http.StatusBadRequest, "closed_day"},
		{"outside hours", &schedule.OutsideHoursError{Opens: 480, Closes: 1080}, http.StatusBadRequest, "outside_hours"},
		{"practitioner busy", appointment.ErrPractitionerBusy, http.StatusConflict, "practitioner_busy"},
		{"invalid status", appointment.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
		{"duplicate clinic name", clinic.ErrDuplicateClinicName, http.StatusBadRequest, "duplicate_clinic_name"},
		{"duplicate vet email", clinic.ErrDuplicateVetEmail, http.StatusBadRequest, "duplicate_vet_email"},
		{"duplicate weekday", clinic.ErrDuplicateWeekday, http.StatusBadRequest, "duplicate_weekday"},
		{"invalid weekday", clinic.ErrInvalidWeekday, http.StatusBadRequest, "invalid_weekday"},
		{"invalid hours window", clinic.ErrInvalidHoursWindow, http.StatusBadRequest, "invalid_hours_window"},
		{"integration not found", integration.ErrIntegrationNotFound, http.StatusNotFound, "integration_not_found"},
		{"duplicate service type", integration.ErrDuplicateServiceType, http.StatusBadRequest, "duplicate_service_type"},
		{"unsupported service type", integration.ErrUnsupportedServiceType, http.StatusBadRequest, "unsupported_service_type"},
		{"invalid credentials", integration.ErrInvalidCredentials, http.StatusBadRequest, "invalid_credentials"},
		{"unknown error", errors.New("pg down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleDomainError(rec, tc.err)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantErr, body.Error)
		})
	}
}

func TestHandleDomainErrorConflictCarriesAppointmentID(t *testing.T) {
	conflictID := uuid.New()
	rec := httptest.NewRecorder()
	handleDomainError(rec, &schedule.ConflictError{ConflictingID: conflictID})

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "slot_conflict", body.Error)
	assert.Equal(t, conflictID.String(), body.ConflictingID)
}

func TestHandleDomainErrorUnwrapsWrappedSentinels(t *testing.T) {
	rec := httptest.NewRecorder()
	handleDomainError(rec, fmt.Errorf("create appointment: %w", schedule.ErrClosedDay))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "closed_day", body.Error)
}
