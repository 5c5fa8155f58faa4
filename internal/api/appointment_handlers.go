package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/clinic-scheduling/internal/appointment"
)

func createAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		clinicID, err := uuid.Parse(req.ClinicID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
			return
		}

		vetID, err := uuid.Parse(req.VetID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_vet_id", "vet_id must be a valid UUID")
			return
		}

		detail, err := svc.Create(r.Context(), appointment.CreateInput{
			ClinicID:        clinicID,
			VetID:           vetID,
			ClientName:      req.ClientName,
			ClientPhone:     req.ClientPhone,
			PetName:         req.PetName,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			Status:          appointment.Status(req.Status),
			Origin:          req.Origin,
			ExternalEventID: req.ExternalEventID,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDetailResponse(detail))
	}
}

func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f appointment.ListFilters

		q := r.URL.Query()

		if v := q.Get("clinic_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
				return
			}
			f.ClinicID = &id
		}
		if v := q.Get("vet_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_vet_id", "vet_id must be a valid UUID")
				return
			}
			f.VetID = &id
		}
		if v := q.Get("from"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD")
				return
			}
			f.From = &t
		}
		if v := q.Get("to"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "to must be YYYY-MM-DD")
				return
			}
			end := t.AddDate(0, 0, 1)
			f.To = &end
		}
		if v := q.Get("status"); v != "" {
			status := appointment.Status(v)
			f.Status = &status
		}
		if v := q.Get("origin"); v != "" {
			f.Origin = &v
		}
		f.Limit = intQuery(q.Get("limit"), 0)
		f.Offset = intQuery(q.Get("offset"), 0)

		appts, total, err := svc.List(r.Context(), f)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		resp := AppointmentListResponse{
			Total:        total,
			Appointments: make([]AppointmentResponse, 0, len(appts)),
		}
		for _, a := range appts {
			resp.Appointments = append(resp.Appointments, toAppointmentResponse(a))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "appointmentID")
		if !ok {
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt))
	}
}

func updateAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "appointmentID")
		if !ok {
			return
		}

		var req UpdateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		in := appointment.UpdateInput{
			ClientName:      req.ClientName,
			ClientPhone:     req.ClientPhone,
			PetName:         req.PetName,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			Origin:          req.Origin,
			ExternalEventID: req.ExternalEventID,
		}
		if req.VetID != nil {
			vetID, err := uuid.Parse(*req.VetID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_vet_id", "vet_id must be a valid UUID")
				return
			}
			in.VetID = &vetID
		}
		if req.Status != nil {
			status := appointment.Status(*req.Status)
			in.Status = &status
		}

		appt, err := svc.Update(r.Context(), id, in)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt))
	}
}

func cancelAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "appointmentID")
		if !ok {
			return
		}

		appt, err := svc.Cancel(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt))
	}
}

// deleteAppointmentHandler is for admin data correction only; regular
// callers use the cancel route.
func deleteAppointmentHandler(svc *appointment.Service, adminKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if adminKey == "" || r.URL.Query().Get("admin_key") != adminKey {
			writeError(w, http.StatusForbidden, "forbidden", "physical delete requires a valid admin key")
			return
		}

		id, ok := parseIDParam(w, r, "appointmentID")
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "appointment permanently removed"})
	}
}

func availabilityHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vetIDStr := r.URL.Query().Get("vet_id")
		vetID, err := uuid.Parse(vetIDStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_vet_id", "vet_id must be a valid UUID")
			return
		}

		day, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		avail, err := svc.Availability(r.Context(), vetID, day)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		resp := AvailabilityResponse{
			VetID:  avail.VetID,
			Date:   avail.Date,
			Total:  avail.Total,
			Booked: make([]BookedWindowResponse, 0, len(avail.Booked)),
		}
		for _, b := range avail.Booked {
			resp.Booked = append(resp.Booked, BookedWindowResponse{
				StartTime: b.StartTime,
				EndTime:   b.EndTime,
				Status:    string(b.Status),
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
