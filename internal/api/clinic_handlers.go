package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/vetdesk/clinic-scheduling/internal/clinic"
)

// Clinics

func createClinicHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateClinicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		created, err := svc.CreateClinic(r.Context(), clinic.CreateClinicInput{
			Name:     req.Name,
			Address:  req.Address,
			Settings: req.Settings,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toClinicResponse(*created))
	}
}

func listClinicsHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinics, err := svc.ListClinics(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}

		resp := make([]ClinicResponse, 0, len(clinics))
		for _, c := range clinics {
			resp = append(resp, toClinicResponse(c))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func getClinicHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "clinicID")
		if !ok {
			return
		}

		c, err := svc.GetClinic(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toClinicResponse(*c))
	}
}

func updateClinicHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "clinicID")
		if !ok {
			return
		}

		var req UpdateClinicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		updated, err := svc.UpdateClinic(r.Context(), id, clinic.UpdateClinicInput{
			Name:     req.Name,
			Address:  req.Address,
			Settings: req.Settings,
			Active:   req.Active,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toClinicResponse(*updated))
	}
}

func deactivateClinicHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "clinicID")
		if !ok {
			return
		}

		deactivated, err := svc.DeactivateClinic(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toClinicResponse(*deactivated))
	}
}

// Vets

func createVetHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateVetRequest
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

		created, err := svc.CreateVet(r.Context(), clinic.CreateVetInput{
			ClinicID:  clinicID,
			Name:      req.Name,
			Email:     req.Email,
			Specialty: req.Specialty,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toVetResponse(*created))
	}
}

func getVetHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "vetID")
		if !ok {
			return
		}

		v, err := svc.GetVet(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toVetResponse(*v))
	}
}

func listClinicVetsHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID, ok := parseIDParam(w, r, "clinicID")
		if !ok {
			return
		}

		vets, err := svc.ListVetsByClinic(r.Context(), clinicID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		resp := make([]VetResponse, 0, len(vets))
		for _, v := range vets {
			resp = append(resp, toVetResponse(v))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func updateVetHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "vetID")
		if !ok {
			return
		}

		var req UpdateVetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		updated, err := svc.UpdateVet(r.Context(), id, clinic.UpdateVetInput{
			Name:      req.Name,
			Email:     req.Email,
			Specialty: req.Specialty,
			Active:    req.Active,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toVetResponse(*updated))
	}
}

func deactivateVetHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "vetID")
		if !ok {
			return
		}

		deactivated, err := svc.DeactivateVet(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toVetResponse(*deactivated))
	}
}

// Operating hours

func createHoursHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID, ok := parseIDParam(w, r, "clinicID")
		if !ok {
			return
		}

		var req HoursRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		created, err := svc.CreateHours(r.Context(), clinicID, clinic.HoursInput{
			Weekday:  req.Weekday,
			OpensAt:  req.OpensAt,
			ClosesAt: req.ClosesAt,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toHoursResponse(*created))
	}
}

func listHoursHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID, ok := parseIDParam(w, r, "clinicID")
		if !ok {
			return
		}

		hours, err := svc.ListHours(r.Context(), clinicID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		resp := make([]HoursResponse, 0, len(hours))
		for _, h := range hours {
			resp = append(resp, toHoursResponse(h))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func updateHoursHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "hoursID")
		if !ok {
			return
		}

		var req UpdateHoursRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		updated, err := svc.UpdateHours(r.Context(), id, clinic.UpdateHoursInput{
			Weekday:  req.Weekday,
			OpensAt:  req.OpensAt,
			ClosesAt: req.ClosesAt,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toHoursResponse(*updated))
	}
}

func deleteHoursHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "hoursID")
		if !ok {
			return
		}

		if err := svc.DeleteHours(r.Context(), id); err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "operating hours removed"})
	}
}
