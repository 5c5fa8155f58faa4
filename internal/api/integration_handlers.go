package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/vetdesk/clinic-scheduling/internal/integration"
)

func createIntegrationHandler(svc *integration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateIntegrationRequest
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

		active := true
		if req.Active != nil {
			active = *req.Active
		}

		created, err := svc.Create(r.Context(), integration.CreateInput{
			ClinicID:    clinicID,
			ServiceType: integration.ServiceType(req.ServiceType),
			Credentials: req.Credentials,
			Active:      active,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toIntegrationResponse(*created))
	}
}

func listIntegrationsHandler(svc *integration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f integration.ListFilters

		q := r.URL.Query()

		if v := q.Get("clinic_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
				return
			}
			f.ClinicID = &id
		}
		if v := q.Get("service_type"); v != "" {
			st := integration.ServiceType(v)
			f.ServiceType = &st
		}
		if v := q.Get("active"); v != "" {
			active, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_active", "active must be a boolean")
				return
			}
			f.Active = &active
		}
		f.Limit = intQuery(q.Get("limit"), 0)
		f.Offset = intQuery(q.Get("offset"), 0)

		items, total, err := svc.List(r.Context(), f)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		resp := IntegrationListResponse{
			Total:        total,
			Integrations: make([]IntegrationResponse, 0, len(items)),
		}
		for _, i := range items {
			resp.Integrations = append(resp.Integrations, toIntegrationResponse(i))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func getIntegrationHandler(svc *integration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "integrationID")
		if !ok {
			return
		}

		i, err := svc.Get(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toIntegrationResponse(*i))
	}
}

func updateIntegrationHandler(svc *integration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "integrationID")
		if !ok {
			return
		}

		var req UpdateIntegrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
			return
		}

		var serviceType *integration.ServiceType
		if req.ServiceType != nil {
			st := integration.ServiceType(*req.ServiceType)
			serviceType = &st
		}

		updated, err := svc.Update(r.Context(), id, integration.UpdateInput{
			ServiceType: serviceType,
			Credentials: req.Credentials,
			Active:      req.Active,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toIntegrationResponse(*updated))
	}
}

func activateIntegrationHandler(svc *integration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "integrationID")
		if !ok {
			return
		}

		var req ActivateIntegrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Active == nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "active is required")
			return
		}

		toggled, err := svc.SetActive(r.Context(), id, *req.Active)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toIntegrationResponse(*toggled))
	}
}

func deleteIntegrationHandler(svc *integration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "integrationID")
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "integration removed"})
	}
}
