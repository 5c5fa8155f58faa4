package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vetdesk/clinic-scheduling/internal/appointment"
	"github.com/vetdesk/clinic-scheduling/internal/clinic"
	"github.com/vetdesk/clinic-scheduling/internal/integration"
)

type RouterConfig struct {
	Appointments *appointment.Service
	Clinics      *clinic.Service
	Integrations *integration.Service
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Env          string
	Version      string
	AdminKey     string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Clinic endpoints
	r.Route("/clinics", func(r chi.Router) {
		r.Post("/", createClinicHandler(cfg.Clinics))
		r.Get("/", listClinicsHandler(cfg.Clinics))

		r.Route("/{clinicID}", func(r chi.Router) {
			r.Get("/", getClinicHandler(cfg.Clinics))
			r.Put("/", updateClinicHandler(cfg.Clinics))
			r.Delete("/", deactivateClinicHandler(cfg.Clinics))

			r.Get("/vets", listClinicVetsHandler(cfg.Clinics))

			r.Post("/hours", createHoursHandler(cfg.Clinics))
			r.Get("/hours", listHoursHandler(cfg.Clinics))
			r.Put("/hours/{hoursID}", updateHoursHandler(cfg.Clinics))
			r.Delete("/hours/{hoursID}", deleteHoursHandler(cfg.Clinics))
		})
	})

	// Vet endpoints
	r.Route("/vets", func(r chi.Router) {
		r.Post("/", createVetHandler(cfg.Clinics))
		r.Get("/{vetID}", getVetHandler(cfg.Clinics))
		r.Put("/{vetID}", updateVetHandler(cfg.Clinics))
		r.Delete("/{vetID}", deactivateVetHandler(cfg.Clinics))
	})

	// Integration endpoints
	r.Route("/integrations", func(r chi.Router) {
		r.Post("/", createIntegrationHandler(cfg.Integrations))
		r.Get("/", listIntegrationsHandler(cfg.Integrations))

		r.Route("/{integrationID}", func(r chi.Router) {
			r.Get("/", getIntegrationHandler(cfg.Integrations))
			r.Put("/", updateIntegrationHandler(cfg.Integrations))
			r.Patch("/activate", activateIntegrationHandler(cfg.Integrations))
			r.Delete("/", deleteIntegrationHandler(cfg.Integrations))
		})
	})

	// Appointment endpoints
	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", createAppointmentHandler(cfg.Appointments))
		r.Get("/", listAppointmentsHandler(cfg.Appointments))
		r.Get("/availability", availabilityHandler(cfg.Appointments))

		r.Route("/{appointmentID}", func(r chi.Router) {
			r.Get("/", getAppointmentHandler(cfg.Appointments))
			r.Put("/", updateAppointmentHandler(cfg.Appointments))
			r.Patch("/cancel", cancelAppointmentHandler(cfg.Appointments))
			r.Delete("/", deleteAppointmentHandler(cfg.Appointments, cfg.AdminKey))
		})
	})

	return r
}
