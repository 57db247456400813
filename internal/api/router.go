package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/appointment"
	"github.com/hackgods/rural-care-scheduling/internal/doctor"
	"github.com/hackgods/rural-care-scheduling/internal/patient"
)

type RouterConfig struct {
	Doctors      *doctor.Directory
	Patients     *patient.Directory
	Emergencies  *patient.Queue
	Appointments *appointment.Service
	Dependencies []Dependency
	Log          logrus.FieldLogger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Log
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(log))

	health := NewHealthHandler(cfg.Dependencies, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/doctors", func(r chi.Router) {
		r.Get("/", listDoctorsHandler(cfg.Doctors))
		r.Get("/available", availableDoctorsHandler(cfg.Doctors))
		r.Get("/stats", doctorStatsHandler(cfg.Doctors))
		r.Get("/departments", departmentsHandler(cfg.Doctors))
		r.Get("/{id}", getDoctorHandler(cfg.Doctors, log))
		r.Put("/{id}/availability", setAvailabilityHandler(cfg.Doctors, log))
		r.Get("/{id}/slots", doctorSlotsHandler(cfg.Doctors, cfg.Appointments, log))
	})

	r.Route("/patients", func(r chi.Router) {
		r.Get("/", listPatientsHandler(cfg.Patients))
		r.Get("/{id}", getPatientHandler(cfg.Patients, log))
	})

	r.Route("/emergencies", func(r chi.Router) {
		r.Get("/", listEmergenciesHandler(cfg.Emergencies))
		r.Post("/generate", generateEmergencyHandler(cfg.Emergencies, log))
		r.Post("/sweep", sweepEmergenciesHandler(cfg.Emergencies, log))
		r.Get("/{id}", getEmergencyHandler(cfg.Emergencies, log))
		r.Post("/{id}/assign", assignEmergencyHandler(cfg.Emergencies, cfg.Doctors, log))
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", createAppointmentHandler(cfg.Appointments, cfg.Doctors, cfg.Patients, log))
		r.Get("/", listAppointmentsHandler(cfg.Appointments, log))
		r.Get("/upcoming", upcomingAppointmentsHandler(cfg.Appointments, log))
		r.Get("/{id}", getAppointmentHandler(cfg.Appointments, log))
		r.Patch("/{id}/status", updateStatusHandler(cfg.Appointments, log))
	})

	return r
}
