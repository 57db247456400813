package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/apperr"
	"github.com/hackgods/rural-care-scheduling/internal/appointment"
	"github.com/hackgods/rural-care-scheduling/internal/doctor"
	"github.com/hackgods/rural-care-scheduling/internal/patient"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string, fields ...string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details, Fields: fields})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return false
	}
	return true
}

// handleError maps domain errors onto HTTP responses. Anything
// unrecognised is logged and reported as a bare 500.
func handleError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		writeError(w, http.StatusBadRequest, "validation_failed", ve.Error(), ve.Fields...)
		return
	}

	switch {
	case errors.Is(err, appointment.ErrSlotAlreadyBooked):
		writeError(w, http.StatusConflict, "slot_already_booked", err.Error())
	case errors.Is(err, appointment.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, appointment.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, patient.ErrEmergencyResolved):
		writeError(w, http.StatusConflict, "emergency_resolved", err.Error())
	case errors.Is(err, patient.ErrNoPatients):
		writeError(w, http.StatusConflict, "no_patients", err.Error())
	case errors.Is(err, doctor.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, patient.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, patient.ErrEmergencyNotFound):
		writeError(w, http.StatusNotFound, "emergency_not_found", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": GetRequestID(r.Context()),
		}).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
