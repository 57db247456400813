package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/appointment"
	"github.com/hackgods/rural-care-scheduling/internal/doctor"
	"github.com/hackgods/rural-care-scheduling/internal/patient"
)

// createAppointmentHandler books a consultation. Referenced doctors and
// patients must exist; the department defaults to the doctor's.
func createAppointmentHandler(svc *appointment.Service, doctors *doctor.Directory, patients *patient.Directory, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req appointment.BookingRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if req.DoctorID != "" {
			doc, err := doctors.Get(req.DoctorID)
			if err != nil {
				handleError(w, r, log, err)
				return
			}
			if req.Department == "" {
				req.Department = doc.Department
			}
		}
		if req.PatientID != "" {
			if _, err := patients.Get(req.PatientID); err != nil {
				handleError(w, r, log, err)
				return
			}
		}

		appt, err := svc.Book(r.Context(), req)
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, appt)
	}
}

func listAppointmentsHandler(svc *appointment.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID := r.URL.Query().Get("doctor_id")
		patientID := r.URL.Query().Get("patient_id")

		var (
			list []appointment.Appointment
			err  error
		)
		switch {
		case doctorID != "":
			list, err = svc.ListByDoctor(r.Context(), doctorID)
		case patientID != "":
			list, err = svc.ListByPatient(r.Context(), patientID)
		default:
			list, err = svc.ListAll(r.Context())
		}
		if err != nil {
			handleError(w, r, log, err)
			return
		}

		if doctorID != "" && patientID != "" {
			filtered := list[:0]
			for _, a := range list {
				if a.PatientID == patientID {
					filtered = append(filtered, a)
				}
			}
			list = filtered
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func upcomingAppointmentsHandler(svc *appointment.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Upcoming(r.Context())
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func getAppointmentHandler(svc *appointment.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func updateStatusHandler(svc *appointment.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		appt, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}
