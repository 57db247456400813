package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/appointment"
	"github.com/hackgods/rural-care-scheduling/internal/doctor"
)

func listDoctorsHandler(dir *doctor.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dir.ListByDepartment(r.URL.Query().Get("department")))
	}
}

func availableDoctorsHandler(dir *doctor.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dir.ListAvailable())
	}
}

func doctorStatsHandler(dir *doctor.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dir.Stats())
	}
}

func departmentsHandler(dir *doctor.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dir.Departments())
	}
}

func getDoctorHandler(dir *doctor.Directory, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := dir.Get(chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func setAvailabilityHandler(dir *doctor.Directory, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AvailabilityRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		id := chi.URLParam(r, "id")
		if err := dir.SetAvailability(id, req.Availability); err != nil {
			handleError(w, r, log, err)
			return
		}

		doc, err := dir.Get(id)
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func doctorSlotsHandler(dir *doctor.Directory, svc *appointment.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := dir.Get(id); err != nil {
			handleError(w, r, log, err)
			return
		}

		date := r.URL.Query().Get("date")
		slots, err := svc.AvailableSlots(r.Context(), id, date)
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, SlotsResponse{DoctorID: id, Date: date, Slots: slots})
	}
}
