package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/doctor"
	"github.com/hackgods/rural-care-scheduling/internal/patient"
)

func listPatientsHandler(dir *patient.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "" {
			writeJSON(w, http.StatusOK, dir.Search(q))
			return
		}
		writeJSON(w, http.StatusOK, dir.List())
	}
}

func getPatientHandler(dir *patient.Directory, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := dir.Get(chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func listEmergenciesHandler(q *patient.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, q.List())
	}
}

func getEmergencyHandler(q *patient.Queue, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := q.Get(chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// assignEmergencyHandler only accepts doctors that exist in the directory.
func assignEmergencyHandler(q *patient.Queue, doctors *doctor.Directory, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AssignDoctorRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if req.DoctorID != "" {
			if _, err := doctors.Get(req.DoctorID); err != nil {
				handleError(w, r, log, err)
				return
			}
		}

		id := chi.URLParam(r, "id")
		if err := q.AssignDoctor(id, req.DoctorID); err != nil {
			handleError(w, r, log, err)
			return
		}

		e, err := q.Get(id)
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func generateEmergencyHandler(q *patient.Queue, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := q.Generate()
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

func sweepEmergenciesHandler(q *patient.Queue, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := q.ResolveStale()
		if err != nil {
			handleError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, SweepResponse{Resolved: n})
	}
}
