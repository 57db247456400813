package api

import (
	"github.com/hackgods/rural-care-scheduling/internal/appointment"
	"github.com/hackgods/rural-care-scheduling/internal/doctor"
)

type AvailabilityRequest struct {
	Availability doctor.Availability `json:"availability"`
}

type AssignDoctorRequest struct {
	DoctorID string `json:"doctor_id"`
}

type StatusRequest struct {
	Status appointment.Status `json:"status"`
}

type SlotsResponse struct {
	DoctorID string   `json:"doctor_id"`
	Date     string   `json:"date"`
	Slots    []string `json:"slots"`
}

type SweepResponse struct {
	Resolved int `json:"resolved"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}
