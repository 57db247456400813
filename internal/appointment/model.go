package appointment

import (
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal states accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// OccupiesSlot reports whether an appointment in this state blocks its slot.
func (s Status) OccupiesSlot() bool {
	return s != StatusCancelled
}

type ConsultationType string

const (
	ConsultationVideo ConsultationType = "video"
	ConsultationChat  ConsultationType = "chat"
	ConsultationPhone ConsultationType = "phone"
)

func (c ConsultationType) Valid() bool {
	switch c {
	case ConsultationVideo, ConsultationChat, ConsultationPhone:
		return true
	}
	return false
}

const DefaultDuration = 30

type Appointment struct {
	ID               string           `json:"id" yaml:"id"`
	PatientID        string           `json:"patient_id" yaml:"patient_id"`
	PatientName      string           `json:"patient_name" yaml:"patient_name"`
	DoctorID         string           `json:"doctor_id" yaml:"doctor_id"`
	DoctorName       string           `json:"doctor_name" yaml:"doctor_name"`
	Department       string           `json:"department,omitempty" yaml:"department,omitempty"`
	ConsultationType ConsultationType `json:"consultation_type" yaml:"consultation_type"`
	Date             string           `json:"date" yaml:"date"`
	Time             string           `json:"time" yaml:"time"`
	Status           Status           `json:"status" yaml:"status"`
	Notes            string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Duration         int              `json:"duration" yaml:"duration"`
	CreatedAt        time.Time        `json:"created_at" yaml:"-"`
	UpdatedAt        time.Time        `json:"updated_at" yaml:"-"`
}

// BookingRequest carries the caller supplied fields of a new appointment.
type BookingRequest struct {
	PatientID        string           `json:"patient_id"`
	PatientName      string           `json:"patient_name"`
	DoctorID         string           `json:"doctor_id"`
	DoctorName       string           `json:"doctor_name"`
	Department       string           `json:"department,omitempty"`
	ConsultationType ConsultationType `json:"consultation_type,omitempty"`
	Date             string           `json:"date"`
	Time             string           `json:"time"`
	Notes            string           `json:"notes,omitempty"`
	Duration         int              `json:"duration,omitempty"`
}

// Filter narrows ListAppointments. Zero fields are ignored.
type Filter struct {
	DoctorID  string
	PatientID string
	Date      time.Time
	FromDate  time.Time
	Status    Status
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *string
	Payload       []byte
	CreatedAt     time.Time
}
