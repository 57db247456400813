package appointment

import (
	"context"

	"github.com/hackgods/rural-care-scheduling/internal/apperr"
)

var (
	ErrAppointmentNotFound = apperr.NotFound("appointment")
	ErrSlotAlreadyBooked   = apperr.Conflict("slot already has an active appointment")
)

// Repository contains all storage interactions needed by the service.
type Repository interface {
	GetAppointmentByID(ctx context.Context, id string) (*Appointment, error)
	ListAppointments(ctx context.Context, f Filter) ([]Appointment, error)

	// For conflict checks, returns ErrAppointmentNotFound when the slot is free
	FindActiveForSlot(ctx context.Context, doctorID, date, clock string) (*Appointment, error)

	// Creation assigns the next sequential id
	CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, from, to Status) (*Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
