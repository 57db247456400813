package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/apperr"
	"github.com/hackgods/rural-care-scheduling/internal/lock"
)

const (
	EventAppointmentBooked        = "APPOINTMENT_BOOKED"
	EventAppointmentStatusChanged = "APPOINTMENT_STATUS_CHANGED"
)

var (
	ErrSlotBeingBooked         = apperr.Conflict("slot is currently being booked, please retry")
	ErrInvalidStatusTransition = apperr.Conflict("invalid status transition")
)

type Option func(*Service)

// WithClock replaces time.Now when deciding what "today" is.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service is the appointment ledger.
type Service struct {
	repo   Repository
	locker lock.Locker
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewService(repo Repository, locker lock.Locker, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		locker: locker,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book validates the request and creates a scheduled appointment.
// The free-slot check and the insert run under the slot lock so two
// concurrent bookings of the same doctor, date and time cannot both succeed.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	appt, err := normalizeBooking(req)
	if err != nil {
		return nil, err
	}

	var created *Appointment
	key := lock.SlotKey{DoctorID: appt.DoctorID, Date: appt.Date, Time: appt.Time}

	err = apperr.Guard(s.log, "book", func() error {
		return s.locker.WithSlotLock(ctx, key, func(lockCtx context.Context) error {
			existing, err := s.repo.FindActiveForSlot(lockCtx, appt.DoctorID, appt.Date, appt.Time)
			if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
				return fmt.Errorf("check slot: %w", err)
			}
			if existing != nil {
				return ErrSlotAlreadyBooked
			}

			a, err := s.repo.CreateAppointment(lockCtx, appt)
			if err != nil {
				if errors.Is(err, ErrSlotAlreadyBooked) {
					return err
				}
				return fmt.Errorf("create appointment: %w", err)
			}
			created = a

			s.logEvent(lockCtx, a.ID, EventAppointmentBooked, map[string]any{
				"doctor_id":  a.DoctorID,
				"patient_id": a.PatientID,
				"date":       a.Date,
				"time":       a.Time,
			})
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"appointment_id": created.ID,
		"doctor_id":      created.DoctorID,
		"date":           created.Date,
		"time":           created.Time,
	}).Info("appointment booked")
	return created, nil
}

// UpdateStatus moves an appointment out of scheduled. Completed and
// cancelled are terminal.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, apperr.Invalid("update_status", "status must be scheduled, completed or cancelled", "status")
	}

	var updated *Appointment
	err := apperr.Guard(s.log, "update_status", func() error {
		appt, err := s.repo.GetAppointmentByID(ctx, id)
		if err != nil {
			return err
		}

		if appt.Status == status {
			updated = appt
			return nil
		}
		if appt.Status.Terminal() {
			return ErrInvalidStatusTransition
		}

		u, err := s.repo.UpdateAppointmentStatus(ctx, appt.ID, appt.Status, status)
		if err != nil {
			if errors.Is(err, ErrAppointmentNotFound) {
				// status changed underneath us
				return ErrInvalidStatusTransition
			}
			return fmt.Errorf("update appointment status: %w", err)
		}
		updated = u

		s.logEvent(ctx, u.ID, EventAppointmentStatusChanged, map[string]any{
			"from": appt.Status,
			"to":   status,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

// ListAll returns every appointment in chronological order.
func (s *Service) ListAll(ctx context.Context) ([]Appointment, error) {
	return s.list(ctx, Filter{})
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error) {
	return s.list(ctx, Filter{DoctorID: doctorID})
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	return s.list(ctx, Filter{PatientID: patientID})
}

// Upcoming lists scheduled appointments from today onwards.
func (s *Service) Upcoming(ctx context.Context) ([]Appointment, error) {
	return s.list(ctx, Filter{
		FromDate: civilDate(s.now()),
		Status:   StatusScheduled,
	})
}

// AvailableSlots returns the canonical slots of a day that no active
// appointment of the doctor occupies, in grid order.
func (s *Service) AvailableSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	if doctorID == "" {
		return nil, apperr.Invalid("available_slots", "doctor is required", "doctor_id")
	}
	day, err := ParseDate(date)
	if err != nil {
		return nil, apperr.Invalid("available_slots", "date must be YYYY-MM-DD", "date")
	}

	booked, err := s.repo.ListAppointments(ctx, Filter{DoctorID: doctorID, Date: day})
	if err != nil {
		return nil, fmt.Errorf("list doctor appointments: %w", err)
	}

	taken := make(map[string]struct{}, len(booked))
	for _, a := range booked {
		if a.Status.OccupiesSlot() {
			taken[a.Time] = struct{}{}
		}
	}

	free := make([]string, 0, len(canonicalSlots))
	for _, slot := range canonicalSlots {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free, nil
}

func (s *Service) list(ctx context.Context, f Filter) ([]Appointment, error) {
	list, err := s.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	sortChronologically(list)
	return list, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.WithError(err).WithField("event", eventType).Warn("failed to marshal event payload")
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event":          eventType,
			"appointment_id": appointmentID,
		}).Warn("failed to insert event log")
	}
}

// normalizeBooking checks required fields and canonicalises date and time.
func normalizeBooking(req BookingRequest) (Appointment, error) {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"patient_id", req.PatientID},
		{"patient_name", req.PatientName},
		{"doctor_id", req.DoctorID},
		{"doctor_name", req.DoctorName},
		{"date", req.Date},
		{"time", req.Time},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Appointment{}, apperr.Invalid("book", "missing required fields", missing...)
	}

	day, err := ParseDate(req.Date)
	if err != nil {
		return Appointment{}, apperr.Invalid("book", "date must be YYYY-MM-DD", "date")
	}
	minutes, err := ParseClock(req.Time)
	if err != nil {
		return Appointment{}, apperr.Invalid("book", "time must be HH:MM", "time")
	}

	ct := req.ConsultationType
	if ct == "" {
		ct = ConsultationVideo
	}
	if !ct.Valid() {
		return Appointment{}, apperr.Invalid("book", "consultation type must be video, chat or phone", "consultation_type")
	}

	duration := req.Duration
	if duration < 0 {
		return Appointment{}, apperr.Invalid("book", "duration must not be negative", "duration")
	}
	if duration == 0 {
		duration = DefaultDuration
	}

	return Appointment{
		PatientID:        req.PatientID,
		PatientName:      req.PatientName,
		DoctorID:         req.DoctorID,
		DoctorName:       req.DoctorName,
		Department:       req.Department,
		ConsultationType: ct,
		Date:             day.Format(DateLayout),
		Time:             formatClock(minutes),
		Status:           StatusScheduled,
		Notes:            req.Notes,
		Duration:         duration,
	}, nil
}
