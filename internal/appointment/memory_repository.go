package appointment

import (
	"context"
	"strconv"
	"sync"
	"time"
)

const maxMemoryEvents = 1000

// MemoryRepository keeps the ledger in process. It is the default store
// when no Postgres DSN is configured.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*Appointment
	order  []string
	nextID int64
	events []EventLog
	now    func() time.Time
}

// NewMemoryRepository loads seed appointments and continues numbering
// after the highest numeric seed id. Dates and times are stored in
// canonical form; a seed that would double-book an active slot is dropped.
func NewMemoryRepository(seed []Appointment) *MemoryRepository {
	r := &MemoryRepository{
		byID:   make(map[string]*Appointment, len(seed)),
		nextID: 1,
		now:    time.Now,
	}
	for _, a := range seed {
		if _, dup := r.byID[a.ID]; dup {
			continue
		}
		c := a
		if d, err := CanonicalDate(c.Date); err == nil {
			c.Date = d
		}
		if t, err := CanonicalClock(c.Time); err == nil {
			c.Time = t
		}
		if c.Status.OccupiesSlot() && r.activeLocked(c.DoctorID, c.Date, c.Time) != nil {
			continue
		}
		r.byID[a.ID] = &c
		r.order = append(r.order, a.ID)
		if n := numericID(a.ID); n >= r.nextID {
			r.nextID = n + 1
		}
	}
	return r
}

func (r *MemoryRepository) GetAppointmentByID(_ context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	c := *a
	return &c, nil
}

func (r *MemoryRepository) ListAppointments(_ context.Context, f Filter) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0)
	for _, id := range r.order {
		a := r.byID[id]
		if !matches(*a, f) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *MemoryRepository) FindActiveForSlot(_ context.Context, doctorID, date, clock string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a := r.activeLocked(doctorID, date, clock); a != nil {
		c := *a
		return &c, nil
	}
	return nil, ErrAppointmentNotFound
}

func (r *MemoryRepository) CreateAppointment(_ context.Context, a Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Same guarantee the partial unique index gives the Postgres store.
	if a.Status.OccupiesSlot() && r.activeLocked(a.DoctorID, a.Date, a.Time) != nil {
		return nil, ErrSlotAlreadyBooked
	}

	now := r.now()
	a.ID = strconv.FormatInt(r.nextID, 10)
	a.CreatedAt = now
	a.UpdatedAt = now
	r.nextID++

	c := a
	r.byID[a.ID] = &c
	r.order = append(r.order, a.ID)
	return &a, nil
}

func (r *MemoryRepository) UpdateAppointmentStatus(_ context.Context, id string, from, to Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	a.UpdatedAt = r.now()

	c := *a
	return &c, nil
}

func (r *MemoryRepository) InsertEvent(_ context.Context, ev EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev.ID = int64(len(r.events)) + 1
	r.events = append(r.events, ev)
	if len(r.events) > maxMemoryEvents {
		r.events = r.events[len(r.events)-maxMemoryEvents:]
	}
	return nil
}

// Events returns the recorded event log, oldest first.
func (r *MemoryRepository) Events() []EventLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]EventLog, len(r.events))
	copy(out, r.events)
	return out
}

func (r *MemoryRepository) activeLocked(doctorID, date, clock string) *Appointment {
	for _, id := range r.order {
		a := r.byID[id]
		if a.DoctorID == doctorID && a.Date == date && a.Time == clock && a.Status.OccupiesSlot() {
			return a
		}
	}
	return nil
}

func matches(a Appointment, f Filter) bool {
	if f.DoctorID != "" && a.DoctorID != f.DoctorID {
		return false
	}
	if f.PatientID != "" && a.PatientID != f.PatientID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Date.IsZero() && f.FromDate.IsZero() {
		return true
	}

	d, err := ParseDate(a.Date)
	if err != nil {
		return false
	}
	if !f.Date.IsZero() && !d.Equal(f.Date) {
		return false
	}
	if !f.FromDate.IsZero() && d.Before(f.FromDate) {
		return false
	}
	return true
}
