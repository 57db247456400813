package seed

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hackgods/rural-care-scheduling/internal/appointment"
	"github.com/hackgods/rural-care-scheduling/internal/doctor"
	"github.com/hackgods/rural-care-scheduling/internal/patient"
)

// Roster is the start-of-day state of the hospital: who works here,
// who is registered and what is already on the books.
type Roster struct {
	Doctors      []doctor.Doctor           `yaml:"doctors"`
	Patients     []patient.Patient         `yaml:"patients"`
	Emergencies  []patient.Emergency       `yaml:"emergencies"`
	Appointments []appointment.Appointment `yaml:"appointments"`
}

// LoadFile reads a YAML roster and validates it.
func LoadFile(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("read roster: %w", err)
	}

	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Roster{}, fmt.Errorf("parse roster %s: %w", path, err)
	}
	r.canonicalize()
	if err := r.Validate(); err != nil {
		return Roster{}, fmt.Errorf("roster %s: %w", path, err)
	}
	return r, nil
}

// canonicalize rewrites appointment dates and times into their stored
// form and fills the booking defaults. Unparseable values are left for
// Validate to report.
func (r *Roster) canonicalize() {
	for i := range r.Appointments {
		a := &r.Appointments[i]
		if d, err := appointment.CanonicalDate(a.Date); err == nil {
			a.Date = d
		}
		if t, err := appointment.CanonicalClock(a.Time); err == nil {
			a.Time = t
		}
		if a.ConsultationType == "" {
			a.ConsultationType = appointment.ConsultationVideo
		}
		if a.Duration == 0 {
			a.Duration = appointment.DefaultDuration
		}
	}
}

// WriteFile stores the roster as YAML.
func WriteFile(path string, r Roster) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write roster: %w", err)
	}
	return nil
}

func (r Roster) Validate() error {
	var errs []error

	for _, d := range r.Doctors {
		if d.ID == "" {
			errs = append(errs, errors.New("doctor without id"))
		}
		if !d.Availability.Valid() {
			errs = append(errs, fmt.Errorf("doctor %s: invalid availability %q", d.ID, d.Availability))
		}
		if d.MaxPatients > 0 && d.CurrentPatients > d.MaxPatients {
			errs = append(errs, fmt.Errorf("doctor %s: %d current patients exceeds max %d", d.ID, d.CurrentPatients, d.MaxPatients))
		}
	}

	for _, p := range r.Patients {
		if p.ID == "" {
			errs = append(errs, errors.New("patient without id"))
		}
	}

	for _, e := range r.Emergencies {
		if !e.Severity.Valid() {
			errs = append(errs, fmt.Errorf("emergency %s: invalid severity %q", e.ID, e.Severity))
		}
		if e.Status != "" && !e.Status.Valid() {
			errs = append(errs, fmt.Errorf("emergency %s: invalid status %q", e.ID, e.Status))
		}
	}

	booked := make(map[string]string)
	for _, a := range r.Appointments {
		date, dateErr := appointment.CanonicalDate(a.Date)
		if dateErr != nil {
			errs = append(errs, fmt.Errorf("appointment %s: invalid date %q", a.ID, a.Date))
		}
		clock, clockErr := appointment.CanonicalClock(a.Time)
		if clockErr != nil {
			errs = append(errs, fmt.Errorf("appointment %s: invalid time %q", a.ID, a.Time))
		}
		if !a.Status.Valid() {
			errs = append(errs, fmt.Errorf("appointment %s: invalid status %q", a.ID, a.Status))
		}
		if !a.ConsultationType.Valid() {
			errs = append(errs, fmt.Errorf("appointment %s: invalid consultation type %q", a.ID, a.ConsultationType))
		}

		if dateErr != nil || clockErr != nil || !a.Status.OccupiesSlot() {
			continue
		}
		key := a.DoctorID + "|" + date + "|" + clock
		if other, ok := booked[key]; ok {
			errs = append(errs, fmt.Errorf("appointment %s: doctor %s is already booked at %s %s by appointment %s",
				a.ID, a.DoctorID, date, clock, other))
			continue
		}
		booked[key] = a.ID
	}

	return errors.Join(errs...)
}

// FillQueue adds the roster's emergencies to q in file order.
func (r Roster) FillQueue(q *patient.Queue) error {
	for _, e := range r.Emergencies {
		if err := q.Add(e); err != nil {
			return fmt.Errorf("seed emergency %s: %w", e.ID, err)
		}
	}
	return nil
}
