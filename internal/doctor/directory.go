package doctor

import (
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/apperr"
)

var ErrDoctorNotFound = apperr.NotFound("doctor")

// Directory owns the doctor roster. Callers only ever see copies.
type Directory struct {
	mu    sync.RWMutex
	byID  map[string]*Doctor
	order []string
	log   logrus.FieldLogger
}

// NewDirectory builds a directory from the roster. Later duplicates of an id are ignored.
func NewDirectory(doctors []Doctor, log logrus.FieldLogger) *Directory {
	d := &Directory{
		byID: make(map[string]*Doctor, len(doctors)),
		log:  log,
	}
	for _, doc := range doctors {
		if _, dup := d.byID[doc.ID]; dup {
			log.WithField("doctor_id", doc.ID).Warn("duplicate doctor id in roster, skipping")
			continue
		}
		c := doc
		d.byID[doc.ID] = &c
		d.order = append(d.order, doc.ID)
	}
	return d
}

// ListByDepartment returns every doctor when department is empty,
// otherwise those whose department matches exactly.
func (d *Directory) ListByDepartment(department string) []Doctor {
	return d.filter(func(doc *Doctor) bool {
		return department == "" || doc.Department == department
	})
}

func (d *Directory) ListAvailable() []Doctor {
	return d.filter(func(doc *Doctor) bool {
		return doc.Availability == Available
	})
}

func (d *Directory) Get(id string) (Doctor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	doc, ok := d.byID[id]
	if !ok {
		return Doctor{}, ErrDoctorNotFound
	}
	return *doc, nil
}

// SetAvailability changes the availability state of one doctor in place.
func (d *Directory) SetAvailability(id string, state Availability) error {
	return apperr.Guard(d.log, "set_availability", func() error {
		if !state.Valid() {
			return apperr.Invalid("set_availability", "availability must be available, busy or unavailable", "availability")
		}

		d.mu.Lock()
		defer d.mu.Unlock()

		doc, ok := d.byID[id]
		if !ok {
			return ErrDoctorNotFound
		}

		prev := doc.Availability
		doc.Availability = state

		d.log.WithFields(logrus.Fields{
			"doctor_id": id,
			"from":      prev,
			"to":        state,
		}).Info("doctor availability updated")
		return nil
	})
}

func (d *Directory) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var s Stats
	for _, doc := range d.byID {
		s.Total++
		switch doc.Availability {
		case Available:
			s.Available++
		case Busy:
			s.Busy++
		default:
			s.Unavailable++
		}
	}

	if s.Total > 0 {
		s.AvailabilityRate = int(math.Round(float64(s.Available) / float64(s.Total) * 100))
	}
	return s
}

// Departments lists distinct departments in roster order.
func (d *Directory) Departments() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, id := range d.order {
		dept := d.byID[id].Department
		if _, ok := seen[dept]; ok || dept == "" {
			continue
		}
		seen[dept] = struct{}{}
		out = append(out, dept)
	}
	return out
}

func (d *Directory) filter(keep func(*Doctor) bool) []Doctor {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Doctor, 0, len(d.order))
	for _, id := range d.order {
		doc := d.byID[id]
		if keep(doc) {
			out = append(out, *doc)
		}
	}
	return out
}
