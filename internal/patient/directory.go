package patient

import (
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/apperr"
)

var (
	ErrPatientNotFound = apperr.NotFound("patient")
	ErrNoPatients      = errors.New("patient directory is empty")
)

// Rand is the random source used to draw patients and emergency templates.
// *gofakeit.Faker satisfies it.
type Rand interface {
	Number(min, max int) int
}

// Directory is the read-only patient register.
type Directory struct {
	mu    sync.RWMutex
	byID  map[string]*Patient
	order []string
}

func NewDirectory(patients []Patient, log logrus.FieldLogger) *Directory {
	d := &Directory{byID: make(map[string]*Patient, len(patients))}
	for _, p := range patients {
		if _, dup := d.byID[p.ID]; dup {
			log.WithField("patient_id", p.ID).Warn("duplicate patient id in roster, skipping")
			continue
		}
		c := p.clone()
		d.byID[p.ID] = &c
		d.order = append(d.order, p.ID)
	}
	return d
}

func (d *Directory) Get(id string) (Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.byID[id]
	if !ok {
		return Patient{}, ErrPatientNotFound
	}
	return p.clone(), nil
}

func (d *Directory) List() []Patient {
	return d.Search("")
}

// Search matches query against patient names, case-insensitively.
func (d *Directory) Search(query string) []Patient {
	d.mu.RLock()
	defer d.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Patient, 0, len(d.order))
	for _, id := range d.order {
		p := d.byID[id]
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p.clone())
		}
	}
	return out
}

// Random draws a patient uniformly.
func (d *Directory) Random(rng Rand) (Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.order) == 0 {
		return Patient{}, ErrNoPatients
	}
	id := d.order[rng.Number(0, len(d.order)-1)]
	return d.byID[id].clone(), nil
}
