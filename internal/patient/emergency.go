package patient

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/rural-care-scheduling/internal/apperr"
)

const DefaultStaleAfter = 15 * time.Minute

var (
	ErrEmergencyNotFound = apperr.NotFound("emergency")
	ErrEmergencyResolved = apperr.Conflict("emergency is already resolved")
)

type QueueOption func(*Queue)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) { q.now = now }
}

func WithStaleAfter(d time.Duration) QueueOption {
	return func(q *Queue) { q.staleAfter = d }
}

// Queue holds emergency requests in arrival order, newest generated first.
type Queue struct {
	mu         sync.RWMutex
	items      []*Emergency
	byID       map[string]*Emergency
	patients   *Directory
	rng        Rand
	now        func() time.Time
	staleAfter time.Duration
	log        logrus.FieldLogger
}

func NewQueue(patients *Directory, rng Rand, log logrus.FieldLogger, opts ...QueueOption) *Queue {
	q := &Queue{
		byID:       make(map[string]*Emergency),
		patients:   patients,
		rng:        rng,
		now:        time.Now,
		staleAfter: DefaultStaleAfter,
		log:        log,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Add appends a seeded emergency at the back of the queue.
func (q *Queue) Add(e Emergency) error {
	if e.ID == "" || !e.Severity.Valid() {
		return apperr.Invalid("add_emergency", "emergency needs an id and a valid severity", "id", "severity")
	}
	if e.Status == "" {
		e.Status = EmergencyPending
	}
	if !e.Status.Valid() {
		return apperr.Invalid("add_emergency", "status must be pending, assigned or resolved", "status")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, dup := q.byID[e.ID]; dup {
		return apperr.Invalid("add_emergency", "duplicate emergency id", "id")
	}
	c := e
	q.items = append(q.items, &c)
	q.byID[e.ID] = &c
	return nil
}

// List returns every emergency ordered high > medium > low; ties keep arrival order.
func (q *Queue) List() []Emergency {
	q.mu.RLock()
	out := make([]Emergency, len(q.items))
	for i, e := range q.items {
		out[i] = *e
	}
	q.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Emergency) int {
		return b.Severity.Weight() - a.Severity.Weight()
	})
	return out
}

func (q *Queue) Get(id string) (Emergency, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	e, ok := q.byID[id]
	if !ok {
		return Emergency{}, ErrEmergencyNotFound
	}
	return *e, nil
}

func (q *Queue) PendingCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.pendingLocked()
}

func (q *Queue) AssignDoctor(emergencyID, doctorID string) error {
	return apperr.Guard(q.log, "assign_doctor", func() error {
		var missing []string
		if emergencyID == "" {
			missing = append(missing, "emergency_id")
		}
		if doctorID == "" {
			missing = append(missing, "doctor_id")
		}
		if len(missing) > 0 {
			return apperr.Invalid("assign_doctor", "missing required fields", missing...)
		}

		q.mu.Lock()
		defer q.mu.Unlock()

		e, ok := q.byID[emergencyID]
		if !ok {
			return ErrEmergencyNotFound
		}
		if e.Status == EmergencyResolved {
			return ErrEmergencyResolved
		}

		e.AssignedDoctor = doctorID
		e.Status = EmergencyAssigned

		q.log.WithFields(logrus.Fields{
			"emergency_id": emergencyID,
			"doctor_id":    doctorID,
		}).Info("doctor assigned to emergency")
		return nil
	})
}

// Generate synthesises a new emergency for a random patient and puts it at the front.
func (q *Queue) Generate() (Emergency, error) {
	var created Emergency
	err := apperr.Guard(q.log, "generate_emergency", func() error {
		q.mu.Lock()
		defer q.mu.Unlock()

		e, err := q.generateLocked()
		created = e
		return err
	})
	return created, err
}

// SpawnIfBelow generates an emergency only while fewer than limit are pending.
// The check and the insert happen under one lock.
func (q *Queue) SpawnIfBelow(limit int) (Emergency, bool, error) {
	var (
		created Emergency
		spawned bool
	)
	err := apperr.Guard(q.log, "spawn_emergency", func() error {
		q.mu.Lock()
		defer q.mu.Unlock()

		if q.pendingLocked() >= limit {
			return nil
		}
		e, err := q.generateLocked()
		if err != nil {
			return err
		}
		created, spawned = e, true
		return nil
	})
	return created, spawned, err
}

// ResolveStale closes pending emergencies older than the stale threshold
// and reports how many changed. Running it twice in a row is a no-op the second time.
func (q *Queue) ResolveStale() (int, error) {
	resolved := 0
	err := apperr.Guard(q.log, "resolve_stale", func() error {
		q.mu.Lock()
		defer q.mu.Unlock()

		now := q.now()
		for _, e := range q.items {
			if e.Status != EmergencyPending || now.Sub(e.Timestamp) <= q.staleAfter {
				continue
			}
			e.Status = EmergencyResolved
			e.AssignedDoctor = AutoAssignedDoctor
			resolved++
		}
		return nil
	})

	if resolved > 0 {
		q.log.WithField("count", resolved).Info("stale emergencies auto-resolved")
	}
	return resolved, err
}

func (q *Queue) generateLocked() (Emergency, error) {
	if q.patients == nil {
		return Emergency{}, errors.New("emergency queue has no patient directory")
	}
	p, err := q.patients.Random(q.rng)
	if err != nil {
		return Emergency{}, err
	}
	tpl := emergencyTemplates[q.rng.Number(0, len(emergencyTemplates)-1)]

	e := &Emergency{
		ID:          uuid.NewString(),
		PatientID:   p.ID,
		PatientName: p.Name,
		Issue:       tpl.Issue,
		Severity:    tpl.Severity,
		Timestamp:   q.now(),
		Status:      EmergencyPending,
		Notes:       tpl.Notes,
	}

	q.items = slices.Insert(q.items, 0, e)
	q.byID[e.ID] = e

	q.log.WithFields(logrus.Fields{
		"emergency_id": e.ID,
		"patient_id":   e.PatientID,
		"severity":     e.Severity,
	}).Info("emergency generated")
	return *e, nil
}

func (q *Queue) pendingLocked() int {
	n := 0
	for _, e := range q.items {
		if e.Status == EmergencyPending {
			n++
		}
	}
	return n
}
