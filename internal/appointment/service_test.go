package appointment

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/hackgods/rural-care-scheduling/internal/apperr"
	"github.com/hackgods/rural-care-scheduling/internal/lock"
)

var testNow = time.Date(2025, 8, 15, 8, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, seed ...Appointment) (*Service, *MemoryRepository) {
	t.Helper()
	log, _ := test.NewNullLogger()
	repo := NewMemoryRepository(seed)
	svc := NewService(repo, lock.NewLocalSlotLocker(), log, WithClock(func() time.Time { return testNow }))
	return svc, repo
}

func johnSmithBooking() BookingRequest {
	return BookingRequest{
		PatientID:   "1",
		PatientName: "John Smith",
		DoctorID:    "1",
		DoctorName:  "Dr. Sarah Johnson",
		Date:        "2025-08-16",
		Time:        "10:00",
	}
}

func TestBookThenGet(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	req := johnSmithBooking()
	req.Notes = "follow-up"
	req.Duration = 45

	created, err := svc.Book(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "1" {
		t.Errorf("expected first sequential id 1, got %s", created.ID)
	}
	if created.Status != StatusScheduled {
		t.Errorf("expected scheduled, got %s", created.Status)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PatientID != req.PatientID || got.PatientName != req.PatientName ||
		got.DoctorID != req.DoctorID || got.DoctorName != req.DoctorName ||
		got.Date != req.Date || got.Time != req.Time {
		t.Errorf("stored record differs from request: %+v", got)
	}
	if got.Notes != "follow-up" || got.Duration != 45 {
		t.Errorf("optional fields must pass through, got notes=%q duration=%d", got.Notes, got.Duration)
	}
	if got.ConsultationType != ConsultationVideo {
		t.Errorf("expected default consultation type video, got %s", got.ConsultationType)
	}

	events := repo.Events()
	if len(events) != 1 || events[0].EventType != EventAppointmentBooked {
		t.Errorf("expected one booked event, got %+v", events)
	}
}

func TestBookAssignsSequentialIDs(t *testing.T) {
	svc, _ := newTestService(t, Appointment{ID: "7", DoctorID: "9", Date: "2025-08-01", Time: "09:00", Status: StatusCompleted})
	ctx := context.Background()

	a, err := svc.Book(ctx, johnSmithBooking())
	if err != nil {
		t.Fatal(err)
	}
	req := johnSmithBooking()
	req.Time = "10:30"
	b, err := svc.Book(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "8" || b.ID != "9" {
		t.Errorf("expected ids 8 and 9 after seed 7, got %s and %s", a.ID, b.ID)
	}
}

func TestBookValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*BookingRequest)
		fields []string
	}{
		{"missing patient and time", func(r *BookingRequest) { r.PatientID = ""; r.Time = "" }, []string{"patient_id", "time"}},
		{"missing everything", func(r *BookingRequest) { *r = BookingRequest{} },
			[]string{"patient_id", "patient_name", "doctor_id", "doctor_name", "date", "time"}},
		{"bad date", func(r *BookingRequest) { r.Date = "16/08/2025" }, []string{"date"}},
		{"unpadded month", func(r *BookingRequest) { r.Date = "2025-8-16" }, []string{"date"}},
		{"bad time", func(r *BookingRequest) { r.Time = "25:00" }, []string{"time"}},
		{"bad consultation", func(r *BookingRequest) { r.ConsultationType = "in-person" }, []string{"consultation_type"}},
		{"negative duration", func(r *BookingRequest) { r.Duration = -5 }, []string{"duration"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := johnSmithBooking()
			tt.mutate(&req)

			_, err := svc.Book(ctx, req)
			ve, ok := apperr.AsValidation(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !slices.Equal(ve.Fields, tt.fields) {
				t.Errorf("expected fields %v, got %v", tt.fields, ve.Fields)
			}
		})
	}

	all, _ := svc.ListAll(ctx)
	if len(all) != 0 {
		t.Errorf("rejected bookings must not be stored, found %d", len(all))
	}
}

func TestBookNormalisesClock(t *testing.T) {
	svc, _ := newTestService(t)

	req := johnSmithBooking()
	req.Time = "9:30"
	a, err := svc.Book(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Time != "09:30" {
		t.Errorf("expected zero padded time, got %s", a.Time)
	}
}

func TestBookRejectsDoubleBooking(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Book(ctx, johnSmithBooking()); err != nil {
		t.Fatal(err)
	}

	other := johnSmithBooking()
	other.PatientID = "2"
	other.PatientName = "Maria Garcia"
	_, err := svc.Book(ctx, other)
	if !errors.Is(err, ErrSlotAlreadyBooked) || !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected slot conflict, got %v", err)
	}

	otherDoctor := other
	otherDoctor.DoctorID = "2"
	if _, err := svc.Book(ctx, otherDoctor); err != nil {
		t.Errorf("another doctor at the same time should be bookable: %v", err)
	}
}

func TestBookAfterCancellationFreesSlot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Book(ctx, johnSmithBooking())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(ctx, a.ID, StatusCancelled); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Book(ctx, johnSmithBooking()); err != nil {
		t.Errorf("cancelled slot should be bookable again: %v", err)
	}
}

func TestBookConcurrentSameSlot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const workers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(ctx, johnSmithBooking())
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			if !errors.Is(err, apperr.ErrConflict) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one booking to win, got %d", successes)
	}
	list, _ := svc.ListByDoctor(ctx, "1")
	if len(list) != 1 {
		t.Errorf("expected one stored appointment, got %d", len(list))
	}
}

func TestAvailableSlots(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	before, err := svc.AvailableSlots(ctx, "1", "2025-08-16")
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != 18 || before[0] != "09:00" || before[len(before)-1] != "17:30" {
		t.Fatalf("unexpected canonical grid: %v", before)
	}

	if _, err := svc.Book(ctx, johnSmithBooking()); err != nil {
		t.Fatal(err)
	}

	after, err := svc.AvailableSlots(ctx, "1", "2025-08-16")
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(after, "10:00") {
		t.Error("booked slot 10:00 must not be offered")
	}
	if len(after) != 17 {
		t.Errorf("expected 17 free slots, got %d", len(after))
	}
	if !slices.IsSortedFunc(after, func(a, b string) int { return slices.Index(canonicalSlots, a) - slices.Index(canonicalSlots, b) }) {
		t.Error("free slots must keep grid order")
	}

	otherDay, _ := svc.AvailableSlots(ctx, "1", "2025-08-17")
	otherDoc, _ := svc.AvailableSlots(ctx, "2", "2025-08-16")
	if len(otherDay) != 18 || len(otherDoc) != 18 {
		t.Error("booking must only affect its own doctor and date")
	}
}

func TestAvailableSlotsBookRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	free, _ := svc.AvailableSlots(ctx, "3", "2025-09-01")
	for _, slot := range free[:5] {
		req := johnSmithBooking()
		req.DoctorID = "3"
		req.Date = "2025-09-01"
		req.Time = slot
		if _, err := svc.Book(ctx, req); err != nil {
			t.Fatalf("book %s: %v", slot, err)
		}
		now, _ := svc.AvailableSlots(ctx, "3", "2025-09-01")
		if slices.Contains(now, slot) {
			t.Errorf("slot %s still offered after booking", slot)
		}
	}
}

func TestAvailableSlotsValidation(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.AvailableSlots(context.Background(), "", "2025-08-16"); err == nil {
		t.Error("expected error without doctor")
	}
	if _, err := svc.AvailableSlots(context.Background(), "1", "tomorrow"); err == nil {
		t.Error("expected error for bad date")
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Book(ctx, johnSmithBooking())

	updated, err := svc.UpdateStatus(ctx, a.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(ctx, a.ID, StatusScheduled); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("expected invalid transition out of completed, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, a.ID, StatusCancelled); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("expected invalid transition completed->cancelled, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, a.ID, StatusCompleted); err != nil {
		t.Errorf("repeating the current status should succeed, got %v", err)
	}

	if n := len(repo.Events()); n != 2 {
		t.Errorf("expected booked + status events, got %d", n)
	}
}

func TestUpdateStatusFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, "404", StatusCancelled); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "1", Status("no-show")); err == nil {
		t.Error("expected validation error for unknown status")
	} else if _, ok := apperr.AsValidation(err); !ok {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestListOrdering(t *testing.T) {
	svc, _ := newTestService(t,
		Appointment{ID: "1", PatientID: "p1", DoctorID: "d1", Date: "2025-08-20", Time: "09:00", Status: StatusScheduled},
		Appointment{ID: "2", PatientID: "p2", DoctorID: "d1", Date: "2025-08-16", Time: "14:00", Status: StatusScheduled},
		Appointment{ID: "3", PatientID: "p1", DoctorID: "d2", Date: "2025-08-16", Time: "09:30", Status: StatusCancelled},
		Appointment{ID: "4", PatientID: "p1", DoctorID: "d2", Date: "2025-08-10", Time: "11:00", Status: StatusCompleted},
		Appointment{ID: "5", PatientID: "p3", DoctorID: "d1", Date: "2025-08-15", Time: "16:00", Status: StatusScheduled},
	)
	ctx := context.Background()

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(all); !slices.Equal(got, []string{"4", "5", "3", "2", "1"}) {
		t.Errorf("unexpected chronological order %v", got)
	}

	byDoctor, _ := svc.ListByDoctor(ctx, "d1")
	if got := ids(byDoctor); !slices.Equal(got, []string{"5", "2", "1"}) {
		t.Errorf("unexpected doctor list %v", got)
	}

	byPatient, _ := svc.ListByPatient(ctx, "p1")
	if got := ids(byPatient); !slices.Equal(got, []string{"4", "3", "1"}) {
		t.Errorf("unexpected patient list %v", got)
	}

	upcoming, _ := svc.Upcoming(ctx)
	if got := ids(upcoming); !slices.Equal(got, []string{"5", "2", "1"}) {
		t.Errorf("upcoming should include today onwards and scheduled only, got %v", got)
	}
}

func TestListReturnsCopies(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a, _ := svc.Book(ctx, johnSmithBooking())

	list, _ := svc.ListAll(ctx)
	list[0].Status = StatusCancelled

	got, _ := svc.Get(ctx, a.ID)
	if got.Status != StatusScheduled {
		t.Error("listing must not expose live records")
	}
}

// failingRepo wraps a memory repository and injects failures.
type failingRepo struct {
	*MemoryRepository
	findErr   error
	eventErr  error
	panicCreate bool
}

func (r *failingRepo) FindActiveForSlot(ctx context.Context, doctorID, date, clock string) (*Appointment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.MemoryRepository.FindActiveForSlot(ctx, doctorID, date, clock)
}

func (r *failingRepo) InsertEvent(ctx context.Context, ev EventLog) error {
	if r.eventErr != nil {
		return r.eventErr
	}
	return r.MemoryRepository.InsertEvent(ctx, ev)
}

func (r *failingRepo) CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	if r.panicCreate {
		panic("storage corrupted")
	}
	return r.MemoryRepository.CreateAppointment(ctx, a)
}

func TestBookStorageFailure(t *testing.T) {
	log, _ := test.NewNullLogger()
	repo := &failingRepo{MemoryRepository: NewMemoryRepository(nil), findErr: errors.New("connection reset")}
	svc := NewService(repo, lock.NewLocalSlotLocker(), log)

	_, err := svc.Book(context.Background(), johnSmithBooking())
	if err == nil || errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}

func TestBookEventFailureIsLoggedOnly(t *testing.T) {
	log, hook := test.NewNullLogger()
	repo := &failingRepo{MemoryRepository: NewMemoryRepository(nil), eventErr: errors.New("event table missing")}
	svc := NewService(repo, lock.NewLocalSlotLocker(), log)

	if _, err := svc.Book(context.Background(), johnSmithBooking()); err != nil {
		t.Fatalf("event log failure must not fail the booking: %v", err)
	}
	found := false
	for _, e := range hook.AllEntries() {
		if e.Message == "failed to insert event log" {
			found = true
		}
	}
	if !found {
		t.Error("expected event failure to be logged")
	}
}

func TestBookPanicIsSwallowed(t *testing.T) {
	log, hook := test.NewNullLogger()
	repo := &failingRepo{MemoryRepository: NewMemoryRepository(nil), panicCreate: true}
	svc := NewService(repo, lock.NewLocalSlotLocker(), log)

	_, err := svc.Book(context.Background(), johnSmithBooking())
	if !errors.Is(err, apperr.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if len(hook.AllEntries()) == 0 {
		t.Error("expected panic to be logged")
	}

	// the slot lock must have been released
	repo.panicCreate = false
	if _, err := svc.Book(context.Background(), johnSmithBooking()); err != nil {
		t.Errorf("slot should be bookable after recovered failure: %v", err)
	}
}

type busyLocker struct{}

func (busyLocker) WithSlotLock(context.Context, lock.SlotKey, func(context.Context) error) error {
	return lock.ErrLockNotAcquired
}

func TestBookLockContention(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc := NewService(NewMemoryRepository(nil), busyLocker{}, log)

	if _, err := svc.Book(context.Background(), johnSmithBooking()); !errors.Is(err, ErrSlotBeingBooked) {
		t.Errorf("expected ErrSlotBeingBooked, got %v", err)
	}
}

func ids(list []Appointment) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}
