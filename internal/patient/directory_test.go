package patient

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

// seqRand returns the queued numbers in order, clamped into [min, max].
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) Number(min, max int) int {
	if len(r.vals) == 0 {
		return min
	}
	v := r.vals[r.i%len(r.vals)]
	r.i++
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func testPatients() []Patient {
	return []Patient{
		{ID: "1", Name: "John Smith", Age: 45, BloodType: "O+", Allergies: []string{"Penicillin"}, Medications: []string{"Metformin"},
			History: []HistoryEntry{{Date: "2024-01-10", Condition: "Diabetes", Treatment: "Metformin", Doctor: "Dr. Sarah Johnson"}}},
		{ID: "2", Name: "Maria Garcia", Age: 32, BloodType: "A+"},
		{ID: "3", Name: "Ramesh Yadav", Age: 60, BloodType: "B-"},
	}
}

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	log, _ := test.NewNullLogger()
	return NewDirectory(testPatients(), log)
}

func TestDirectoryGet(t *testing.T) {
	d := newTestDirectory(t)

	p, err := d.Get("1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "John Smith" || len(p.History) != 1 {
		t.Errorf("unexpected patient: %+v", p)
	}

	if _, err := d.Get("404"); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDirectoryReturnsDeepCopies(t *testing.T) {
	d := newTestDirectory(t)

	p, _ := d.Get("1")
	p.Allergies[0] = "None"
	p.History[0].Condition = "edited"

	again, _ := d.Get("1")
	if again.Allergies[0] != "Penicillin" || again.History[0].Condition != "Diabetes" {
		t.Error("mutating a returned patient leaked into the directory")
	}
}

func TestDirectorySearch(t *testing.T) {
	d := newTestDirectory(t)

	if got := d.Search("maria"); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("expected Maria Garcia, got %+v", got)
	}
	if got := d.Search("  "); len(got) != 3 {
		t.Errorf("blank query should list everyone, got %d", len(got))
	}
	if got := d.List(); len(got) != 3 || got[0].ID != "1" {
		t.Errorf("list should keep roster order, got %+v", got)
	}
}

func TestDirectoryRandom(t *testing.T) {
	d := newTestDirectory(t)

	p, err := d.Random(&seqRand{vals: []int{2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "3" {
		t.Errorf("expected patient 3, got %s", p.ID)
	}

	log, _ := test.NewNullLogger()
	empty := NewDirectory(nil, log)
	if _, err := empty.Random(&seqRand{}); !errors.Is(err, ErrNoPatients) {
		t.Errorf("expected ErrNoPatients, got %v", err)
	}
}

func TestSeverityWeight(t *testing.T) {
	tests := []struct {
		sev  Severity
		want int
	}{
		{SeverityHigh, 3},
		{SeverityMedium, 2},
		{SeverityLow, 1},
		{Severity("critical"), 0},
	}
	for _, tt := range tests {
		if got := tt.sev.Weight(); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.sev, tt.want, got)
		}
	}
}
