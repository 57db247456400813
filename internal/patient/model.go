package patient

import (
	"slices"
	"time"
)

type HistoryEntry struct {
	Date      string `json:"date" yaml:"date"`
	Condition string `json:"condition" yaml:"condition"`
	Treatment string `json:"treatment" yaml:"treatment"`
	Doctor    string `json:"doctor" yaml:"doctor"`
}

type Patient struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Age         int            `json:"age" yaml:"age"`
	Gender      string         `json:"gender" yaml:"gender"`
	Phone       string         `json:"phone,omitempty" yaml:"phone,omitempty"`
	Village     string         `json:"village,omitempty" yaml:"village,omitempty"`
	BloodType   string         `json:"blood_type" yaml:"blood_type"`
	Allergies   []string       `json:"allergies" yaml:"allergies"`
	Medications []string       `json:"medications" yaml:"medications"`
	History     []HistoryEntry `json:"medical_history" yaml:"medical_history"`
}

func (p Patient) clone() Patient {
	p.Allergies = slices.Clone(p.Allergies)
	p.Medications = slices.Clone(p.Medications)
	p.History = slices.Clone(p.History)
	return p
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Weight ranks severities for display ordering: high=3, medium=2, low=1.
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

func (s Severity) Valid() bool { return s.Weight() > 0 }

type EmergencyStatus string

const (
	EmergencyPending  EmergencyStatus = "pending"
	EmergencyAssigned EmergencyStatus = "assigned"
	EmergencyResolved EmergencyStatus = "resolved"
)

func (s EmergencyStatus) Valid() bool {
	switch s {
	case EmergencyPending, EmergencyAssigned, EmergencyResolved:
		return true
	}
	return false
}

// AutoAssignedDoctor marks emergencies closed by the staleness sweep.
const AutoAssignedDoctor = "auto-assigned"

type Emergency struct {
	ID             string          `json:"id" yaml:"id"`
	PatientID      string          `json:"patient_id" yaml:"patient_id"`
	PatientName    string          `json:"patient_name" yaml:"patient_name"`
	Issue          string          `json:"issue" yaml:"issue"`
	Severity       Severity        `json:"severity" yaml:"severity"`
	Timestamp      time.Time       `json:"timestamp" yaml:"timestamp"`
	Status         EmergencyStatus `json:"status" yaml:"status"`
	AssignedDoctor string          `json:"assigned_doctor,omitempty" yaml:"assigned_doctor,omitempty"`
	Notes          string          `json:"notes,omitempty" yaml:"notes,omitempty"`
}
