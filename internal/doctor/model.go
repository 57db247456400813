package doctor

type Availability string

const (
	Available   Availability = "available"
	Busy        Availability = "busy"
	Unavailable Availability = "unavailable"
)

func (a Availability) Valid() bool {
	switch a {
	case Available, Busy, Unavailable:
		return true
	}
	return false
}

type Doctor struct {
	ID              string       `json:"id" yaml:"id"`
	Name            string       `json:"name" yaml:"name"`
	Department      string       `json:"department" yaml:"department"`
	Specialization  string       `json:"specialization" yaml:"specialization"`
	Availability    Availability `json:"availability" yaml:"availability"`
	CurrentPatients int          `json:"current_patients" yaml:"current_patients"`
	MaxPatients     int          `json:"max_patients" yaml:"max_patients"`
	Phone           string       `json:"phone,omitempty" yaml:"phone,omitempty"`
	ExperienceYears int          `json:"experience_years,omitempty" yaml:"experience_years,omitempty"`
}

// Stats summarises the availability of the whole directory.
type Stats struct {
	Total            int `json:"total"`
	Available        int `json:"available"`
	Busy             int `json:"busy"`
	Unavailable      int `json:"unavailable"`
	AvailabilityRate int `json:"availability_rate"`
}
