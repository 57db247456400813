package seed

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/rural-care-scheduling/internal/appointment"
	"github.com/hackgods/rural-care-scheduling/internal/doctor"
	"github.com/hackgods/rural-care-scheduling/internal/patient"
)

var departments = map[string][]string{
	"General Medicine": {"Family Medicine", "Internal Medicine"},
	"Cardiology":       {"Interventional Cardiology", "Electrophysiology"},
	"Pediatrics":       {"Neonatology", "Pediatric Pulmonology"},
	"Orthopedics":      {"Trauma Surgery", "Sports Medicine"},
	"Gynecology":       {"Obstetrics", "Reproductive Health"},
	"Emergency":        {"Emergency Medicine", "Critical Care"},
	"Dermatology":      {"Clinical Dermatology"},
	"ENT":              {"Otology", "Rhinology"},
}

var (
	bloodTypes  = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	allergies   = []string{"Penicillin", "Sulfa drugs", "Peanuts", "Latex", "Dust", "Aspirin"}
	medications = []string{"Metformin 500mg", "Amlodipine 5mg", "Aspirin 75mg", "Salbutamol inhaler", "Levothyroxine 50mcg", "Iron supplements"}
	conditions  = []string{"Hypertension", "Type 2 diabetes", "Asthma", "Anemia", "Arthritis", "Seasonal flu"}
	availables  = []doctor.Availability{doctor.Available, doctor.Available, doctor.Busy, doctor.Unavailable}
)

type GenerateOptions struct {
	Doctors      int
	Patients     int
	Appointments int
	Now          time.Time
}

// Generate builds a synthetic roster. The same faker seed gives the same roster.
func Generate(f *gofakeit.Faker, opts GenerateOptions) Roster {
	deptNames := make([]string, 0, len(departments))
	for name := range departments {
		deptNames = append(deptNames, name)
	}
	slices.Sort(deptNames)

	var r Roster
	for i := 1; i <= opts.Doctors; i++ {
		dept := deptNames[f.Number(0, len(deptNames)-1)]
		specs := departments[dept]
		maxPatients := f.Number(5, 12)
		avail := availables[f.Number(0, len(availables)-1)]

		current := f.Number(0, maxPatients-1)
		if avail == doctor.Busy {
			current = maxPatients
		}

		r.Doctors = append(r.Doctors, doctor.Doctor{
			ID:              strconv.Itoa(i),
			Name:            "Dr. " + f.FirstName() + " " + f.LastName(),
			Department:      dept,
			Specialization:  specs[f.Number(0, len(specs)-1)],
			Availability:    avail,
			CurrentPatients: current,
			MaxPatients:     maxPatients,
			Phone:           f.Phone(),
			ExperienceYears: f.Number(2, 30),
		})
	}

	for i := 1; i <= opts.Patients; i++ {
		p := patient.Patient{
			ID:        strconv.Itoa(i),
			Name:      f.FirstName() + " " + f.LastName(),
			Age:       f.Number(1, 90),
			Gender:    f.Gender(),
			Phone:     f.Phone(),
			Village:   f.City(),
			BloodType: bloodTypes[f.Number(0, len(bloodTypes)-1)],
		}
		if f.Bool() {
			p.Allergies = []string{allergies[f.Number(0, len(allergies)-1)]}
		}
		if f.Bool() {
			p.Medications = []string{medications[f.Number(0, len(medications)-1)]}
		}
		for j := f.Number(0, 2); j > 0; j-- {
			var treating string
			if len(r.Doctors) > 0 {
				treating = r.Doctors[f.Number(0, len(r.Doctors)-1)].Name
			}
			p.History = append(p.History, patient.HistoryEntry{
				Date:      opts.Now.AddDate(0, 0, -f.Number(30, 900)).Format(appointment.DateLayout),
				Condition: conditions[f.Number(0, len(conditions)-1)],
				Treatment: "Follow-up consultation",
				Doctor:    treating,
			})
		}
		r.Patients = append(r.Patients, p)
	}

	r.Appointments = generateAppointments(f, r, opts)
	return r
}

// generateAppointments books random free slots over the next week.
func generateAppointments(f *gofakeit.Faker, r Roster, opts GenerateOptions) []appointment.Appointment {
	if len(r.Doctors) == 0 || len(r.Patients) == 0 {
		return nil
	}

	slots := appointment.CanonicalSlots()
	types := []appointment.ConsultationType{appointment.ConsultationVideo, appointment.ConsultationChat, appointment.ConsultationPhone}
	taken := make(map[string]struct{})

	var out []appointment.Appointment
	for attempts := 0; len(out) < opts.Appointments && attempts < opts.Appointments*10; attempts++ {
		doc := r.Doctors[f.Number(0, len(r.Doctors)-1)]
		p := r.Patients[f.Number(0, len(r.Patients)-1)]
		date := opts.Now.AddDate(0, 0, f.Number(1, 7)).Format(appointment.DateLayout)
		clock := slots[f.Number(0, len(slots)-1)]

		key := fmt.Sprintf("%s|%s|%s", doc.ID, date, clock)
		if _, dup := taken[key]; dup {
			continue
		}
		taken[key] = struct{}{}

		out = append(out, appointment.Appointment{
			ID:               strconv.Itoa(len(out) + 1),
			PatientID:        p.ID,
			PatientName:      p.Name,
			DoctorID:         doc.ID,
			DoctorName:       doc.Name,
			Department:       doc.Department,
			ConsultationType: types[f.Number(0, len(types)-1)],
			Date:             date,
			Time:             clock,
			Status:           appointment.StatusScheduled,
			Duration:         appointment.DefaultDuration,
		})
	}
	return out
}
