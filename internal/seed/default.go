package seed

import (
	"time"

	"github.com/hackgods/rural-care-scheduling/internal/appointment"
	"github.com/hackgods/rural-care-scheduling/internal/doctor"
	"github.com/hackgods/rural-care-scheduling/internal/patient"
)

// Default is the built-in roster used when no ROSTER_FILE is configured.
// Emergency timestamps are relative to now.
func Default(now time.Time) Roster {
	return Roster{
		Doctors: []doctor.Doctor{
			{ID: "1", Name: "Dr. Sarah Johnson", Department: "General Medicine", Specialization: "Family Medicine",
				Availability: doctor.Available, CurrentPatients: 4, MaxPatients: 10, ExperienceYears: 12},
			{ID: "2", Name: "Dr. Rajesh Kumar", Department: "Cardiology", Specialization: "Interventional Cardiology",
				Availability: doctor.Busy, CurrentPatients: 6, MaxPatients: 6, ExperienceYears: 18},
			{ID: "3", Name: "Dr. Priya Sharma", Department: "Pediatrics", Specialization: "Neonatology",
				Availability: doctor.Available, CurrentPatients: 2, MaxPatients: 8, ExperienceYears: 9},
			{ID: "4", Name: "Dr. Michael Chen", Department: "Orthopedics", Specialization: "Trauma Surgery",
				Availability: doctor.Unavailable, CurrentPatients: 0, MaxPatients: 6, ExperienceYears: 15},
			{ID: "5", Name: "Dr. Anjali Verma", Department: "Gynecology", Specialization: "Obstetrics",
				Availability: doctor.Available, CurrentPatients: 5, MaxPatients: 9, ExperienceYears: 11},
			{ID: "6", Name: "Dr. Vikram Singh", Department: "Emergency", Specialization: "Emergency Medicine",
				Availability: doctor.Busy, CurrentPatients: 7, MaxPatients: 12, ExperienceYears: 7},
		},
		Patients: []patient.Patient{
			{ID: "1", Name: "John Smith", Age: 45, Gender: "male", Phone: "+91 98765 43210", Village: "Rampur",
				BloodType: "O+", Allergies: []string{"Penicillin"}, Medications: []string{"Metformin 500mg"},
				History: []patient.HistoryEntry{
					{Date: "2024-11-02", Condition: "Type 2 diabetes", Treatment: "Metformin, diet plan", Doctor: "Dr. Sarah Johnson"},
				}},
			{ID: "2", Name: "Maria Garcia", Age: 32, Gender: "female", Phone: "+91 98765 43211", Village: "Sundarpur",
				BloodType: "A+", Medications: []string{"Prenatal vitamins"},
				History: []patient.HistoryEntry{
					{Date: "2025-03-14", Condition: "Pregnancy, second trimester", Treatment: "Routine monitoring", Doctor: "Dr. Anjali Verma"},
				}},
			{ID: "3", Name: "Ramesh Yadav", Age: 67, Gender: "male", Phone: "+91 98765 43212", Village: "Rampur",
				BloodType: "B+", Allergies: []string{"Sulfa drugs"}, Medications: []string{"Amlodipine 5mg", "Aspirin 75mg"},
				History: []patient.HistoryEntry{
					{Date: "2024-08-20", Condition: "Hypertension", Treatment: "Amlodipine", Doctor: "Dr. Rajesh Kumar"},
					{Date: "2025-01-05", Condition: "Chest discomfort", Treatment: "ECG, observation", Doctor: "Dr. Rajesh Kumar"},
				}},
			{ID: "4", Name: "Lakshmi Devi", Age: 8, Gender: "female", Village: "Kishanganj",
				BloodType: "AB+", Allergies: []string{"Peanuts"},
				History: []patient.HistoryEntry{
					{Date: "2025-05-11", Condition: "Asthma", Treatment: "Salbutamol inhaler", Doctor: "Dr. Priya Sharma"},
				}},
			{ID: "5", Name: "Arjun Patel", Age: 29, Gender: "male", Phone: "+91 98765 43214", Village: "Sundarpur",
				BloodType: "O-"},
		},
		Emergencies: []patient.Emergency{
			{ID: "e1", PatientID: "3", PatientName: "Ramesh Yadav", Issue: "Severe chest pain", Severity: patient.SeverityHigh,
				Timestamp: now.Add(-5 * time.Minute), Status: patient.EmergencyPending, Notes: "History of hypertension"},
			{ID: "e2", PatientID: "4", PatientName: "Lakshmi Devi", Issue: "Breathing difficulty", Severity: patient.SeverityMedium,
				Timestamp: now.Add(-10 * time.Minute), Status: patient.EmergencyAssigned, AssignedDoctor: "3"},
			{ID: "e3", PatientID: "5", PatientName: "Arjun Patel", Issue: "Sprained ankle", Severity: patient.SeverityLow,
				Timestamp: now.Add(-2 * time.Minute), Status: patient.EmergencyPending},
		},
		Appointments: []appointment.Appointment{
			{ID: "1", PatientID: "1", PatientName: "John Smith", DoctorID: "1", DoctorName: "Dr. Sarah Johnson",
				Department: "General Medicine", ConsultationType: appointment.ConsultationVideo,
				Date: now.AddDate(0, 0, 1).Format(appointment.DateLayout), Time: "09:30",
				Status: appointment.StatusScheduled, Notes: "Diabetes review", Duration: 30},
			{ID: "2", PatientID: "2", PatientName: "Maria Garcia", DoctorID: "5", DoctorName: "Dr. Anjali Verma",
				Department: "Gynecology", ConsultationType: appointment.ConsultationPhone,
				Date: now.AddDate(0, 0, 2).Format(appointment.DateLayout), Time: "11:00",
				Status: appointment.StatusScheduled, Duration: 30},
			{ID: "3", PatientID: "3", PatientName: "Ramesh Yadav", DoctorID: "2", DoctorName: "Dr. Rajesh Kumar",
				Department: "Cardiology", ConsultationType: appointment.ConsultationChat,
				Date: now.AddDate(0, 0, -3).Format(appointment.DateLayout), Time: "14:00",
				Status: appointment.StatusCompleted, Notes: "ECG normal", Duration: 45},
		},
	}
}
