package patient

type emergencyTemplate struct {
	Issue    string
	Severity Severity
	Notes    string
}

var emergencyTemplates = []emergencyTemplate{
	{"Severe chest pain", SeverityHigh, "Patient reports pain radiating to left arm"},
	{"Difficulty breathing", SeverityHigh, "Oxygen saturation dropping"},
	{"Snake bite", SeverityHigh, "Bitten in the field, swelling around the wound"},
	{"High fever", SeverityMedium, "Temperature above 39C for two days"},
	{"Deep cut on hand", SeverityMedium, "Bleeding controlled with pressure"},
	{"Severe dehydration", SeverityMedium, "Vomiting and diarrhoea since morning"},
	{"Pregnancy complications", SeverityHigh, "Third trimester, abdominal pain"},
	{"Persistent headache", SeverityLow, "No visual disturbance reported"},
	{"Minor burn", SeverityLow, "Kitchen accident, first degree"},
	{"Sprained ankle", SeverityLow, "Able to bear partial weight"},
}
