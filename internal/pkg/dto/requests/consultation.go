package requests

// PatientInfo mirrors the optional caller-supplied patient snapshot.
// Every absent field is meaningful absence, not a default.
type PatientInfo struct {
	Age            *int     `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Sex            *string  `json:"sex,omitempty" validate:"omitempty,oneof=male female"`
	MedicalHistory []string `json:"medical_history,omitempty"`
	Allergies      []string `json:"allergies,omitempty"`
	Symptoms       []string `json:"symptoms,omitempty"`
}

type ConsultationChat struct {
	Message     string       `json:"message" validate:"required,min=1,max=5000"`
	SessionID   string       `json:"session_id,omitempty"`
	Dialect     string       `json:"dialect,omitempty"`
	PatientInfo *PatientInfo `json:"patient_info,omitempty"`
}
