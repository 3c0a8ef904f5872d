package models

// BiologicalSex is the reported biological-sex category. Absence means
// "not stated", never a default.
type BiologicalSex string

const (
	SexMale   BiologicalSex = "male"
	SexFemale BiologicalSex = "female"
)

// PatientContext is the demographic/clinical snapshot extracted once
// per incoming message. Immutable after extraction. Nil or empty
// fields mean "unknown", never "negative": an absent allergy list
// means the patient did not state allergies, not that they have none.
type PatientContext struct {
	Age            *int           `json:"age,omitempty" bson:"age,omitempty"`
	Sex            *BiologicalSex `json:"sex,omitempty" bson:"sex,omitempty"`
	MedicalHistory []string       `json:"medical_history,omitempty" bson:"medical_history,omitempty"`
	Allergies      []string       `json:"allergies,omitempty" bson:"allergies,omitempty"`
	Symptoms       []string       `json:"symptoms,omitempty" bson:"symptoms,omitempty"`
	SourceDialect  string         `json:"source_dialect,omitempty" bson:"source_dialect,omitempty"`
}

// Merge overlays explicitly supplied caller fields on top of the
// extracted snapshot. Caller-stated fields win; extracted fields fill
// the gaps.
func (pc *PatientContext) Merge(supplied *PatientContext) *PatientContext {
	if supplied == nil {
		return pc
	}
	merged := *pc
	if supplied.Age != nil {
		merged.Age = supplied.Age
	}
	if supplied.Sex != nil {
		merged.Sex = supplied.Sex
	}
	if len(supplied.MedicalHistory) > 0 {
		merged.MedicalHistory = supplied.MedicalHistory
	}
	if len(supplied.Allergies) > 0 {
		merged.Allergies = supplied.Allergies
	}
	if len(supplied.Symptoms) > 0 {
		merged.Symptoms = supplied.Symptoms
	}
	return &merged
}
