package models

import "time"

type Urgency string

const (
	UrgencyRoutine   Urgency = "routine"
	UrgencyPriority  Urgency = "priority"
	UrgencyEmergency Urgency = "emergency"
)

// Provenance marks whether a medication entry's fields came from the
// curated knowledge store or from model-generated text.
type Provenance string

const (
	ProvenanceKnowledgeStore Provenance = "knowledge_store"
	ProvenanceModelGenerated Provenance = "model_generated"
)

type Diagnosis struct {
	ICDCode    string  `json:"icd_code" bson:"icd_code"`
	NameEN     string  `json:"english_name" bson:"english_name"`
	NameTH     string  `json:"thai_name" bson:"thai_name"`
	Confidence float64 `json:"confidence" bson:"confidence"`
}

// MedicationEntry merges knowledge-store fields (name, dosage) with
// model-generated fields (duration, frequency, instructions). The
// knowledge-store fields are fixed at retrieval and never altered by
// the instruction-generation step.
type MedicationEntry struct {
	NameEN                  string     `json:"english_name" bson:"english_name"`
	NameTH                  string     `json:"thai_name" bson:"thai_name"`
	Dosage                  string     `json:"dosage" bson:"dosage"`
	Duration                string     `json:"duration,omitempty" bson:"duration,omitempty"`
	Frequency               string     `json:"frequency,omitempty" bson:"frequency,omitempty"`
	Instructions            string     `json:"instructions,omitempty" bson:"instructions,omitempty"`
	Warnings                []string   `json:"warnings,omitempty" bson:"warnings,omitempty"`
	Provenance              Provenance `json:"provenance" bson:"provenance"`
	InstructionsUnavailable bool       `json:"instructions_unavailable,omitempty" bson:"instructions_unavailable,omitempty"`
}

// AIResponsePackage is the unit that flows through the approval
// workflow. Immutable once created; a doctor edit produces a new
// revision, never an overwrite.
type AIResponsePackage struct {
	PackageID           string            `json:"package_id" bson:"_id"`
	SessionID           string            `json:"session_id" bson:"session_id"`
	Revision            int               `json:"revision" bson:"revision"`
	PrimaryDiagnosis    Diagnosis         `json:"primary_diagnosis" bson:"primary_diagnosis"`
	Differentials       []Diagnosis       `json:"differential_diagnoses,omitempty" bson:"differential_diagnoses,omitempty"`
	Medications         []MedicationEntry `json:"medications" bson:"medications"`
	Urgency             Urgency           `json:"urgency" bson:"urgency"`
	Confidence          float64           `json:"confidence" bson:"confidence"`
	TranslationDegraded bool              `json:"translation_degraded,omitempty" bson:"translation_degraded,omitempty"`
	PatientMessage      string            `json:"patient_message" bson:"patient_message"`
	PatientContext      *PatientContext   `json:"patient_context,omitempty" bson:"patient_context,omitempty"`
	CreatedAt           time.Time         `json:"created_at" bson:"created_at"`
}
