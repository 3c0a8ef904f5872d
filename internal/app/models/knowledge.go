package models

type KnowledgeKind string

const (
	KindMedicine  KnowledgeKind = "medicine"
	KindTreatment KnowledgeKind = "treatment"
	KindDiagnosis KnowledgeKind = "diagnosis"
)

// KnowledgeEntry is a read-only record from the curated knowledge
// store. The engine treats it as immutable for the duration of a
// lookup.
type KnowledgeEntry struct {
	ID          string        `json:"id"`
	Kind        KnowledgeKind `json:"kind"`
	NameEN      string        `json:"english_name"`
	NameTH      string        `json:"thai_name"`
	ICDCode     string        `json:"icd_code,omitempty"`
	Category    string        `json:"category,omitempty"`
	Description string        `json:"description,omitempty"`
	Dosage      string        `json:"dosage,omitempty"`
	Safety      []string      `json:"safety,omitempty"`
}
