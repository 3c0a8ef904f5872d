package responses

import "medichat-service/internal/app/models"

const (
	ConsultationTypeEmergency = "emergency"
	ConsultationTypePending   = "pending_doctor_approval"
	ConsultationTypeFinal     = "final"
)

type ConsultationMetadata struct {
	ProcessingTimeMs int64  `json:"processing_time_ms"`
	SessionID        string `json:"session_id"`
}

type Consultation struct {
	Type                string                   `json:"type"`
	Message             string                   `json:"message"`
	Diagnosis           *models.Diagnosis        `json:"diagnosis,omitempty"`
	Treatment           []models.MedicationEntry `json:"treatment,omitempty"`
	Urgency             models.Urgency           `json:"urgency,omitempty"`
	PackageID           string                   `json:"package_id,omitempty"`
	TranslationDegraded bool                     `json:"translation_degraded,omitempty"`
	EmergencyKeywords   []string                 `json:"emergency_keywords,omitempty"`
	Metadata            ConsultationMetadata     `json:"metadata"`
}

type Session struct {
	SessionID string                 `json:"session_id"`
	Status    models.SessionStatus   `json:"status"`
	Context   *models.PatientContext `json:"context,omitempty"`
	Exchanges []models.Exchange      `json:"exchanges"`
	// Final is set once a physician decision has been delivered to the
	// session: the approved, edited, or rejection response.
	Final *Consultation `json:"final_response,omitempty"`
}
