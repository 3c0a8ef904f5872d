package responses

import (
	"medichat-service/internal/app/models"
	"time"
)

type PendingApproval struct {
	PackageID           string                   `json:"package_id"`
	SessionID           string                   `json:"session_id"`
	State               models.ApprovalState     `json:"state"`
	Urgency             models.Urgency           `json:"urgency"`
	PatientMessage      string                   `json:"patient_message"`
	Diagnosis           models.Diagnosis         `json:"diagnosis"`
	Medications         []models.MedicationEntry `json:"medications"`
	TranslationDegraded bool                     `json:"translation_degraded,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
}

type ApprovalDecision struct {
	Success        bool                 `json:"success"`
	PackageID      string               `json:"package_id"`
	ResultingState models.ApprovalState `json:"resulting_state"`
}

type ApprovalClaim struct {
	PackageID      string               `json:"package_id"`
	ReviewerID     string               `json:"reviewer_id"`
	State          models.ApprovalState `json:"state"`
	ClaimExpiresAt *time.Time           `json:"claim_expires_at,omitempty"`
}
