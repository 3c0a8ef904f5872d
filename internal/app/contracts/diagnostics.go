package contracts

import (
	"context"
	"medichat-service/internal/app/models"
)

type DiagnosticInput struct {
	SessionID           string
	PivotSymptoms       string
	OriginalText        string
	PatientContext      *models.PatientContext
	Emergency           *EmergencyResult
	TranslationDegraded bool
}

// DiagnosticPipeline sequences diagnosis generation, knowledge-store
// retrieval, and per-medicine instruction generation into one
// AIResponsePackage. A diagnosis-step failure degrades to a
// conservative fallback package instead of propagating.
type DiagnosticPipeline interface {
	BuildResponsePackage(ctx context.Context, in *DiagnosticInput) (*models.AIResponsePackage, error)
}
