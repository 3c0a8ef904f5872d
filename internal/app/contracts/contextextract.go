package contracts

import (
	"context"
	"medichat-service/internal/app/models"
)

// ContextExtractor parses free-text patient messages into a structured
// PatientContext. Fields are extracted independently; unparseable
// fields stay null/empty rather than defaulted. Completeness is the
// fraction of field groups that yielded a value.
type ContextExtractor interface {
	Extract(ctx context.Context, message, dialect string) (*models.PatientContext, float64)
}
