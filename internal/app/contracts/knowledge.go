package contracts

import (
	"context"
	"medichat-service/internal/app/models"
)

// KnowledgeStore is the read-only lookup over the curated knowledge
// snapshot. Zero matches is a valid, non-exceptional outcome. Results
// are deterministic for a fixed snapshot and ranked most specific
// first.
type KnowledgeStore interface {
	Lookup(ctx context.Context, keyword string) ([]models.KnowledgeEntry, error)
}
