package contracts

import (
	"context"
	"medichat-service/internal/app/models"
)

// SessionRepository stores ConsultationSessions. Sessions are never
// deleted, only updated to closed.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.ConsultationSession) error
	FindSessionByID(ctx context.Context, sessionID string) (*models.ConsultationSession, error)
	UpdateSession(ctx context.Context, session *models.ConsultationSession) error
}
