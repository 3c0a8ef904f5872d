package contracts

import (
	"context"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/dto/requests"
	"medichat-service/internal/pkg/dto/responses"
)

// ConsultationUsecase turns one inbound patient message into either an
// emergency escalation or a package awaiting physician approval.
type ConsultationUsecase interface {
	ProcessMessage(ctx context.Context, request *requests.ConsultationChat) (*responses.Consultation, error)
	FindSessionByID(ctx context.Context, sessionID string) (*models.ConsultationSession, error)
	CloseSession(ctx context.Context, sessionID string) (*models.ConsultationSession, error)
}
