package consultations

import (
	"context"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
)

// SessionRedisRepository keeps sessions under a key prefix with no
// expiration: sessions are never deleted, only closed.
type SessionRedisRepository struct {
	redis contracts.RedisRepository
}

func NewSessionRedisRepository(redis contracts.RedisRepository) contracts.SessionRepository {
	return &SessionRedisRepository{redis: redis}
}

func sessionKey(sessionID string) string {
	return constvars.RedisSessionKeyPrefix + sessionID
}

func (r *SessionRedisRepository) CreateSession(ctx context.Context, session *models.ConsultationSession) error {
	return r.redis.Set(ctx, sessionKey(session.SessionID), session, 0)
}

func (r *SessionRedisRepository) FindSessionByID(ctx context.Context, sessionID string) (*models.ConsultationSession, error) {
	raw, err := r.redis.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var session models.ConsultationSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return &session, nil
}

func (r *SessionRedisRepository) UpdateSession(ctx context.Context, session *models.ConsultationSession) error {
	return r.redis.Set(ctx, sessionKey(session.SessionID), session, 0)
}
