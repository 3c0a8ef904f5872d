package jwtmanager

import (
	"context"
	"fmt"
	"medichat-service/internal/app/config"
	"medichat-service/internal/pkg/constvars"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// JWTManager handles token creation and verification for reviewing
// physicians on the approval endpoints. Tokens are HS256 with the
// reviewer identity in the reviewer_id claim.
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	ttl    time.Duration
}

// CreateTokenInput defines input parameters for token creation.
type CreateTokenInput struct {
	ReviewerID string
}

// CreateTokenOutput contains the signed token string.
type CreateTokenOutput struct {
	Token string
}

// VerifyTokenInput defines parameters for token verification.
type VerifyTokenInput struct {
	Token string
}

// VerifyTokenOutput contains verification result and the reviewer identity.
type VerifyTokenOutput struct {
	Valid      bool
	ReviewerID string
}

func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) (*JWTManager, error) {
	secret := strings.TrimSpace(cfg.JWT.Secret)
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	return &JWTManager{
		log:    log,
		secret: []byte(secret),
		ttl:    time.Duration(cfg.JWT.ExpTimeInHour) * time.Hour,
	}, nil
}

// CreateToken generates a signed JWT identifying the reviewer.
func (j *JWTManager) CreateToken(ctx context.Context, in *CreateTokenInput) (*CreateTokenOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Info("JWTManager.CreateToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if in == nil || strings.TrimSpace(in.ReviewerID) == "" {
		return nil, fmt.Errorf("reviewer ID is required")
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"reviewer_id": in.ReviewerID,
		"iat":         now.Unix(),
		"nbf":         now.Unix(),
		"exp":         now.Add(j.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return nil, err
	}
	return &CreateTokenOutput{Token: signed}, nil
}

// VerifyToken validates a token's signature and expiry and extracts the
// reviewer identity. An invalid token yields Valid=false, not an error.
func (j *JWTManager) VerifyToken(ctx context.Context, in *VerifyTokenInput) (*VerifyTokenOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Info("JWTManager.VerifyToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if in == nil || strings.TrimSpace(in.Token) == "" {
		return &VerifyTokenOutput{Valid: false}, fmt.Errorf("token is required")
	}

	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Header["alg"])
		}
		return j.secret, nil
	}

	parsed, err := jwt.Parse(in.Token, keyFunc)
	if err != nil || !parsed.Valid {
		return &VerifyTokenOutput{Valid: false}, nil
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return &VerifyTokenOutput{Valid: false}, nil
	}
	reviewerID, _ := claims["reviewer_id"].(string)
	if reviewerID == "" {
		return &VerifyTokenOutput{Valid: false}, nil
	}

	return &VerifyTokenOutput{Valid: true, ReviewerID: reviewerID}, nil
}
