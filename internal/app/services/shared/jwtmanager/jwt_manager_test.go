package jwtmanager

import (
	"context"
	"medichat-service/internal/app/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	cfg := &config.InternalConfig{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpTimeInHour = 1
	manager, err := NewJWTManager(cfg, zap.NewNop())
	assert.NoError(t, err)
	return manager
}

func TestJWTManager(t *testing.T) {
	t.Run("round trip recovers reviewer identity", func(t *testing.T) {
		manager := newTestManager(t)

		created, err := manager.CreateToken(context.Background(), &CreateTokenInput{ReviewerID: "dr-somchai"})
		assert.NoError(t, err)
		assert.NotEmpty(t, created.Token)

		verified, err := manager.VerifyToken(context.Background(), &VerifyTokenInput{Token: created.Token})
		assert.NoError(t, err)
		assert.True(t, verified.Valid)
		assert.Equal(t, "dr-somchai", verified.ReviewerID)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		manager := newTestManager(t)

		otherCfg := &config.InternalConfig{}
		otherCfg.JWT.Secret = "other-secret"
		otherCfg.JWT.ExpTimeInHour = 1
		other, err := NewJWTManager(otherCfg, zap.NewNop())
		assert.NoError(t, err)

		created, err := other.CreateToken(context.Background(), &CreateTokenInput{ReviewerID: "dr-somchai"})
		assert.NoError(t, err)

		verified, err := manager.VerifyToken(context.Background(), &VerifyTokenInput{Token: created.Token})
		assert.NoError(t, err)
		assert.False(t, verified.Valid)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		manager := newTestManager(t)

		verified, err := manager.VerifyToken(context.Background(), &VerifyTokenInput{Token: "not-a-token"})
		assert.NoError(t, err)
		assert.False(t, verified.Valid)
	})

	t.Run("requires reviewer ID to mint", func(t *testing.T) {
		manager := newTestManager(t)

		_, err := manager.CreateToken(context.Background(), &CreateTokenInput{ReviewerID: "  "})
		assert.Error(t, err)
	})

	t.Run("requires a configured secret", func(t *testing.T) {
		cfg := &config.InternalConfig{}
		cfg.JWT.ExpTimeInHour = 1
		_, err := NewJWTManager(cfg, zap.NewNop())
		assert.Error(t, err)
	})
}
