package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"medichat-service/internal/app/config"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/delivery/http/controllers"
	"medichat-service/internal/app/delivery/http/middlewares"
	"medichat-service/internal/app/models"
	"medichat-service/internal/app/services/shared/jwtmanager"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/dto/requests"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockApprovalUsecase struct {
	mock.Mock
}

func (m *MockApprovalUsecase) RegisterPackage(ctx context.Context, pkg *models.AIResponsePackage) (*models.ApprovalRecord, error) {
	args := m.Called(ctx, pkg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalRecord), args.Error(1)
}

func (m *MockApprovalUsecase) ListPending(ctx context.Context) ([]*models.ApprovalRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ApprovalRecord), args.Error(1)
}

func (m *MockApprovalUsecase) FindPackage(ctx context.Context, packageID string) (*models.AIResponsePackage, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AIResponsePackage), args.Error(1)
}

func (m *MockApprovalUsecase) Claim(ctx context.Context, packageID, reviewerID string) (*models.ApprovalRecord, error) {
	args := m.Called(ctx, packageID, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalRecord), args.Error(1)
}

func (m *MockApprovalUsecase) Decide(ctx context.Context, decision *contracts.ApprovalDecision) (*models.ApprovalRecord, error) {
	args := m.Called(ctx, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalRecord), args.Error(1)
}

func TestApprovalRouter_ReviewerAuth(t *testing.T) {
	logger := zap.NewNop()

	internalConfig := &config.InternalConfig{
		JWT: config.JWT{
			Secret:        "test-secret",
			ExpTimeInHour: 1,
		},
	}

	jwtManager, err := jwtmanager.NewJWTManager(internalConfig, logger)
	assert.NoError(t, err)

	mockApprovalUsecase := new(MockApprovalUsecase)

	approvalController := controllers.NewApprovalController(logger, mockApprovalUsecase)

	middlewareInstance := &middlewares.Middlewares{
		Log:            logger,
		JWTManager:     jwtManager,
		InternalConfig: internalConfig,
	}

	router := chi.NewRouter()
	router.Use(middlewareInstance.RequestIDMiddleware)
	attachApprovalRoutes(router, middlewareInstance, approvalController)

	mintToken := func(t *testing.T, reviewerID string) string {
		out, err := jwtManager.CreateToken(context.Background(), &jwtmanager.CreateTokenInput{ReviewerID: reviewerID})
		assert.NoError(t, err)
		return out.Token
	}

	t.Run("pending without token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/pending", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("pending with garbage token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/pending", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer not-a-token")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("claim carries reviewer identity from the token", func(t *testing.T) {
		expiresAt := time.Now().UTC().Add(15 * time.Minute)
		mockApprovalUsecase.On("Claim", mock.Anything, "pkg_1", "dr-somchai").Return(&models.ApprovalRecord{
			PackageID:      "pkg_1",
			ReviewerID:     "dr-somchai",
			State:          models.StateAwaitingApproval,
			ClaimExpiresAt: &expiresAt,
		}, nil).Once()

		req := httptest.NewRequest("POST", "/pkg_1/claim", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+mintToken(t, "dr-somchai"))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockApprovalUsecase.AssertExpectations(t)
	})

	t.Run("decision body is validated before the usecase runs", func(t *testing.T) {
		requestBody := requests.ApprovalDecision{
			Action: "discard",
		}
		jsonBody, _ := json.Marshal(requestBody)

		req := httptest.NewRequest("POST", "/pkg_1/decision", bytes.NewBuffer(jsonBody))
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+mintToken(t, "dr-somchai"))
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockApprovalUsecase.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything)
	})
}
