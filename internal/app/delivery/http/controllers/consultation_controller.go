package controllers

import (
	"context"
	"medichat-service/internal/app/config"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/dto/requests"
	"medichat-service/internal/pkg/dto/responses"
	"medichat-service/internal/pkg/exceptions"
	"medichat-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ConsultationController struct {
	Log                 *zap.Logger
	ConsultationUsecase contracts.ConsultationUsecase
	StageTimeout        time.Duration
}

var (
	consultationControllerInstance *ConsultationController
	onceConsultationController     sync.Once
)

func NewConsultationController(logger *zap.Logger, consultationUsecase contracts.ConsultationUsecase, internalConfig *config.InternalConfig) *ConsultationController {
	onceConsultationController.Do(func() {
		instance := &ConsultationController{
			Log:                 logger,
			ConsultationUsecase: consultationUsecase,
			StageTimeout:        time.Duration(internalConfig.Pipeline.StageTimeoutInSeconds) * time.Second,
		}
		consultationControllerInstance = instance
	})
	return consultationControllerInstance
}

func (ctrl *ConsultationController) Chat(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ConsultationController.Chat requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("ConsultationController.Chat called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.ConsultationChat)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("ConsultationController.Chat error decoding request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("ConsultationController.Chat error validating request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.StageTimeout)
	defer cancel()

	result, err := ctrl.ConsultationUsecase.ProcessMessage(ctx, request)
	if err != nil {
		ctrl.Log.Error("ConsultationController.Chat error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("ConsultationController.Chat succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, result.Metadata.SessionID),
		zap.String(constvars.LoggingResponseTypeKey, result.Type),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ConsultationProcessedSuccessMessage, result)
}

func (ctrl *ConsultationController) GetSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ConsultationController.GetSession requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	sessionID := chi.URLParam(r, "session_id")
	ctrl.Log.Info("ConsultationController.GetSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	session, err := ctrl.ConsultationUsecase.FindSessionByID(ctx, sessionID)
	if err != nil {
		ctrl.Log.Error("ConsultationController.GetSession error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result := &responses.Session{
		SessionID: session.SessionID,
		Status:    session.Status,
		Context:   session.Context,
		Exchanges: session.Exchanges,
		Final:     finalConsultation(session),
	}

	ctrl.Log.Info("ConsultationController.GetSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SessionGetSuccessMessage, result)
}

func (ctrl *ConsultationController) CloseSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ConsultationController.CloseSession requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	sessionID := chi.URLParam(r, "session_id")
	ctrl.Log.Info("ConsultationController.CloseSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	session, err := ctrl.ConsultationUsecase.CloseSession(ctx, sessionID)
	if err != nil {
		ctrl.Log.Error("ConsultationController.CloseSession error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result := &responses.Session{
		SessionID: session.SessionID,
		Status:    session.Status,
	}

	ctrl.Log.Info("ConsultationController.CloseSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SessionClosedSuccessMessage, result)
}

// finalConsultation surfaces the most recent physician-delivered
// exchange. Sessions still awaiting a decision have none.
func finalConsultation(session *models.ConsultationSession) *responses.Consultation {
	if session.Status != models.SessionActive {
		return nil
	}
	for i := len(session.Exchanges) - 1; i >= 0; i-- {
		exchange := session.Exchanges[i]
		if exchange.Role != models.RolePhysician {
			continue
		}
		return &responses.Consultation{
			Type:      responses.ConsultationTypeFinal,
			Message:   exchange.Content,
			PackageID: exchange.PackageID,
			Metadata: responses.ConsultationMetadata{
				SessionID: session.SessionID,
			},
		}
	}
	return nil
}
