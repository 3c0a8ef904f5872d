package controllers

import (
	"context"
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

type ApprovalController struct {
	Log             *zap.Logger
	ApprovalUsecase contracts.ApprovalUsecase
}

var (
	approvalControllerInstance *ApprovalController
	onceApprovalController     sync.Once
)

func NewApprovalController(logger *zap.Logger, approvalUsecase contracts.ApprovalUsecase) *ApprovalController {
	onceApprovalController.Do(func() {
		instance := &ApprovalController{
			Log:             logger,
			ApprovalUsecase: approvalUsecase,
		}
		approvalControllerInstance = instance
	})
	return approvalControllerInstance
}

func (ctrl *ApprovalController) ListPending(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ApprovalController.ListPending requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("ApprovalController.ListPending called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	records, err := ctrl.ApprovalUsecase.ListPending(ctx)
	if err != nil {
		ctrl.Log.Error("ApprovalController.ListPending error from usecase",
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

	result := make([]responses.PendingApproval, 0, len(records))
	for _, record := range records {
		pkg, err := ctrl.ApprovalUsecase.FindPackage(ctx, record.PackageID)
		if err != nil {
			ctrl.Log.Error("ApprovalController.ListPending error loading package",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPackageIDKey, record.PackageID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
		result = append(result, responses.PendingApproval{
			PackageID:           record.PackageID,
			SessionID:           record.SessionID,
			State:               record.State,
			Urgency:             pkg.Urgency,
			PatientMessage:      pkg.PatientMessage,
			Diagnosis:           pkg.PrimaryDiagnosis,
			Medications:         pkg.Medications,
			TranslationDegraded: pkg.TranslationDegraded,
			CreatedAt:           record.CreatedAt,
		})
	}

	ctrl.Log.Info("ApprovalController.ListPending succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(result)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PendingApprovalsGetSuccessMessage, result)
}

func (ctrl *ApprovalController) Claim(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ApprovalController.Claim requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	reviewerID, ok := r.Context().Value(constvars.CONTEXT_REVIEWER_ID_KEY).(string)
	if !ok || reviewerID == "" {
		ctrl.Log.Error("ApprovalController.Claim reviewerID not found in context",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingReviewerID(nil))
		return
	}
	packageID := chi.URLParam(r, "package_id")
	ctrl.Log.Info("ApprovalController.Claim called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPackageIDKey, packageID),
		zap.String(constvars.LoggingReviewerIDKey, reviewerID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	record, err := ctrl.ApprovalUsecase.Claim(ctx, packageID, reviewerID)
	if err != nil {
		ctrl.Log.Error("ApprovalController.Claim error from usecase",
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

	result := &responses.ApprovalClaim{
		PackageID:      record.PackageID,
		ReviewerID:     record.ReviewerID,
		State:          record.State,
		ClaimExpiresAt: record.ClaimExpiresAt,
	}

	ctrl.Log.Info("ApprovalController.Claim succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPackageIDKey, packageID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ApprovalClaimedSuccessMessage, result)
}

func (ctrl *ApprovalController) Decide(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ApprovalController.Decide requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	reviewerID, ok := r.Context().Value(constvars.CONTEXT_REVIEWER_ID_KEY).(string)
	if !ok || reviewerID == "" {
		ctrl.Log.Error("ApprovalController.Decide reviewerID not found in context",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingReviewerID(nil))
		return
	}
	packageID := chi.URLParam(r, "package_id")
	ctrl.Log.Info("ApprovalController.Decide called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPackageIDKey, packageID),
		zap.String(constvars.LoggingReviewerIDKey, reviewerID),
	)

	request := new(requests.ApprovalDecision)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("ApprovalController.Decide error decoding request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("ApprovalController.Decide error validating request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	decision := &contracts.ApprovalDecision{
		PackageID:     packageID,
		ReviewerID:    reviewerID,
		Action:        models.DecisionAction(request.Action),
		EditedContent: request.EditedContent,
		Reason:        request.Reason,
		Notes:         request.Notes,
	}

	record, err := ctrl.ApprovalUsecase.Decide(ctx, decision)
	if err != nil {
		ctrl.Log.Error("ApprovalController.Decide error from usecase",
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

	result := &responses.ApprovalDecision{
		Success:        true,
		PackageID:      record.PackageID,
		ResultingState: record.State,
	}

	ctrl.Log.Info("ApprovalController.Decide succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPackageIDKey, packageID),
		zap.String(constvars.LoggingStateKey, string(record.State)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ApprovalDecidedSuccessMessage, result)
}
