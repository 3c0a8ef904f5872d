package approvals

import (
	"context"
	"fmt"
	"medichat-service/internal/app/config"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/exceptions"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	approvalUsecaseInstance contracts.ApprovalUsecase
	onceApprovalUsecase     sync.Once
)

type approvalUsecase struct {
	repo          contracts.ApprovalRepository
	sessionRepo   contracts.SessionRepository
	translator    contracts.TranslationCoordinator
	dispatcher    contracts.NotificationDispatcher
	claimTimeout  time.Duration
	sourceDialect string
	historyLimit  int
	Log           *zap.Logger
}

func NewApprovalUsecase(
	repo contracts.ApprovalRepository,
	sessionRepo contracts.SessionRepository,
	translator contracts.TranslationCoordinator,
	dispatcher contracts.NotificationDispatcher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ApprovalUsecase {
	onceApprovalUsecase.Do(func() {
		approvalUsecaseInstance = &approvalUsecase{
			repo:          repo,
			sessionRepo:   sessionRepo,
			translator:    translator,
			dispatcher:    dispatcher,
			claimTimeout:  time.Duration(internalConfig.Approval.ClaimTimeoutInMinutes) * time.Minute,
			sourceDialect: internalConfig.Pipeline.SourceDialect,
			historyLimit:  internalConfig.Pipeline.SessionHistoryLimit,
			Log:           logger,
		}
	})
	return approvalUsecaseInstance
}

// RegisterPackage persists the package with its approval record and
// runs the automatic transition out of created. Emergency packages
// bypass the approval pool entirely.
func (u *approvalUsecase) RegisterPackage(ctx context.Context, pkg *models.AIResponsePackage) (*models.ApprovalRecord, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if err := u.repo.CreatePackage(ctx, pkg); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &models.ApprovalRecord{
		PackageID: pkg.PackageID,
		SessionID: pkg.SessionID,
		State:     models.StateCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if pkg.Urgency == models.UrgencyEmergency {
		if err := u.repo.CreateApprovalRecord(ctx, record); err != nil {
			return nil, err
		}
		escalated, err := u.repo.FinalizeEscalation(ctx, pkg.PackageID, now)
		if err != nil {
			return nil, err
		}
		u.Log.Warn("approvalUsecase.RegisterPackage emergency bypass",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPackageIDKey, pkg.PackageID),
			zap.String(constvars.LoggingSessionIDKey, pkg.SessionID),
		)
		u.publish(ctx, models.EventEmergencyEscalated, escalated, pkg.Urgency)
		return escalated, nil
	}

	record.State = models.StateAwaitingApproval
	if err := u.repo.CreateApprovalRecord(ctx, record); err != nil {
		return nil, err
	}

	u.Log.Info("approvalUsecase.RegisterPackage queued for approval",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPackageIDKey, pkg.PackageID),
		zap.String(constvars.LoggingStateKey, string(record.State)),
	)
	u.publish(ctx, models.EventPackageCreated, record, pkg.Urgency)
	return record, nil
}

// ListPending returns the unclaimed pool: awaiting records with no live
// claim. Records whose claim expired without a decision reappear here.
func (u *approvalUsecase) ListPending(ctx context.Context) ([]*models.ApprovalRecord, error) {
	records, err := u.repo.ListAwaitingApproval(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pending := make([]*models.ApprovalRecord, 0, len(records))
	for _, record := range records {
		if record.Unclaimed(now) {
			pending = append(pending, record)
		}
	}
	return pending, nil
}

func (u *approvalUsecase) FindPackage(ctx context.Context, packageID string) (*models.AIResponsePackage, error) {
	pkg, err := u.repo.FindPackageByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, exceptions.ErrPackageNotFound(fmt.Errorf("package %s missing", packageID))
	}
	return pkg, nil
}

func (u *approvalUsecase) Claim(ctx context.Context, packageID, reviewerID string) (*models.ApprovalRecord, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	record, err := u.repo.FindApprovalByPackageID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, exceptions.ErrApprovalRecordNotFound(fmt.Errorf("package %s has no approval record", packageID))
	}
	if record.State.IsTerminal() {
		return nil, exceptions.ErrInvalidApprovalTransition(fmt.Errorf("package %s already in terminal state %s", packageID, record.State))
	}

	expiresAt := time.Now().UTC().Add(u.claimTimeout)
	claimed, err := u.repo.ClaimApproval(ctx, packageID, reviewerID, expiresAt)
	if err != nil {
		return nil, err
	}
	if claimed == nil {
		return nil, exceptions.ErrApprovalAlreadyClaimed(fmt.Errorf("package %s held by another reviewer", packageID))
	}

	u.Log.Info("approvalUsecase.Claim granted",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPackageIDKey, packageID),
		zap.String(constvars.LoggingReviewerIDKey, reviewerID),
	)
	u.publish(ctx, models.EventApprovalClaimed, claimed, "")
	return claimed, nil
}

func (u *approvalUsecase) Decide(ctx context.Context, decision *contracts.ApprovalDecision) (*models.ApprovalRecord, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	nextState, err := validateDecision(decision)
	if err != nil {
		return nil, err
	}

	record, err := u.repo.FindApprovalByPackageID(ctx, decision.PackageID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, exceptions.ErrApprovalRecordNotFound(fmt.Errorf("package %s has no approval record", decision.PackageID))
	}
	if record.State.IsTerminal() {
		return nil, exceptions.ErrInvalidApprovalTransition(fmt.Errorf("package %s already in terminal state %s", decision.PackageID, record.State))
	}

	now := time.Now().UTC()
	updated := &models.ApprovalRecord{
		State:         nextState,
		DecidedAt:     &now,
		ReviewerNotes: decision.Notes,
	}

	switch decision.Action {
	case models.ActionApprove:
		original, err := u.repo.FindPackageByID(ctx, decision.PackageID)
		if err != nil {
			return nil, err
		}
		if original == nil {
			return nil, exceptions.ErrPackageNotFound(fmt.Errorf("package %s missing", decision.PackageID))
		}
		updated.DeliveredContent = u.renderApprovedPackage(ctx, original)
	case models.ActionEdit:
		original, err := u.repo.FindPackageByID(ctx, decision.PackageID)
		if err != nil {
			return nil, err
		}
		if original == nil {
			return nil, exceptions.ErrPackageNotFound(fmt.Errorf("package %s missing", decision.PackageID))
		}
		// The edit is a new revision; the original package is kept
		// untouched for audit.
		revised := *original
		revised.Revision = original.Revision + 1
		updated.EditedPackage = &revised
		updated.DeliveredContent = decision.EditedContent
	case models.ActionReject:
		updated.RejectReason = decision.Reason
		updated.DeliveredContent = rejectionMessage(decision.Reason)
	}

	decided, err := u.repo.DecideApproval(ctx, decision.PackageID, decision.ReviewerID, updated)
	if err != nil {
		return nil, err
	}
	if decided == nil {
		return nil, exceptions.ErrApprovalNotClaimedByReviewer(fmt.Errorf("reviewer %s does not hold a live claim on package %s", decision.ReviewerID, decision.PackageID))
	}

	u.Log.Info("approvalUsecase.Decide recorded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPackageIDKey, decision.PackageID),
		zap.String(constvars.LoggingReviewerIDKey, decision.ReviewerID),
		zap.String(constvars.LoggingStateKey, string(decided.State)),
	)
	u.deliverToSession(ctx, decided)
	u.publish(ctx, models.EventApprovalDecided, decided, "")
	return decided, nil
}

// deliverToSession appends the decided content as a physician exchange
// and moves the session back to active. The decision itself is already
// durable; a delivery failure is logged and the content stays
// retrievable on the approval record.
func (u *approvalUsecase) deliverToSession(ctx context.Context, record *models.ApprovalRecord) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	session, err := u.sessionRepo.FindSessionByID(ctx, record.SessionID)
	if err != nil || session == nil {
		u.Log.Error("approvalUsecase.deliverToSession session lookup failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, record.SessionID),
			zap.String(constvars.LoggingPackageIDKey, record.PackageID),
			zap.Error(err),
		)
		return
	}

	now := time.Now().UTC()
	session.AppendExchange(models.Exchange{
		Role:      models.RolePhysician,
		Content:   record.DeliveredContent,
		PackageID: record.PackageID,
		Timestamp: now,
	}, u.historyLimit)
	session.Status = models.DeriveStatus(record.State)
	session.UpdatedAt = now
	if err := u.sessionRepo.UpdateSession(ctx, session); err != nil {
		u.Log.Error("approvalUsecase.deliverToSession update failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, record.SessionID),
			zap.Error(err),
		)
	}
}

// renderApprovedPackage flattens the package into the patient-facing
// message. Model-generated instruction text is still in the pivot
// language at this point and goes through the second translation hop;
// knowledge-store fields already carry Thai names.
func (u *approvalUsecase) renderApprovedPackage(ctx context.Context, pkg *models.AIResponsePackage) string {
	var b strings.Builder
	diagnosisName := pkg.PrimaryDiagnosis.NameTH
	if diagnosisName == "" {
		diagnosisName = pkg.PrimaryDiagnosis.NameEN
	}
	fmt.Fprintf(&b, "ผลการวินิจฉัยเบื้องต้น: %s (%s)\n", diagnosisName, pkg.PrimaryDiagnosis.ICDCode)

	if len(pkg.Medications) > 0 {
		b.WriteString("ยาที่แนะนำ:\n")
	}
	for _, med := range pkg.Medications {
		name := med.NameTH
		if name == "" {
			name = med.NameEN
		}
		fmt.Fprintf(&b, "- %s %s", name, med.Dosage)
		if med.Frequency != "" {
			fmt.Fprintf(&b, " %s", med.Frequency)
		}
		if med.Duration != "" {
			fmt.Fprintf(&b, " เป็นเวลา %s", med.Duration)
		}
		b.WriteString("\n")
		if med.Instructions != "" {
			instructions := u.translator.ToSource(ctx, med.Instructions, u.sourceDialect)
			fmt.Fprintf(&b, "  วิธีใช้: %s\n", instructions.Text)
		}
		for _, warning := range med.Warnings {
			fmt.Fprintf(&b, "  คำเตือน: %s\n", warning)
		}
	}

	b.WriteString("คำแนะนำนี้ผ่านการตรวจสอบโดยแพทย์แล้ว หากอาการไม่ดีขึ้นภายใน 2-3 วัน กรุณาพบแพทย์")
	return b.String()
}

func rejectionMessage(reason string) string {
	return fmt.Sprintf(
		"แพทย์ได้ตรวจสอบข้อมูลของคุณแล้ว: %s กรุณาพบแพทย์เพื่อรับการตรวจวินิจฉัยโดยตรง",
		reason,
	)
}

func validateDecision(decision *contracts.ApprovalDecision) (models.ApprovalState, error) {
	switch decision.Action {
	case models.ActionApprove:
		return models.StateApproved, nil
	case models.ActionEdit:
		if decision.EditedContent == "" {
			return "", exceptions.ErrEditContentRequired(fmt.Errorf("edit decision without replacement content"))
		}
		return models.StateEdited, nil
	case models.ActionReject:
		if decision.Reason == "" {
			return "", exceptions.ErrRejectReasonRequired(fmt.Errorf("reject decision without reason"))
		}
		return models.StateRejected, nil
	default:
		return "", exceptions.ErrInputValidation(fmt.Errorf("unknown action %q", decision.Action))
	}
}

// The workflow outcome is already durable by the time we publish, so a
// notification failure only loses the push, not the decision.
func (u *approvalUsecase) publish(ctx context.Context, eventType models.EventType, record *models.ApprovalRecord, urgency models.Urgency) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	err := u.dispatcher.Publish(ctx, models.NotificationEvent{
		Type:      eventType,
		SessionID: record.SessionID,
		PackageID: record.PackageID,
		State:     record.State,
		Urgency:   urgency,
		Message:   record.DeliveredContent,
		EmittedAt: time.Now().UTC(),
	})
	if err != nil {
		u.Log.Warn("approvalUsecase.publish notification dropped",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPackageIDKey, record.PackageID),
			zap.String(constvars.LoggingEventTypeKey, string(eventType)),
			zap.Error(err),
		)
	}
}
