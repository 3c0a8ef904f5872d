package consultations

import (
	"context"
	"fmt"
	"medichat-service/internal/app/config"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/dto/requests"
	"medichat-service/internal/pkg/dto/responses"
	"medichat-service/internal/pkg/exceptions"
	"medichat-service/internal/pkg/utils"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	consultationUsecaseInstance contracts.ConsultationUsecase
	onceConsultationUsecase     sync.Once
)

type consultationUsecase struct {
	sessionRepo     contracts.SessionRepository
	locker          contracts.LockerService
	detector        contracts.EmergencyDetector
	extractor       contracts.ContextExtractor
	translator      contracts.TranslationCoordinator
	pipeline        contracts.DiagnosticPipeline
	approvalUsecase contracts.ApprovalUsecase
	stats           contracts.StatsRecorder
	defaultDialect  string
	lockTTL         time.Duration
	historyLimit    int
	Log             *zap.Logger
}

func NewConsultationUsecase(
	sessionRepo contracts.SessionRepository,
	locker contracts.LockerService,
	detector contracts.EmergencyDetector,
	extractor contracts.ContextExtractor,
	translator contracts.TranslationCoordinator,
	pipeline contracts.DiagnosticPipeline,
	approvalUsecase contracts.ApprovalUsecase,
	statsRecorder contracts.StatsRecorder,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ConsultationUsecase {
	onceConsultationUsecase.Do(func() {
		consultationUsecaseInstance = &consultationUsecase{
			sessionRepo:     sessionRepo,
			locker:          locker,
			detector:        detector,
			extractor:       extractor,
			translator:      translator,
			pipeline:        pipeline,
			approvalUsecase: approvalUsecase,
			stats:           statsRecorder,
			defaultDialect:  internalConfig.Pipeline.SourceDialect,
			lockTTL:         time.Duration(internalConfig.Pipeline.SessionLockTTLInSeconds) * time.Second,
			historyLimit:    internalConfig.Pipeline.SessionHistoryLimit,
			Log:             logger,
		}
	})
	return consultationUsecaseInstance
}

// ProcessMessage runs one message through the full pipeline. Emergency
// messages short-circuit to escalation; everything else ends as a
// package awaiting physician approval. One run per session at a time.
func (u *consultationUsecase) ProcessMessage(ctx context.Context, request *requests.ConsultationChat) (*responses.Consultation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	started := time.Now()

	dialect := request.Dialect
	if dialect == "" {
		dialect = u.defaultDialect
	}

	session, err := u.resolveSession(ctx, request.SessionID)
	if err != nil {
		return nil, err
	}

	lockKey := constvars.RedisPipelineLockKeyPrefix + session.SessionID
	locked, lockValue, err := u.locker.TryLock(ctx, lockKey, u.lockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, exceptions.ErrSessionLocked(fmt.Errorf("pipeline already running for session %s", session.SessionID))
	}
	defer func() {
		if err := u.locker.Unlock(ctx, lockKey, lockValue); err != nil {
			u.Log.Warn("consultationUsecase.ProcessMessage unlock failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSessionIDKey, session.SessionID),
				zap.Error(err),
			)
		}
	}()

	session.AppendExchange(models.Exchange{
		Role:      models.RolePatient,
		Content:   request.Message,
		Timestamp: time.Now().UTC(),
	}, u.historyLimit)

	emergency := u.detector.Detect(ctx, request.Message, dialect)
	if emergency.Verdict == contracts.VerdictCritical {
		return u.escalate(ctx, session, request, emergency, dialect, started)
	}

	extracted, completeness := u.extractor.Extract(ctx, request.Message, dialect)
	session.Context = extracted.Merge(patientContextFromRequest(request.PatientInfo))

	u.Log.Info("consultationUsecase.ProcessMessage context ready",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
		zap.Float64("completeness", completeness),
	)

	translated := u.translator.ToPivot(ctx, request.Message, dialect)

	pkg, err := u.pipeline.BuildResponsePackage(ctx, &contracts.DiagnosticInput{
		SessionID:           session.SessionID,
		PivotSymptoms:       translated.Text,
		OriginalText:        request.Message,
		PatientContext:      session.Context,
		Emergency:           emergency,
		TranslationDegraded: translated.Degraded,
	})
	if err != nil {
		return nil, err
	}

	record, err := u.approvalUsecase.RegisterPackage(ctx, pkg)
	if err != nil {
		return nil, err
	}

	session.Status = models.DeriveStatus(record.State)
	session.AppendExchange(models.Exchange{
		Role:      models.RoleAssistant,
		Content:   pendingMessage,
		PackageID: pkg.PackageID,
		Timestamp: time.Now().UTC(),
	}, u.historyLimit)
	session.UpdatedAt = time.Now().UTC()
	if err := u.sessionRepo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	u.recordStats(false, started)
	return &responses.Consultation{
		Type:                responses.ConsultationTypePending,
		Message:             pendingMessage,
		Diagnosis:           &pkg.PrimaryDiagnosis,
		Treatment:           pkg.Medications,
		Urgency:             pkg.Urgency,
		PackageID:           pkg.PackageID,
		TranslationDegraded: pkg.TranslationDegraded,
		Metadata: responses.ConsultationMetadata{
			ProcessingTimeMs: time.Since(started).Milliseconds(),
			SessionID:        session.SessionID,
		},
	}, nil
}

func (u *consultationUsecase) FindSessionByID(ctx context.Context, sessionID string) (*models.ConsultationSession, error) {
	session, err := u.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, exceptions.ErrSessionNotFound(fmt.Errorf("session %s not found", sessionID))
	}
	return session, nil
}

// CloseSession ends the consultation thread. The session record stays
// retrievable afterwards; only new messages are refused. Closing an
// already closed session is a no-op.
func (u *consultationUsecase) CloseSession(ctx context.Context, sessionID string) (*models.ConsultationSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	session, err := u.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsClosed() {
		return session, nil
	}

	session.Status = models.SessionClosed
	session.UpdatedAt = time.Now().UTC()
	if err := u.sessionRepo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	u.Log.Info("consultationUsecase.CloseSession closed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	return session, nil
}

func (u *consultationUsecase) resolveSession(ctx context.Context, sessionID string) (*models.ConsultationSession, error) {
	if sessionID != "" {
		session, err := u.sessionRepo.FindSessionByID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session != nil {
			if session.IsClosed() {
				return nil, exceptions.ErrInputValidation(fmt.Errorf("session %s is closed", sessionID))
			}
			return session, nil
		}
	}

	now := time.Now().UTC()
	session := &models.ConsultationSession{
		SessionID: sessionID,
		Status:    models.SessionActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if session.SessionID == "" {
		session.SessionID = utils.GenerateSessionID()
	}
	if err := u.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (u *consultationUsecase) escalate(
	ctx context.Context,
	session *models.ConsultationSession,
	request *requests.ConsultationChat,
	emergency *contracts.EmergencyResult,
	dialect string,
	started time.Time,
) (*responses.Consultation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	pkg, err := u.pipeline.BuildResponsePackage(ctx, &contracts.DiagnosticInput{
		SessionID:      session.SessionID,
		OriginalText:   request.Message,
		PatientContext: session.Context,
		Emergency:      emergency,
	})
	if err != nil {
		return nil, err
	}

	record, err := u.approvalUsecase.RegisterPackage(ctx, pkg)
	if err != nil {
		return nil, err
	}

	message := emergencyMessage(emergency.Keywords)
	session.Status = models.DeriveStatus(record.State)
	session.AppendExchange(models.Exchange{
		Role:      models.RoleAssistant,
		Content:   message,
		PackageID: pkg.PackageID,
		Timestamp: time.Now().UTC(),
	}, u.historyLimit)
	session.UpdatedAt = time.Now().UTC()
	if err := u.sessionRepo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	u.Log.Warn("consultationUsecase.ProcessMessage escalated",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
		zap.String(constvars.LoggingDialectKey, dialect),
		zap.Strings(constvars.LoggingKeywordKey, emergency.Keywords),
	)

	u.recordStats(true, started)
	return &responses.Consultation{
		Type:              responses.ConsultationTypeEmergency,
		Message:           message,
		Diagnosis:         &pkg.PrimaryDiagnosis,
		Urgency:           models.UrgencyEmergency,
		PackageID:         pkg.PackageID,
		EmergencyKeywords: emergency.Keywords,
		Metadata: responses.ConsultationMetadata{
			ProcessingTimeMs: time.Since(started).Milliseconds(),
			SessionID:        session.SessionID,
		},
	}, nil
}

func (u *consultationUsecase) recordStats(emergency bool, started time.Time) {
	if u.stats == nil {
		return
	}
	u.stats.RecordConsultation(emergency, time.Since(started))
}

const pendingMessage = "ระบบได้วิเคราะห์อาการเบื้องต้นแล้ว และส่งให้แพทย์ตรวจสอบก่อนส่งถึงคุณ กรุณารอการยืนยันจากแพทย์"

func emergencyMessage(keywords []string) string {
	return fmt.Sprintf(
		"ตรวจพบอาการฉุกเฉิน: %s กรุณาโทร %s ทันที หรือไปโรงพยาบาลที่ใกล้ที่สุด อย่าขับรถเอง ให้ผู้อื่นพาไป",
		strings.Join(keywords, ", "),
		constvars.EmergencyHotline,
	)
}

func patientContextFromRequest(info *requests.PatientInfo) *models.PatientContext {
	if info == nil {
		return nil
	}
	pc := &models.PatientContext{
		Age:            info.Age,
		MedicalHistory: info.MedicalHistory,
		Allergies:      info.Allergies,
		Symptoms:       info.Symptoms,
	}
	if info.Sex != nil {
		sex := models.BiologicalSex(*info.Sex)
		pc.Sex = &sex
	}
	return pc
}
