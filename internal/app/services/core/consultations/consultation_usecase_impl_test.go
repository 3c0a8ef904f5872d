package consultations

import (
	"context"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/dto/requests"
	"medichat-service/internal/pkg/dto/responses"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type memorySessionRepo struct {
	sessions map[string]*models.ConsultationSession
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[string]*models.ConsultationSession)}
}

func (r *memorySessionRepo) CreateSession(_ context.Context, s *models.ConsultationSession) error {
	clone := *s
	r.sessions[s.SessionID] = &clone
	return nil
}

func (r *memorySessionRepo) FindSessionByID(_ context.Context, id string) (*models.ConsultationSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (r *memorySessionRepo) UpdateSession(_ context.Context, s *models.ConsultationSession) error {
	clone := *s
	r.sessions[s.SessionID] = &clone
	return nil
}

type stubLocker struct {
	denied   bool
	unlocked int
}

func (l *stubLocker) TryLock(context.Context, string, time.Duration) (bool, string, error) {
	if l.denied {
		return false, "", nil
	}
	return true, "lock-value", nil
}

func (l *stubLocker) Unlock(context.Context, string, string) error {
	l.unlocked++
	return nil
}

type keywordDetector struct{}

func (keywordDetector) Detect(_ context.Context, message, _ string) *contracts.EmergencyResult {
	if strings.Contains(message, "ปวดหน้าอก") {
		return &contracts.EmergencyResult{
			Verdict:    contracts.VerdictCritical,
			Keywords:   []string{"ปวดหน้าอก"},
			Partitions: []string{"thai_standard"},
		}
	}
	return &contracts.EmergencyResult{Verdict: contracts.VerdictNone}
}

type fixedExtractor struct{}

func (fixedExtractor) Extract(_ context.Context, _, dialect string) (*models.PatientContext, float64) {
	age := 68
	return &models.PatientContext{Age: &age, Symptoms: []string{"fever"}, SourceDialect: dialect}, 0.4
}

type passthroughTranslator struct {
	degraded bool
}

func (t passthroughTranslator) ToPivot(_ context.Context, text, _ string) *contracts.TranslationResult {
	return &contracts.TranslationResult{Text: "pivot: " + text, Degraded: t.degraded}
}

func (t passthroughTranslator) ToSource(_ context.Context, text, _ string) *contracts.TranslationResult {
	return &contracts.TranslationResult{Text: text, Degraded: t.degraded}
}

type recordingPipeline struct {
	inputs []*contracts.DiagnosticInput
}

func (p *recordingPipeline) BuildResponsePackage(_ context.Context, in *contracts.DiagnosticInput) (*models.AIResponsePackage, error) {
	p.inputs = append(p.inputs, in)
	pkg := &models.AIResponsePackage{
		PackageID:           "pkg_test",
		SessionID:           in.SessionID,
		Revision:            1,
		TranslationDegraded: in.TranslationDegraded,
		PatientMessage:      in.OriginalText,
		PatientContext:      in.PatientContext,
		CreatedAt:           time.Now().UTC(),
	}
	if in.Emergency != nil && in.Emergency.Verdict == contracts.VerdictCritical {
		pkg.Urgency = models.UrgencyEmergency
		pkg.PrimaryDiagnosis = models.Diagnosis{ICDCode: "Z71.1", NameEN: "Emergency Medical Consultation"}
	} else {
		pkg.Urgency = models.UrgencyRoutine
		pkg.PrimaryDiagnosis = models.Diagnosis{ICDCode: "J00", NameEN: "Common Cold", Confidence: 0.85}
	}
	return pkg, nil
}

type stubApprovals struct {
	registered []*models.AIResponsePackage
}

func (a *stubApprovals) RegisterPackage(_ context.Context, pkg *models.AIResponsePackage) (*models.ApprovalRecord, error) {
	a.registered = append(a.registered, pkg)
	state := models.StateAwaitingApproval
	if pkg.Urgency == models.UrgencyEmergency {
		state = models.StateEmergencyEscalated
	}
	return &models.ApprovalRecord{PackageID: pkg.PackageID, SessionID: pkg.SessionID, State: state}, nil
}

func (a *stubApprovals) ListPending(context.Context) ([]*models.ApprovalRecord, error) {
	return nil, nil
}

func (a *stubApprovals) FindPackage(context.Context, string) (*models.AIResponsePackage, error) {
	return nil, nil
}

func (a *stubApprovals) Claim(context.Context, string, string) (*models.ApprovalRecord, error) {
	return nil, nil
}

func (a *stubApprovals) Decide(context.Context, *contracts.ApprovalDecision) (*models.ApprovalRecord, error) {
	return nil, nil
}

type fixture struct {
	usecase   *consultationUsecase
	sessions  *memorySessionRepo
	locker    *stubLocker
	pipeline  *recordingPipeline
	approvals *stubApprovals
}

func newFixture() *fixture {
	f := &fixture{
		sessions:  newMemorySessionRepo(),
		locker:    &stubLocker{},
		pipeline:  &recordingPipeline{},
		approvals: &stubApprovals{},
	}
	f.usecase = &consultationUsecase{
		sessionRepo:     f.sessions,
		locker:          f.locker,
		detector:        keywordDetector{},
		extractor:       fixedExtractor{},
		translator:      passthroughTranslator{},
		pipeline:        f.pipeline,
		approvalUsecase: f.approvals,
		defaultDialect:  "thai_standard",
		lockTTL:         30 * time.Second,
		historyLimit:    20,
		Log:             zap.NewNop(),
	}
	return f
}

func TestConsultationUsecaseProcessMessage(t *testing.T) {
	t.Run("routine message ends pending doctor approval", func(t *testing.T) {
		f := newFixture()

		resp, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{
			Message: "มีไข้ ปวดหัว คัดจมูก",
		})

		assert.NoError(t, err)
		assert.Equal(t, responses.ConsultationTypePending, resp.Type)
		assert.Equal(t, "pkg_test", resp.PackageID)
		assert.Equal(t, models.UrgencyRoutine, resp.Urgency)
		assert.NotEmpty(t, resp.Metadata.SessionID)
		assert.Len(t, f.approvals.registered, 1)

		// Pipeline saw the pivot text, not the raw Thai.
		if assert.Len(t, f.pipeline.inputs, 1) {
			assert.Equal(t, "pivot: มีไข้ ปวดหัว คัดจมูก", f.pipeline.inputs[0].PivotSymptoms)
			assert.Equal(t, "มีไข้ ปวดหัว คัดจมูก", f.pipeline.inputs[0].OriginalText)
		}

		session := f.sessions.sessions[resp.Metadata.SessionID]
		if assert.NotNil(t, session) {
			assert.Equal(t, models.SessionAwaitingApproval, session.Status)
			assert.Len(t, session.Exchanges, 2)
			assert.Equal(t, models.RolePatient, session.Exchanges[0].Role)
			assert.Equal(t, models.RoleAssistant, session.Exchanges[1].Role)
		}
		assert.Equal(t, 1, f.locker.unlocked)
	})

	t.Run("emergency message escalates with hotline guidance", func(t *testing.T) {
		f := newFixture()

		resp, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{
			Message: "ปวดหน้าอกมาก",
		})

		assert.NoError(t, err)
		assert.Equal(t, responses.ConsultationTypeEmergency, resp.Type)
		assert.Contains(t, resp.Message, "1669")
		assert.Contains(t, resp.EmergencyKeywords, "ปวดหน้าอก")
		assert.Equal(t, models.UrgencyEmergency, resp.Urgency)

		session := f.sessions.sessions[resp.Metadata.SessionID]
		if assert.NotNil(t, session) {
			assert.Equal(t, models.SessionEscalated, session.Status)
		}
		if assert.Len(t, f.approvals.registered, 1) {
			assert.Equal(t, models.UrgencyEmergency, f.approvals.registered[0].Urgency)
		}
	})

	t.Run("existing session carries its history forward", func(t *testing.T) {
		f := newFixture()

		first, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{
			Message: "มีไข้",
		})
		assert.NoError(t, err)

		second, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{
			Message:   "ยังมีไข้อยู่",
			SessionID: first.Metadata.SessionID,
		})
		assert.NoError(t, err)
		assert.Equal(t, first.Metadata.SessionID, second.Metadata.SessionID)

		session := f.sessions.sessions[first.Metadata.SessionID]
		assert.Len(t, session.Exchanges, 4)
	})

	t.Run("caller-supplied patient info overrides extraction", func(t *testing.T) {
		f := newFixture()

		age := 30
		sex := "female"
		_, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{
			Message:     "มีไข้",
			PatientInfo: &requests.PatientInfo{Age: &age, Sex: &sex},
		})

		assert.NoError(t, err)
		if assert.Len(t, f.pipeline.inputs, 1) {
			pc := f.pipeline.inputs[0].PatientContext
			assert.Equal(t, 30, *pc.Age)
			assert.Equal(t, models.SexFemale, *pc.Sex)
			// Extracted symptoms survive the merge.
			assert.Contains(t, pc.Symptoms, "fever")
		}
	})

	t.Run("translation degradation propagates to the package", func(t *testing.T) {
		f := newFixture()
		f.usecase.translator = passthroughTranslator{degraded: true}

		resp, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{
			Message: "มีไข้",
		})

		assert.NoError(t, err)
		assert.True(t, resp.TranslationDegraded)
	})

	t.Run("concurrent run on the same session is refused", func(t *testing.T) {
		f := newFixture()
		f.locker.denied = true

		_, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{
			Message: "มีไข้",
		})
		assert.Error(t, err)
	})

	t.Run("closed session refuses new messages", func(t *testing.T) {
		f := newFixture()
		f.sessions.sessions["sess_closed"] = &models.ConsultationSession{
			SessionID: "sess_closed",
			Status:    models.SessionClosed,
		}

		_, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{
			Message:   "มีไข้",
			SessionID: "sess_closed",
		})
		assert.Error(t, err)
	})
}

type countingStats struct {
	total       int64
	emergencies int64
}

func (c *countingStats) RecordConsultation(emergency bool, _ time.Duration) {
	c.total++
	if emergency {
		c.emergencies++
	}
}

func (c *countingStats) Snapshot() models.ServiceStats {
	return models.ServiceStats{TotalConsultations: c.total, EmergencyCount: c.emergencies}
}

func TestConsultationUsecaseStats(t *testing.T) {
	f := newFixture()
	recorder := &countingStats{}
	f.usecase.stats = recorder

	_, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{Message: "มีไข้"})
	assert.NoError(t, err)

	_, err = f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{Message: "ปวดหน้าอกมาก"})
	assert.NoError(t, err)

	assert.Equal(t, int64(2), recorder.total)
	assert.Equal(t, int64(1), recorder.emergencies)
}

func TestConsultationUsecaseFindSessionByID(t *testing.T) {
	f := newFixture()

	_, err := f.usecase.FindSessionByID(context.Background(), "sess_missing")
	assert.Error(t, err)

	resp, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{Message: "มีไข้"})
	assert.NoError(t, err)

	session, err := f.usecase.FindSessionByID(context.Background(), resp.Metadata.SessionID)
	assert.NoError(t, err)
	assert.Equal(t, resp.Metadata.SessionID, session.SessionID)
}

func TestConsultationUsecaseCloseSession(t *testing.T) {
	t.Run("closed session refuses new messages but stays readable", func(t *testing.T) {
		f := newFixture()

		resp, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{Message: "มีไข้"})
		assert.NoError(t, err)

		closed, err := f.usecase.CloseSession(context.Background(), resp.Metadata.SessionID)
		assert.NoError(t, err)
		assert.Equal(t, models.SessionClosed, closed.Status)

		_, err = f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{
			SessionID: resp.Metadata.SessionID,
			Message:   "ยังมีไข้อยู่",
		})
		assert.Error(t, err)

		session, err := f.usecase.FindSessionByID(context.Background(), resp.Metadata.SessionID)
		assert.NoError(t, err)
		assert.Equal(t, models.SessionClosed, session.Status)
		assert.NotEmpty(t, session.Exchanges)
	})

	t.Run("closing twice is a no-op", func(t *testing.T) {
		f := newFixture()

		resp, err := f.usecase.ProcessMessage(context.Background(), &requests.ConsultationChat{Message: "มีไข้"})
		assert.NoError(t, err)

		_, err = f.usecase.CloseSession(context.Background(), resp.Metadata.SessionID)
		assert.NoError(t, err)
		closed, err := f.usecase.CloseSession(context.Background(), resp.Metadata.SessionID)
		assert.NoError(t, err)
		assert.Equal(t, models.SessionClosed, closed.Status)
	})

	t.Run("closing an unknown session errors", func(t *testing.T) {
		f := newFixture()

		_, err := f.usecase.CloseSession(context.Background(), "sess_missing")
		assert.Error(t, err)
	})
}
