package diagnostics

import (
	"context"
	"errors"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type scriptedGateway struct {
	diagnosisText    string
	diagnosisErr     error
	instructionText  string
	instructionErrOn map[string]error
	instructionCalls []string
}

func (s *scriptedGateway) Invoke(_ context.Context, request *contracts.ModelRequest) (*contracts.ModelResult, error) {
	switch request.Task {
	case contracts.TaskDiagnosis:
		if s.diagnosisErr != nil {
			return nil, s.diagnosisErr
		}
		return &contracts.ModelResult{Text: s.diagnosisText}, nil
	case contracts.TaskInstructionGeneration:
		name := request.Instruction.Medicine.NameEN
		s.instructionCalls = append(s.instructionCalls, name)
		if err := s.instructionErrOn[name]; err != nil {
			return nil, err
		}
		return &contracts.ModelResult{Text: s.instructionText}, nil
	}
	return nil, errors.New("unexpected task")
}

type fixtureStore struct {
	entries []models.KnowledgeEntry
	err     error
}

func (f *fixtureStore) Lookup(_ context.Context, _ string) ([]models.KnowledgeEntry, error) {
	return f.entries, f.err
}

func medicine(id, nameEN, nameTH, dosage string, safety ...string) models.KnowledgeEntry {
	return models.KnowledgeEntry{
		ID: id, Kind: models.KindMedicine,
		NameEN: nameEN, NameTH: nameTH, Dosage: dosage, Safety: safety,
	}
}

func newTestPipeline(gateway contracts.ModelGateway, store contracts.KnowledgeStore) *diagnosticPipeline {
	return &diagnosticPipeline{
		gateway:                gateway,
		knowledge:              store,
		lowConfidenceThreshold: 0.4,
		Log:                    zap.NewNop(),
	}
}

const coldDiagnosis = "ICD: J00\nDiagnosis: Common Cold\nThai: ไข้หวัด\nConfidence: 85\nDifferential: J11.1|Influenza|ไข้หวัดใหญ่"

const paracetamolInstructions = "Duration: 3 days\nFrequency: 3 times per day\nInstructions: take after meals\nWarnings: do not exceed 4g per day"

func baseInput() *contracts.DiagnosticInput {
	return &contracts.DiagnosticInput{
		SessionID:     "sess_1",
		PivotSymptoms: "fever, headache, nasal congestion",
		OriginalText:  "มีไข้ ปวดหัว คัดจมูก",
		Emergency:     &contracts.EmergencyResult{Verdict: contracts.VerdictNone},
	}
}

func TestDiagnosticPipelineBuildResponsePackage(t *testing.T) {
	t.Run("assembles full package from diagnosis and knowledge store", func(t *testing.T) {
		gateway := &scriptedGateway{diagnosisText: coldDiagnosis, instructionText: paracetamolInstructions}
		store := &fixtureStore{entries: []models.KnowledgeEntry{
			medicine("med-001", "Paracetamol", "พาราเซตามอล", "500mg", "หลีกเลี่ยงในผู้ป่วยโรคตับ"),
		}}
		pipeline := newTestPipeline(gateway, store)

		pkg, err := pipeline.BuildResponsePackage(context.Background(), baseInput())

		assert.NoError(t, err)
		assert.Equal(t, "J00", pkg.PrimaryDiagnosis.ICDCode)
		assert.Equal(t, "Common Cold", pkg.PrimaryDiagnosis.NameEN)
		assert.Equal(t, "ไข้หวัด", pkg.PrimaryDiagnosis.NameTH)
		assert.InDelta(t, 0.85, pkg.Confidence, 0.001)
		assert.Equal(t, models.UrgencyRoutine, pkg.Urgency)
		if assert.Len(t, pkg.Differentials, 1) {
			assert.Equal(t, "Influenza", pkg.Differentials[0].NameEN)
		}
		if assert.Len(t, pkg.Medications, 1) {
			med := pkg.Medications[0]
			assert.Equal(t, "Paracetamol", med.NameEN)
			assert.Equal(t, "500mg", med.Dosage)
			assert.Equal(t, "3 days", med.Duration)
			assert.Equal(t, "3 times per day", med.Frequency)
			assert.Equal(t, models.ProvenanceModelGenerated, med.Provenance)
			assert.False(t, med.InstructionsUnavailable)
			assert.Contains(t, med.Warnings, "หลีกเลี่ยงในผู้ป่วยโรคตับ")
			assert.Contains(t, med.Warnings, "do not exceed 4g per day")
		}
		assert.Equal(t, 1, pkg.Revision)
	})

	t.Run("diagnosis failure yields conservative fallback not error", func(t *testing.T) {
		gateway := &scriptedGateway{diagnosisErr: errors.New("model runtime down")}
		pipeline := newTestPipeline(gateway, &fixtureStore{})

		pkg, err := pipeline.BuildResponsePackage(context.Background(), baseInput())

		assert.NoError(t, err)
		assert.Equal(t, "Z71.1", pkg.PrimaryDiagnosis.ICDCode)
		assert.Equal(t, "Medical Consultation", pkg.PrimaryDiagnosis.NameEN)
		assert.Equal(t, "ต้องปรึกษาแพทย์", pkg.PrimaryDiagnosis.NameTH)
		assert.Equal(t, models.UrgencyPriority, pkg.Urgency)
		assert.Empty(t, pkg.Medications)
	})

	t.Run("off-format diagnosis output also falls back", func(t *testing.T) {
		gateway := &scriptedGateway{diagnosisText: "I am not sure what this is."}
		pipeline := newTestPipeline(gateway, &fixtureStore{})

		pkg, err := pipeline.BuildResponsePackage(context.Background(), baseInput())

		assert.NoError(t, err)
		assert.Equal(t, "Z71.1", pkg.PrimaryDiagnosis.ICDCode)
		assert.Equal(t, models.UrgencyPriority, pkg.Urgency)
	})

	t.Run("zero knowledge matches is valid with empty medication list", func(t *testing.T) {
		gateway := &scriptedGateway{diagnosisText: coldDiagnosis}
		pipeline := newTestPipeline(gateway, &fixtureStore{})

		pkg, err := pipeline.BuildResponsePackage(context.Background(), baseInput())

		assert.NoError(t, err)
		assert.Empty(t, pkg.Medications)
		assert.Equal(t, models.UrgencyRoutine, pkg.Urgency)
	})

	t.Run("instruction failure isolated per medicine", func(t *testing.T) {
		gateway := &scriptedGateway{
			diagnosisText:    coldDiagnosis,
			instructionText:  paracetamolInstructions,
			instructionErrOn: map[string]error{"Ibuprofen": errors.New("timeout")},
		}
		store := &fixtureStore{entries: []models.KnowledgeEntry{
			medicine("med-001", "Paracetamol", "พาราเซตามอล", "500mg"),
			medicine("med-002", "Ibuprofen", "ไอบูโพรเฟน", "400mg", "กินพร้อมอาหาร"),
		}}
		pipeline := newTestPipeline(gateway, store)

		pkg, err := pipeline.BuildResponsePackage(context.Background(), baseInput())

		assert.NoError(t, err)
		if assert.Len(t, pkg.Medications, 2) {
			assert.False(t, pkg.Medications[0].InstructionsUnavailable)
			failed := pkg.Medications[1]
			assert.True(t, failed.InstructionsUnavailable)
			assert.Equal(t, "Ibuprofen", failed.NameEN)
			assert.Equal(t, "400mg", failed.Dosage)
			assert.Empty(t, failed.Duration)
			assert.Equal(t, models.ProvenanceKnowledgeStore, failed.Provenance)
			assert.Equal(t, []string{"กินพร้อมอาหาร"}, failed.Warnings)
		}
	})

	t.Run("medication list capped and store fields never altered", func(t *testing.T) {
		gateway := &scriptedGateway{diagnosisText: coldDiagnosis, instructionText: paracetamolInstructions}
		store := &fixtureStore{entries: []models.KnowledgeEntry{
			medicine("med-001", "Paracetamol", "พาราเซตามอล", "500mg"),
			medicine("med-002", "Ibuprofen", "ไอบูโพรเฟน", "400mg"),
			medicine("med-003", "Aspirin", "แอสไพริน", "325mg"),
			medicine("med-004", "Cetirizine", "เซทิริซีน", "10mg"),
		}}
		pipeline := newTestPipeline(gateway, store)

		pkg, err := pipeline.BuildResponsePackage(context.Background(), baseInput())

		assert.NoError(t, err)
		assert.Len(t, pkg.Medications, 3)
		for i, expected := range []string{"500mg", "400mg", "325mg"} {
			assert.Equal(t, expected, pkg.Medications[i].Dosage)
		}
	})

	t.Run("low confidence diagnosis escalates to priority", func(t *testing.T) {
		gateway := &scriptedGateway{diagnosisText: "ICD: R50.9\nDiagnosis: Fever\nThai: ไข้\nConfidence: 30"}
		pipeline := newTestPipeline(gateway, &fixtureStore{})

		pkg, err := pipeline.BuildResponsePackage(context.Background(), baseInput())

		assert.NoError(t, err)
		assert.Equal(t, models.UrgencyPriority, pkg.Urgency)
	})

	t.Run("critical emergency verdict yields escalation package without model calls", func(t *testing.T) {
		gateway := &scriptedGateway{diagnosisErr: errors.New("must not be called")}
		pipeline := newTestPipeline(gateway, &fixtureStore{})

		in := baseInput()
		in.Emergency = &contracts.EmergencyResult{
			Verdict:  contracts.VerdictCritical,
			Keywords: []string{"ปวดหน้าอก"},
		}

		pkg, err := pipeline.BuildResponsePackage(context.Background(), in)

		assert.NoError(t, err)
		assert.Equal(t, models.UrgencyEmergency, pkg.Urgency)
		assert.Equal(t, "Emergency Medical Consultation", pkg.PrimaryDiagnosis.NameEN)
		assert.Empty(t, pkg.Medications)
		assert.Empty(t, gateway.instructionCalls)
	})

	t.Run("translation degradation carried onto the package", func(t *testing.T) {
		gateway := &scriptedGateway{diagnosisText: coldDiagnosis}
		pipeline := newTestPipeline(gateway, &fixtureStore{})

		in := baseInput()
		in.TranslationDegraded = true

		pkg, err := pipeline.BuildResponsePackage(context.Background(), in)

		assert.NoError(t, err)
		assert.True(t, pkg.TranslationDegraded)
	})
}
