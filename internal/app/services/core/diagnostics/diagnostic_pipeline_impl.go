package diagnostics

import (
	"context"
	"medichat-service/internal/app/config"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	pipelineInstance contracts.DiagnosticPipeline
	oncePipeline     sync.Once
)

type diagnosticPipeline struct {
	gateway                contracts.ModelGateway
	knowledge              contracts.KnowledgeStore
	lowConfidenceThreshold float64
	Log                    *zap.Logger
}

func NewDiagnosticPipeline(gateway contracts.ModelGateway, knowledge contracts.KnowledgeStore, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.DiagnosticPipeline {
	oncePipeline.Do(func() {
		pipelineInstance = &diagnosticPipeline{
			gateway:                gateway,
			knowledge:              knowledge,
			lowConfidenceThreshold: internalConfig.Pipeline.LowConfidenceThreshold,
			Log:                    logger,
		}
	})
	return pipelineInstance
}

// BuildResponsePackage runs diagnosis, knowledge retrieval, and
// instruction generation in strict order, each step gated on the
// previous one. A diagnosis failure degrades to a conservative
// consultation package; a retrieval miss yields an empty medication
// list; an instruction failure is isolated to its own medicine.
func (p *diagnosticPipeline) BuildResponsePackage(ctx context.Context, in *contracts.DiagnosticInput) (*models.AIResponsePackage, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	pkg := &models.AIResponsePackage{
		PackageID:           utils.GeneratePackageID(),
		SessionID:           in.SessionID,
		Revision:            1,
		TranslationDegraded: in.TranslationDegraded,
		PatientMessage:      in.OriginalText,
		PatientContext:      in.PatientContext,
		CreatedAt:           time.Now().UTC(),
	}

	if in.Emergency != nil && in.Emergency.Verdict == contracts.VerdictCritical {
		pkg.PrimaryDiagnosis = models.Diagnosis{
			ICDCode:    "Z71.1",
			NameEN:     "Emergency Medical Consultation",
			NameTH:     "ต้องไปโรงพยาบาลทันที",
			Confidence: 0.95,
		}
		pkg.Urgency = models.UrgencyEmergency
		pkg.Confidence = pkg.PrimaryDiagnosis.Confidence
		return pkg, nil
	}

	primary, differentials, ok := p.generateDiagnosis(ctx, in)
	if !ok {
		p.Log.Warn("diagnosticPipeline.BuildResponsePackage falling back to conservative package",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, in.SessionID),
		)
		pkg.PrimaryDiagnosis = models.Diagnosis{
			ICDCode:    "Z71.1",
			NameEN:     "Medical Consultation",
			NameTH:     "ต้องปรึกษาแพทย์",
			Confidence: 0,
		}
		pkg.Urgency = models.UrgencyPriority
		pkg.Medications = []models.MedicationEntry{}
		return pkg, nil
	}

	pkg.PrimaryDiagnosis = primary
	pkg.Differentials = differentials
	pkg.Confidence = primary.Confidence
	pkg.Medications = p.buildMedications(ctx, primary, in)

	if primary.Confidence < p.lowConfidenceThreshold {
		pkg.Urgency = models.UrgencyPriority
	} else {
		pkg.Urgency = models.UrgencyRoutine
	}

	p.Log.Info("diagnosticPipeline.BuildResponsePackage assembled",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, in.SessionID),
		zap.String(constvars.LoggingPackageIDKey, pkg.PackageID),
		zap.String(constvars.LoggingUrgencyKey, string(pkg.Urgency)),
	)
	return pkg, nil
}

func (p *diagnosticPipeline) generateDiagnosis(ctx context.Context, in *contracts.DiagnosticInput) (models.Diagnosis, []models.Diagnosis, bool) {
	result, err := p.gateway.Invoke(ctx, &contracts.ModelRequest{
		Task: contracts.TaskDiagnosis,
		Diagnosis: &contracts.DiagnosisPayload{
			Symptoms:       in.PivotSymptoms,
			PatientContext: in.PatientContext,
		},
	})
	if err != nil {
		return models.Diagnosis{}, nil, false
	}
	return parseDiagnosis(result.Text)
}

// buildMedications retrieves candidate medicines for the diagnosis and
// generates per-medicine instructions. Knowledge-store name and dosage
// are fixed at retrieval; the model call only adds fields on top.
func (p *diagnosticPipeline) buildMedications(ctx context.Context, primary models.Diagnosis, in *contracts.DiagnosticInput) []models.MedicationEntry {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	entries, err := p.knowledge.Lookup(ctx, primary.NameEN)
	if err != nil {
		p.Log.Warn("diagnosticPipeline.buildMedications lookup failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return []models.MedicationEntry{}
	}

	medications := make([]models.MedicationEntry, 0, constvars.PipelineMedicationLimit)
	for _, entry := range entries {
		if entry.Kind != models.KindMedicine {
			continue
		}
		if len(medications) == constvars.PipelineMedicationLimit {
			break
		}
		medications = append(medications, p.instructMedicine(ctx, entry, primary, in))
	}
	return medications
}

func (p *diagnosticPipeline) instructMedicine(ctx context.Context, entry models.KnowledgeEntry, primary models.Diagnosis, in *contracts.DiagnosticInput) models.MedicationEntry {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	medication := models.MedicationEntry{
		NameEN:     entry.NameEN,
		NameTH:     entry.NameTH,
		Dosage:     entry.Dosage,
		Warnings:   append([]string{}, entry.Safety...),
		Provenance: models.ProvenanceKnowledgeStore,
	}

	result, err := p.gateway.Invoke(ctx, &contracts.ModelRequest{
		Task: contracts.TaskInstructionGeneration,
		Instruction: &contracts.InstructionPayload{
			Medicine:       entry,
			Condition:      primary.NameEN,
			PatientContext: in.PatientContext,
		},
	})
	if err != nil {
		p.Log.Warn("diagnosticPipeline.instructMedicine degraded to store fields only",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		medication.InstructionsUnavailable = true
		return medication
	}

	parsed, ok := parseInstructions(result.Text)
	if !ok {
		medication.InstructionsUnavailable = true
		return medication
	}

	medication.Duration = parsed.Duration
	medication.Frequency = parsed.Frequency
	medication.Instructions = parsed.Instructions
	medication.Warnings = append(medication.Warnings, parsed.Warnings...)
	medication.Provenance = models.ProvenanceModelGenerated
	return medication
}
