package contracts

import (
	"context"
	"medichat-service/internal/app/models"
)

// ModelTask is the tagged task kind dispatched through the gateway's
// single entry point. Exactly one payload field on ModelRequest must be
// set, matching the task.
type ModelTask string

const (
	TaskTranslation           ModelTask = "translation"
	TaskDiagnosis             ModelTask = "diagnosis"
	TaskInstructionGeneration ModelTask = "instruction_generation"
)

type TranslationPayload struct {
	Text           string
	SourceLanguage string
	TargetLanguage string
}

type DiagnosisPayload struct {
	Symptoms       string
	PatientContext *models.PatientContext
}

type InstructionPayload struct {
	Medicine       models.KnowledgeEntry
	Condition      string
	PatientContext *models.PatientContext
}

type ModelRequest struct {
	Task        ModelTask
	Translation *TranslationPayload
	Diagnosis   *DiagnosisPayload
	Instruction *InstructionPayload
}

type ModelResult struct {
	Text string
}

// ModelGateway wraps the external model runtime behind one call shape
// regardless of which underlying model serves the task. The per-call
// timeout rides on ctx; on runtime timeout or non-success after the
// bounded retry budget it returns exceptions.ErrModelUnavailable.
type ModelGateway interface {
	Invoke(ctx context.Context, request *ModelRequest) (*ModelResult, error)
}
