package modelgateway

import (
	"context"
	"fmt"
	"medichat-service/internal/app/config"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/exceptions"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	modelGatewayInstance contracts.ModelGateway
	onceModelGateway     sync.Once
)

// Runtime is the model runtime boundary. Satisfied by OllamaClient in
// production and by stubs in tests.
type Runtime interface {
	Generate(ctx context.Context, model, system, prompt string) (string, error)
}

type modelGateway struct {
	runtime        Runtime
	limiter        *rate.Limiter
	routing        map[contracts.ModelTask]string
	requestTimeout time.Duration
	maxRetries     int
	Log            *zap.Logger
}

func NewModelGateway(runtime Runtime, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.ModelGateway {
	onceModelGateway.Do(func() {
		instance := &modelGateway{
			runtime: runtime,
			limiter: rate.NewLimiter(rate.Limit(internalConfig.Models.InvokesPerSecond), internalConfig.Models.InvokeBurst),
			routing: map[contracts.ModelTask]string{
				contracts.TaskTranslation:           internalConfig.Models.TranslationModel,
				contracts.TaskDiagnosis:             internalConfig.Models.DiagnosisModel,
				contracts.TaskInstructionGeneration: internalConfig.Models.InstructionGenerationModel,
			},
			requestTimeout: time.Duration(internalConfig.Models.RequestTimeoutInSeconds) * time.Second,
			maxRetries:     internalConfig.Models.MaxRetries,
			Log:            logger,
		}
		modelGatewayInstance = instance
	})
	return modelGatewayInstance
}

// Invoke dispatches one task to whichever model the routing table
// assigns it. Retries are bounded so a systemic outage surfaces as
// ModelUnavailable instead of masquerading as latency.
func (g *modelGateway) Invoke(ctx context.Context, request *contracts.ModelRequest) (*contracts.ModelResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	model, ok := g.routing[request.Task]
	if !ok {
		return nil, exceptions.ErrModelUnavailable(fmt.Errorf("no model routed for task %s", request.Task))
	}

	system, prompt, err := buildPrompt(request)
	if err != nil {
		return nil, exceptions.ErrModelUnavailable(err)
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, exceptions.ErrModelUnavailable(err)
		}

		callCtx, cancel := context.WithTimeout(ctx, g.requestTimeout)
		text, err := g.runtime.Generate(callCtx, model, system, prompt)
		cancel()

		if err == nil {
			g.Log.Info("modelGateway.Invoke succeeded",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingTaskKey, string(request.Task)),
				zap.String(constvars.LoggingModelKey, model),
				zap.Int(constvars.LoggingAttemptKey, attempt),
			)
			return &contracts.ModelResult{Text: strings.TrimSpace(text)}, nil
		}

		lastErr = err
		g.Log.Warn("modelGateway.Invoke attempt failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingTaskKey, string(request.Task)),
			zap.String(constvars.LoggingModelKey, model),
			zap.Int(constvars.LoggingAttemptKey, attempt),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, exceptions.ErrModelUnavailable(lastErr)
}

func buildPrompt(request *contracts.ModelRequest) (system, prompt string, err error) {
	switch request.Task {
	case contracts.TaskTranslation:
		if request.Translation == nil {
			return "", "", fmt.Errorf("translation payload missing")
		}
		p := request.Translation
		system = "You are a medical translator. Preserve medical terminology exactly. Output only the translated text."
		prompt = fmt.Sprintf("Translate the following text from %s to %s:\n\n%s", p.SourceLanguage, p.TargetLanguage, p.Text)
	case contracts.TaskDiagnosis:
		if request.Diagnosis == nil {
			return "", "", fmt.Errorf("diagnosis payload missing")
		}
		p := request.Diagnosis
		system = "You are a medical AI analyzing symptoms. Respond with lines in this format:\n" +
			"ICD: <icd-10 code>\nDiagnosis: <english name>\nThai: <thai name>\nConfidence: <0-100>\n" +
			"Differential: <icd-10 code>|<english name>|<thai name> (one line per differential, optional)"
		prompt = fmt.Sprintf("Symptoms: %s\n%s", p.Symptoms, describeContext(p))
	case contracts.TaskInstructionGeneration:
		if request.Instruction == nil {
			return "", "", fmt.Errorf("instruction payload missing")
		}
		p := request.Instruction
		system = "You are a medical AI providing medication guidance. Give specific duration, frequency, instructions, and warnings. Use this format:\n" +
			"Duration: X days\nFrequency: X times per day\nInstructions: when/how to take\nWarnings: safety precautions"
		prompt = fmt.Sprintf("Medicine: %s (%s)\nCondition: %s\n%s",
			p.Medicine.NameEN, p.Medicine.NameTH, p.Condition, describeInstructionContext(p))
	default:
		return "", "", fmt.Errorf("unknown task %q", request.Task)
	}
	return system, prompt, nil
}

func describeContext(p *contracts.DiagnosisPayload) string {
	if p.PatientContext == nil {
		return "Patient: no additional context stated"
	}
	var b strings.Builder
	b.WriteString("Patient:")
	if p.PatientContext.Age != nil {
		fmt.Fprintf(&b, " age %d;", *p.PatientContext.Age)
	}
	if p.PatientContext.Sex != nil {
		fmt.Fprintf(&b, " sex %s;", *p.PatientContext.Sex)
	}
	if len(p.PatientContext.MedicalHistory) > 0 {
		fmt.Fprintf(&b, " history: %s;", strings.Join(p.PatientContext.MedicalHistory, ", "))
	}
	if len(p.PatientContext.Allergies) > 0 {
		fmt.Fprintf(&b, " allergies: %s;", strings.Join(p.PatientContext.Allergies, ", "))
	}
	return b.String()
}

func describeInstructionContext(p *contracts.InstructionPayload) string {
	if p.PatientContext == nil || p.PatientContext.Age == nil {
		return "Patient age: not stated. Consider safety for all ages."
	}
	return fmt.Sprintf("Patient age: %d. Consider patient age and safety.", *p.PatientContext.Age)
}
