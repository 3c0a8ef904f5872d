package modelgateway

import (
	"context"
	"errors"
	"medichat-service/internal/app/config"
	"medichat-service/internal/app/contracts"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type stubRuntime struct {
	responses []string
	errs      []error
	calls     int
	models    []string
}

func (s *stubRuntime) Generate(_ context.Context, model, _, _ string) (string, error) {
	idx := s.calls
	s.calls++
	s.models = append(s.models, model)
	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return "", errors.New("no scripted response")
}

func newTestGateway(runtime Runtime) *modelGateway {
	internalConfig := &config.InternalConfig{}
	internalConfig.Models.TranslationModel = "seallm-7b-v2"
	internalConfig.Models.DiagnosisModel = "medllama2"
	internalConfig.Models.InstructionGenerationModel = "medllama2"
	internalConfig.Models.RequestTimeoutInSeconds = 5
	internalConfig.Models.MaxRetries = 2
	return &modelGateway{
		runtime: runtime,
		limiter: rate.NewLimiter(rate.Inf, 1),
		routing: map[contracts.ModelTask]string{
			contracts.TaskTranslation:           internalConfig.Models.TranslationModel,
			contracts.TaskDiagnosis:             internalConfig.Models.DiagnosisModel,
			contracts.TaskInstructionGeneration: internalConfig.Models.InstructionGenerationModel,
		},
		requestTimeout: time.Duration(internalConfig.Models.RequestTimeoutInSeconds) * time.Second,
		maxRetries:     internalConfig.Models.MaxRetries,
		Log:            zap.NewNop(),
	}
}

func TestModelGatewayInvoke(t *testing.T) {
	t.Run("routes translation task to translation model", func(t *testing.T) {
		runtime := &stubRuntime{responses: []string{"I have a fever"}}
		gateway := newTestGateway(runtime)

		result, err := gateway.Invoke(context.Background(), &contracts.ModelRequest{
			Task: contracts.TaskTranslation,
			Translation: &contracts.TranslationPayload{
				Text:           "มีไข้",
				SourceLanguage: "Thai",
				TargetLanguage: "English",
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "I have a fever", result.Text)
		assert.Equal(t, []string{"seallm-7b-v2"}, runtime.models)
	})

	t.Run("routes diagnosis task to diagnosis model", func(t *testing.T) {
		runtime := &stubRuntime{responses: []string{"ICD: J00"}}
		gateway := newTestGateway(runtime)

		_, err := gateway.Invoke(context.Background(), &contracts.ModelRequest{
			Task:      contracts.TaskDiagnosis,
			Diagnosis: &contracts.DiagnosisPayload{Symptoms: "fever, headache"},
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{"medllama2"}, runtime.models)
	})

	t.Run("retries transient failures within budget", func(t *testing.T) {
		runtime := &stubRuntime{
			errs:      []error{errors.New("connection refused"), nil},
			responses: []string{"", "translated"},
		}
		gateway := newTestGateway(runtime)

		result, err := gateway.Invoke(context.Background(), &contracts.ModelRequest{
			Task: contracts.TaskTranslation,
			Translation: &contracts.TranslationPayload{
				Text:           "ปวดหัว",
				SourceLanguage: "Thai",
				TargetLanguage: "English",
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "translated", result.Text)
		assert.Equal(t, 2, runtime.calls)
	})

	t.Run("returns model unavailable after retries exhaust", func(t *testing.T) {
		boom := errors.New("connection refused")
		runtime := &stubRuntime{errs: []error{boom, boom, boom}}
		gateway := newTestGateway(runtime)

		_, err := gateway.Invoke(context.Background(), &contracts.ModelRequest{
			Task:      contracts.TaskDiagnosis,
			Diagnosis: &contracts.DiagnosisPayload{Symptoms: "fever"},
		})

		assert.Error(t, err)
		assert.Equal(t, 3, runtime.calls)
	})

	t.Run("rejects request missing its payload", func(t *testing.T) {
		gateway := newTestGateway(&stubRuntime{})

		_, err := gateway.Invoke(context.Background(), &contracts.ModelRequest{
			Task: contracts.TaskTranslation,
		})

		assert.Error(t, err)
	})
}
