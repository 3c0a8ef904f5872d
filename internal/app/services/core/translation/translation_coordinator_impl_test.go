package translation

import (
	"context"
	"errors"
	"medichat-service/internal/app/contracts"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubGateway struct {
	text     string
	err      error
	requests []*contracts.ModelRequest
}

func (s *stubGateway) Invoke(_ context.Context, request *contracts.ModelRequest) (*contracts.ModelResult, error) {
	s.requests = append(s.requests, request)
	if s.err != nil {
		return nil, s.err
	}
	return &contracts.ModelResult{Text: s.text}, nil
}

func newTestCoordinator(gateway contracts.ModelGateway) *translationCoordinator {
	return &translationCoordinator{
		gateway:       gateway,
		pivotLanguage: "English",
		Log:           zap.NewNop(),
	}
}

func TestTranslationCoordinator(t *testing.T) {
	t.Run("thai text goes through the gateway to the pivot", func(t *testing.T) {
		gateway := &stubGateway{text: "I have a fever and a headache"}
		coordinator := newTestCoordinator(gateway)

		result := coordinator.ToPivot(context.Background(), "มีไข้ ปวดหัว", "thai_standard")

		assert.False(t, result.Degraded)
		assert.Equal(t, "I have a fever and a headache", result.Text)
		if assert.Len(t, gateway.requests, 1) {
			assert.Equal(t, contracts.TaskTranslation, gateway.requests[0].Task)
			assert.Equal(t, "Thai", gateway.requests[0].Translation.SourceLanguage)
			assert.Equal(t, "English", gateway.requests[0].Translation.TargetLanguage)
		}
	})

	t.Run("text without thai script skips the gateway", func(t *testing.T) {
		gateway := &stubGateway{text: "should not be used"}
		coordinator := newTestCoordinator(gateway)

		result := coordinator.ToPivot(context.Background(), "I have a sore throat", "english")

		assert.False(t, result.Degraded)
		assert.Equal(t, "I have a sore throat", result.Text)
		assert.Empty(t, gateway.requests)
	})

	t.Run("gateway failure degrades to original text", func(t *testing.T) {
		gateway := &stubGateway{err: errors.New("model runtime down")}
		coordinator := newTestCoordinator(gateway)

		result := coordinator.ToPivot(context.Background(), "มีไข้", "thai_standard")

		assert.True(t, result.Degraded)
		assert.Equal(t, "มีไข้", result.Text)
	})

	t.Run("empty model output counts as degraded", func(t *testing.T) {
		gateway := &stubGateway{text: ""}
		coordinator := newTestCoordinator(gateway)

		result := coordinator.ToSource(context.Background(), "Common Cold", "thai_standard")

		assert.True(t, result.Degraded)
		assert.Equal(t, "Common Cold", result.Text)
	})

	t.Run("to source inverts the language pair", func(t *testing.T) {
		gateway := &stubGateway{text: "ไข้หวัด"}
		coordinator := newTestCoordinator(gateway)

		result := coordinator.ToSource(context.Background(), "Common Cold", "thai_standard")

		assert.False(t, result.Degraded)
		assert.Equal(t, "ไข้หวัด", result.Text)
		if assert.Len(t, gateway.requests, 1) {
			assert.Equal(t, "English", gateway.requests[0].Translation.SourceLanguage)
			assert.Equal(t, "Thai", gateway.requests[0].Translation.TargetLanguage)
		}
	})
}
