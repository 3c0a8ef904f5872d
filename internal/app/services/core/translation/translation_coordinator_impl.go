package translation

import (
	"context"
	"medichat-service/internal/app/config"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/pkg/constvars"
	"sync"
	"unicode"

	"go.uber.org/zap"
)

var (
	coordinatorInstance contracts.TranslationCoordinator
	onceCoordinator     sync.Once
)

type translationCoordinator struct {
	gateway       contracts.ModelGateway
	pivotLanguage string
	Log           *zap.Logger
}

func NewTranslationCoordinator(gateway contracts.ModelGateway, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.TranslationCoordinator {
	onceCoordinator.Do(func() {
		coordinatorInstance = &translationCoordinator{
			gateway:       gateway,
			pivotLanguage: internalConfig.Pipeline.PivotLanguage,
			Log:           logger,
		}
	})
	return coordinatorInstance
}

// ToPivot translates patient text to the pivot language the diagnostic
// models reason in. Text with no Thai script passes through untouched.
// Gateway failure never aborts the call; the original text comes back
// flagged Degraded so downstream consumers can surface it.
func (c *translationCoordinator) ToPivot(ctx context.Context, text, sourceDialect string) *contracts.TranslationResult {
	if !containsThai(text) {
		return &contracts.TranslationResult{Text: text}
	}
	return c.translate(ctx, text, dialectLanguage(sourceDialect), c.pivotLanguage)
}

// ToSource translates model output back toward the patient's language.
func (c *translationCoordinator) ToSource(ctx context.Context, text, targetDialect string) *contracts.TranslationResult {
	return c.translate(ctx, text, c.pivotLanguage, dialectLanguage(targetDialect))
}

func (c *translationCoordinator) translate(ctx context.Context, text, sourceLanguage, targetLanguage string) *contracts.TranslationResult {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	result, err := c.gateway.Invoke(ctx, &contracts.ModelRequest{
		Task: contracts.TaskTranslation,
		Translation: &contracts.TranslationPayload{
			Text:           text,
			SourceLanguage: sourceLanguage,
			TargetLanguage: targetLanguage,
		},
	})
	if err != nil {
		c.Log.Warn("translationCoordinator.translate degraded to original text",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return &contracts.TranslationResult{Text: text, Degraded: true}
	}
	if result.Text == "" {
		return &contracts.TranslationResult{Text: text, Degraded: true}
	}
	return &contracts.TranslationResult{Text: result.Text}
}

// All regional dialects share written Thai; the models only need the
// language pair, not the dialect.
func dialectLanguage(dialect string) string {
	if dialect == "english" {
		return "English"
	}
	return "Thai"
}

func containsThai(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Thai, r) {
			return true
		}
	}
	return false
}
