package contracts

import "context"

type TranslationResult struct {
	Text string
	// Degraded is set when the model runtime was unavailable and the
	// original untranslated text is returned. Surfaced to the patient
	// and to the reviewing physician.
	Degraded bool
}

// TranslationCoordinator drives the two translation hops around the
// diagnostic stage. It never aborts the pipeline: on gateway failure
// the original text comes back flagged Degraded.
type TranslationCoordinator interface {
	ToPivot(ctx context.Context, text, sourceDialect string) *TranslationResult
	ToSource(ctx context.Context, text, targetDialect string) *TranslationResult
}
