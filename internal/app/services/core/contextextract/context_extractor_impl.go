package contextextract

import (
	"context"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/constvars"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const fieldGroupCount = 5

var (
	extractorInstance contracts.ContextExtractor
	onceExtractor     sync.Once
)

type contextExtractor struct {
	Log *zap.Logger
}

func NewContextExtractor(logger *zap.Logger) contracts.ContextExtractor {
	onceExtractor.Do(func() {
		extractorInstance = &contextExtractor{Log: logger}
	})
	return extractorInstance
}

// Extract parses demographic and clinical fields out of free text. Each
// field group is attempted independently; a group that yields nothing
// stays empty. The returned score is the fraction of the five groups
// (age, sex, history, allergies, symptoms) that produced a value.
// Extraction is deterministic and idempotent.
func (e *contextExtractor) Extract(ctx context.Context, message, dialect string) (*models.PatientContext, float64) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	pc := &models.PatientContext{SourceDialect: dialect}
	found := 0

	if age, ok := extractAge(message); ok {
		pc.Age = &age
		found++
	}
	if sex, ok := extractSex(message); ok {
		pc.Sex = &sex
		found++
	}
	if history := extractHistory(message); len(history) > 0 {
		pc.MedicalHistory = history
		found++
	}
	if allergies := extractAllergies(message); len(allergies) > 0 {
		pc.Allergies = allergies
		found++
	}
	if symptoms := extractSymptoms(message); len(symptoms) > 0 {
		pc.Symptoms = symptoms
		found++
	}

	completeness := float64(found) / fieldGroupCount

	e.Log.Info("contextExtractor.Extract completed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDialectKey, dialect),
		zap.Float64("completeness", completeness),
	)
	return pc, completeness
}

func extractAge(message string) (int, bool) {
	for _, pattern := range agePatterns {
		match := pattern.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		age, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if age >= 1 && age <= 120 {
			return age, true
		}
	}
	return 0, false
}

func extractSex(message string) (models.BiologicalSex, bool) {
	if malePattern.MatchString(message) {
		return models.SexMale, true
	}
	if femalePattern.MatchString(message) {
		return models.SexFemale, true
	}
	if bareMalePattern.MatchString(message) {
		return models.SexMale, true
	}
	return "", false
}

func extractHistory(message string) []string {
	// Explicit denial is recorded verbatim; it is stated information,
	// distinct from saying nothing at all.
	if noHistoryPattern.MatchString(message) {
		return []string{"ไม่มีประวัติโรคประจำตัว"}
	}

	var history []string
	seen := make(map[string]struct{})
	for _, pattern := range historyPatterns {
		for _, match := range pattern.FindAllStringSubmatch(message, -1) {
			condition := match[1]
			if _, dup := seen[condition]; !dup {
				seen[condition] = struct{}{}
				history = append(history, condition)
			}
		}
	}
	return history
}

func extractAllergies(message string) []string {
	if noAllergyPattern.MatchString(message) {
		return []string{"ไม่แพ้อะไร"}
	}

	// Patterns overlap (แพ้ยาX also matches แพ้X), so the first pattern
	// that yields anything wins.
	for _, pattern := range allergyPatterns {
		var allergies []string
		seen := make(map[string]struct{})
		for _, match := range pattern.FindAllStringSubmatch(message, -1) {
			substance := strings.TrimSpace(match[1])
			if substance == "" {
				continue
			}
			if _, dup := seen[substance]; !dup {
				seen[substance] = struct{}{}
				allergies = append(allergies, substance)
			}
		}
		if len(allergies) > 0 {
			return allergies
		}
	}
	return nil
}

func extractSymptoms(message string) []string {
	var symptoms []string
	seen := make(map[string]struct{})
	lowered := strings.ToLower(message)
	for _, entry := range symptomTokens {
		if !strings.Contains(lowered, entry.Phrase) {
			continue
		}
		if _, dup := seen[entry.Token]; !dup {
			seen[entry.Token] = struct{}{}
			symptoms = append(symptoms, entry.Token)
		}
	}
	return symptoms
}
