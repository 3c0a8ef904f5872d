package diagnostics

import (
	"medichat-service/internal/app/models"
	"strconv"
	"strings"
)

// parseDiagnosis reads the line-oriented diagnosis format the model is
// prompted to emit. Missing names make the result unusable; a missing
// or unparseable confidence defaults to 0.5 rather than discarding an
// otherwise valid diagnosis.
func parseDiagnosis(text string) (primary models.Diagnosis, differentials []models.Diagnosis, ok bool) {
	primary.Confidence = 0.5

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case hasPrefixFold(line, "ICD:"):
			primary.ICDCode = valueAfter(line, "ICD:")
		case hasPrefixFold(line, "Diagnosis:"):
			primary.NameEN = valueAfter(line, "Diagnosis:")
		case hasPrefixFold(line, "Thai:"):
			primary.NameTH = valueAfter(line, "Thai:")
		case hasPrefixFold(line, "Confidence:"):
			if score, err := strconv.ParseFloat(valueAfter(line, "Confidence:"), 64); err == nil {
				primary.Confidence = clampConfidence(score / 100)
			}
		case hasPrefixFold(line, "Differential:"):
			if d, valid := parseDifferential(valueAfter(line, "Differential:")); valid {
				differentials = append(differentials, d)
			}
		}
	}

	if primary.NameEN == "" {
		return models.Diagnosis{}, nil, false
	}
	return primary, differentials, true
}

// parseDifferential splits "icd|english|thai" pipe-delimited entries.
func parseDifferential(value string) (models.Diagnosis, bool) {
	parts := strings.Split(value, "|")
	if len(parts) < 2 {
		return models.Diagnosis{}, false
	}
	d := models.Diagnosis{
		ICDCode: strings.TrimSpace(parts[0]),
		NameEN:  strings.TrimSpace(parts[1]),
	}
	if len(parts) > 2 {
		d.NameTH = strings.TrimSpace(parts[2])
	}
	return d, d.NameEN != ""
}

type parsedInstructions struct {
	Duration     string
	Frequency    string
	Instructions string
	Warnings     []string
}

// parseInstructions reads the Duration/Frequency/Instructions/Warnings
// lines of the instruction-generation output. All fields optional; an
// entirely empty parse means the model answered off-format.
func parseInstructions(text string) (parsedInstructions, bool) {
	var out parsedInstructions
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case hasPrefixFold(line, "Duration:"):
			out.Duration = valueAfter(line, "Duration:")
		case hasPrefixFold(line, "Frequency:"):
			out.Frequency = valueAfter(line, "Frequency:")
		case hasPrefixFold(line, "Instructions:"):
			out.Instructions = valueAfter(line, "Instructions:")
		case hasPrefixFold(line, "Warnings:"):
			if warning := valueAfter(line, "Warnings:"); warning != "" {
				out.Warnings = append(out.Warnings, warning)
			}
		}
	}
	ok := out.Duration != "" || out.Frequency != "" || out.Instructions != ""
	return out, ok
}

func hasPrefixFold(line, prefix string) bool {
	return len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix)
}

func valueAfter(line, prefix string) string {
	return strings.TrimSpace(line[len(prefix):])
}

func clampConfidence(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
