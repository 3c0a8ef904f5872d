package knowledge

import (
	"context"
	"encoding/csv"
	"io"
	"medichat-service/internal/app/config"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/exceptions"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// csvKnowledgeStore holds an immutable snapshot of the curated
// knowledge base, loaded once at startup. Lookups are read-only and
// safe for concurrent use.
type csvKnowledgeStore struct {
	entries []models.KnowledgeEntry
	Log     *zap.Logger
}

func NewCSVKnowledgeStore(internalConfig *config.InternalConfig, logger *zap.Logger) (contracts.KnowledgeStore, error) {
	store := &csvKnowledgeStore{Log: logger}
	files := []struct {
		kind models.KnowledgeKind
		path string
	}{
		{models.KindMedicine, internalConfig.Knowledge.MedicineDataPath},
		{models.KindTreatment, internalConfig.Knowledge.TreatmentDataPath},
		{models.KindDiagnosis, internalConfig.Knowledge.DiagnosisDataPath},
	}
	for _, f := range files {
		file, err := os.Open(f.path)
		if err != nil {
			logger.Warn("knowledge snapshot file missing, skipping",
				zap.String("path", f.path),
				zap.Error(err),
			)
			continue
		}
		entries, err := parseSnapshot(file, f.kind)
		file.Close()
		if err != nil {
			return nil, exceptions.ErrKnowledgeSnapshotLoad(err)
		}
		store.entries = append(store.entries, entries...)
	}
	logger.Info("knowledge snapshot loaded",
		zap.Int("entries", len(store.entries)),
	)
	return store, nil
}

// NewStaticKnowledgeStore builds a store over a fixed entry slice.
func NewStaticKnowledgeStore(entries []models.KnowledgeEntry, logger *zap.Logger) contracts.KnowledgeStore {
	return &csvKnowledgeStore{entries: entries, Log: logger}
}

// parseSnapshot reads one CSV file. Expected header:
// id,icd_code,english_name,thai_name,category,dosage,description,safety
// with safety as a semicolon-separated list. Unknown columns are
// ignored; missing ones stay empty.
func parseSnapshot(r io.Reader, kind models.KnowledgeKind) ([]models.KnowledgeEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	index := make(map[string]int)
	for i, column := range records[0] {
		index[strings.ToLower(strings.TrimSpace(column))] = i
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var entries []models.KnowledgeEntry
	for _, row := range records[1:] {
		entry := models.KnowledgeEntry{
			ID:          field(row, "id"),
			Kind:        kind,
			ICDCode:     field(row, "icd_code"),
			NameEN:      field(row, "english_name"),
			NameTH:      field(row, "thai_name"),
			Category:    field(row, "category"),
			Dosage:      field(row, "dosage"),
			Description: field(row, "description"),
		}
		if safety := field(row, "safety"); safety != "" {
			for _, s := range strings.Split(safety, ";") {
				if s = strings.TrimSpace(s); s != "" {
					entry.Safety = append(entry.Safety, s)
				}
			}
		}
		if entry.NameEN == "" && entry.NameTH == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Lookup ranks matches most specific first: exact name match, then
// name substring, then description substring. Deterministic for a
// fixed snapshot; zero matches is a valid outcome.
func (s *csvKnowledgeStore) Lookup(ctx context.Context, keyword string) ([]models.KnowledgeEntry, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return nil, nil
	}

	type scored struct {
		entry models.KnowledgeEntry
		score int
	}
	var matches []scored
	for _, entry := range s.entries {
		score := matchScore(entry, needle)
		if score > 0 {
			matches = append(matches, scored{entry: entry, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].entry.ID < matches[j].entry.ID
	})

	results := make([]models.KnowledgeEntry, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.entry)
	}

	s.Log.Info("knowledgeStore.Lookup completed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingKeywordKey, keyword),
		zap.Int("matches", len(results)),
	)
	return results, nil
}

func matchScore(entry models.KnowledgeEntry, needle string) int {
	nameEN := strings.ToLower(entry.NameEN)
	nameTH := entry.NameTH
	switch {
	case nameEN == needle || nameTH == needle:
		return 100
	case strings.Contains(nameEN, needle) || strings.Contains(nameTH, needle):
		return 60
	case strings.Contains(strings.ToLower(entry.Description), needle):
		return 30
	case strings.Contains(strings.ToLower(entry.Category), needle):
		return 20
	}
	return 0
}
