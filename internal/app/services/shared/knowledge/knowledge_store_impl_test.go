package knowledge

import (
	"context"
	"strings"
	"testing"

	"medichat-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const medicineSnapshot = `id,icd_code,english_name,thai_name,category,dosage,description,safety
med-001,,Paracetamol,พาราเซตามอล,analgesic,500 mg per tablet,Relief of fever and mild pain from common cold,Do not exceed 4000 mg per day;Avoid with liver disease
med-002,,Ibuprofen,ไอบูโพรเฟน,nsaid,400 mg per tablet,Anti-inflammatory for pain and fever,Take after food
med-003,,Cetirizine,เซทิริซีน,antihistamine,10 mg per tablet,Relief of allergic rhinitis,
`

func TestParseSnapshot(t *testing.T) {
	t.Run("parses rows with semicolon safety list", func(t *testing.T) {
		entries, err := parseSnapshot(strings.NewReader(medicineSnapshot), models.KindMedicine)

		assert.NoError(t, err)
		assert.Len(t, entries, 3)
		assert.Equal(t, "Paracetamol", entries[0].NameEN)
		assert.Equal(t, "พาราเซตามอล", entries[0].NameTH)
		assert.Equal(t, models.KindMedicine, entries[0].Kind)
		assert.Equal(t, []string{"Do not exceed 4000 mg per day", "Avoid with liver disease"}, entries[0].Safety)
		assert.Empty(t, entries[2].Safety)
	})

	t.Run("skips rows without any name", func(t *testing.T) {
		snapshot := "id,english_name,thai_name\nx-1,,\nx-2,Paracetamol,\n"
		entries, err := parseSnapshot(strings.NewReader(snapshot), models.KindMedicine)

		assert.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("header-only file yields no entries", func(t *testing.T) {
		entries, err := parseSnapshot(strings.NewReader("id,english_name\n"), models.KindMedicine)

		assert.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestKnowledgeStoreLookup(t *testing.T) {
	entries, err := parseSnapshot(strings.NewReader(medicineSnapshot), models.KindMedicine)
	assert.NoError(t, err)
	store := NewStaticKnowledgeStore(entries, zap.NewNop())

	t.Run("exact name outranks description match", func(t *testing.T) {
		results, err := store.Lookup(context.Background(), "Paracetamol")

		assert.NoError(t, err)
		assert.NotEmpty(t, results)
		assert.Equal(t, "Paracetamol", results[0].NameEN)
	})

	t.Run("thai name matches", func(t *testing.T) {
		results, err := store.Lookup(context.Background(), "ไอบูโพรเฟน")

		assert.NoError(t, err)
		assert.NotEmpty(t, results)
		assert.Equal(t, "Ibuprofen", results[0].NameEN)
	})

	t.Run("description substring matches diagnosis keyword", func(t *testing.T) {
		results, err := store.Lookup(context.Background(), "common cold")

		assert.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, "Paracetamol", results[0].NameEN)
	})

	t.Run("zero matches is a valid outcome", func(t *testing.T) {
		results, err := store.Lookup(context.Background(), "nonexistent condition")

		assert.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("blank keyword yields nothing", func(t *testing.T) {
		results, err := store.Lookup(context.Background(), "   ")

		assert.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("deterministic order across repeated lookups", func(t *testing.T) {
		first, err := store.Lookup(context.Background(), "fever")
		assert.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := store.Lookup(context.Background(), "fever")
			assert.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}
