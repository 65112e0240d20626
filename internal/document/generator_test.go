package document

import (
	"bytes"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brick/gearlist/internal/domain/models"
)

var fixedNow = time.Date(2024, 3, 9, 14, 30, 0, 0, time.Local)

func newTestGenerator() *Generator {
	g := NewGenerator(nil)
	g.now = func() time.Time { return fixedNow }
	return g
}

func selected(id int64, category, desc string, qty, taken int) models.EquipmentRecord {
	rec := models.EquipmentRecord{ID: id, Category: category, Description: desc, Quantity: qty, Condition: "GOOD"}.WithDefaults()
	rec.SetTaken(taken)
	return rec
}

func plainText(t *testing.T, content []byte) (string, int) {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	rd, err := r.GetPlainText()
	require.NoError(t, err)
	text, err := io.ReadAll(rd)
	require.NoError(t, err)
	return string(text), r.NumPage()
}

func TestGenerate_Content(t *testing.T) {
	items := []models.EquipmentRecord{
		selected(1, "CAMERAS", "Cinema body", 1, 1),
		selected(2, "LIGHTS", "LED panel", 4, 2),
		selected(3, "CAMERAS", "Prime lens", 1, 1),
	}
	items[1].Notes = "bring diffusion"

	content, err := newTestGenerator().Generate(models.DocumentRequest{
		SubmittedBy:   "Ana",
		JobLabel:      "Wedding shoot",
		Items:         items,
		TotalSelected: len(items),
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(content, []byte("%PDF")))

	text, pages := plainText(t, content)
	assert.Equal(t, 1, pages)
	assert.Contains(t, text, "Equipment Checklist")
	assert.Contains(t, text, "Submitted by: Ana")
	assert.Contains(t, text, "Job: Wedding shoot")
	assert.Contains(t, text, "Generated at: 2024-03-09 14:30")
	assert.Contains(t, text, "Selected items: 3")
	assert.Contains(t, text, "CAMERAS (2 items)")
	assert.Contains(t, text, "LIGHTS (1 items)")
	assert.NotContains(t, text, "Regenerated at")
}

func TestGenerate_Regenerated(t *testing.T) {
	original := time.Date(2024, 1, 2, 8, 0, 0, 0, time.Local)

	content, err := newTestGenerator().Generate(models.DocumentRequest{
		SubmittedBy:       "Ana",
		JobLabel:          "Ad",
		Items:             []models.EquipmentRecord{selected(1, "AUDIO", "Mic", 1, 1)},
		TotalSelected:     1,
		OriginalTimestamp: &original,
	})
	require.NoError(t, err)

	text, _ := plainText(t, content)
	assert.Contains(t, text, "Originally generated at: 2024-01-02 08:00")
	assert.Contains(t, text, "Regenerated at: 2024-03-09 14:30")
	assert.NotContains(t, text, "Generated at: 2024-03-09")
}

func TestGenerate_BreaksPages(t *testing.T) {
	var items []models.EquipmentRecord
	for i := 1; i <= 120; i++ {
		items = append(items, selected(int64(i), fmt.Sprintf("CAT%d", i%4), fmt.Sprintf("Item %d", i), 1, 1))
	}

	content, err := newTestGenerator().Generate(models.DocumentRequest{SubmittedBy: "A", JobLabel: "B", Items: items, TotalSelected: len(items)})
	require.NoError(t, err)

	_, pages := plainText(t, content)
	assert.Greater(t, pages, 1)
}

func TestItemLine(t *testing.T) {
	multi := selected(1, "LIGHTS", "LED panel", 4, 2)
	multi.Notes = "spare bulbs"
	assert.Equal(t, "LED panel (Taking: 2 of 4) - GOOD | Notes: spare bulbs", ItemLine(multi))

	single := selected(2, "CAMERAS", "Body", 1, 1)
	single.Condition = "FAIR"
	assert.Equal(t, "Body (Qty: 1) - FAIR", ItemLine(single))
}

func TestGroupByCategory_FirstAppearanceOrder(t *testing.T) {
	groups := groupByCategory([]models.EquipmentRecord{
		{ID: 1, Category: "LIGHTS"},
		{ID: 2, Category: "AUDIO"},
		{ID: 3, Category: "LIGHTS"},
	})
	require.Len(t, groups, 2)
	assert.Equal(t, "LIGHTS", groups[0].category)
	assert.Len(t, groups[0].items, 2)
	assert.Equal(t, "AUDIO", groups[1].category)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "checklist-equipment-2024-03-09.pdf", ExportFileName(fixedNow))
	assert.Equal(t, "checklist-Ana-Paula-Souza-2024-03-09.pdf", RegeneratedFileName(" Ana Paula  Souza ", fixedNow))
	assert.Equal(t, "checklist-equipment-2024-03-09.pdf", RegeneratedFileName("", fixedNow))
}

func TestBuild_DefaultsFileName(t *testing.T) {
	doc, err := newTestGenerator().Build(models.DocumentRequest{SubmittedBy: "A", JobLabel: "B"})
	require.NoError(t, err)
	assert.Equal(t, "checklist-equipment-2024-03-09.pdf", doc.FileName)
	assert.Equal(t, ContentType, doc.ContentType)
	assert.NotEmpty(t, doc.Content)
}
