package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/brick/gearlist/internal/domain/models"
)

func TestArchivedLog_DocumentShape(t *testing.T) {
	rec := models.EquipmentRecord{ID: 3, Category: "AUDIO", Description: "Mic", Quantity: 2, Condition: "GOOD"}.WithDefaults()
	rec.SetTaken(2)
	entry := models.NewLogEntry("Ana", "Podcast", []models.EquipmentRecord{rec}, 9)
	entry.ID = 12
	entry.SubmittedAt = time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	raw, err := bson.Marshal(archivedLog{LogEntry: entry, ArchivedAt: entry.SubmittedAt})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.EqualValues(t, 12, doc["log_id"])
	assert.Equal(t, "Ana", doc["submitted_by"])
	assert.Contains(t, doc, "archived_at")

	rawDoc := bson.Raw(raw)
	assert.Equal(t, "Mic", rawDoc.Lookup("selected_items", "0", "description").StringValue())
	assert.EqualValues(t, 2, rawDoc.Lookup("selected_items", "0", "quantity_taken").AsInt64())
	_, err = rawDoc.LookupErr("selected_items", "0", "returned")
	assert.Error(t, err)

	var back archivedLog
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, entry.SelectedItems[0].Taken(), back.SelectedItems[0].Taken())
}
