package checklist

import (
	"sync"

	"github.com/brick/gearlist/internal/domain/models"
)

// ReconciliationState is the in-memory reconciled list shared by fetches and
// user edits. All fields are guarded by mu; helpers assume it is held.
//
// dirty is set while items hold changes the cache failed to store; until a
// write succeeds, items are the local source of truth.
type ReconciliationState struct {
	mu        sync.Mutex
	items     []models.EquipmentRecord
	loaded    bool
	dirty     bool
	committed uint64
}

func (st *ReconciliationState) indexOf(id int64) int {
	for i := range st.items {
		if st.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *ReconciliationState) snapshot() []models.EquipmentRecord {
	return cloneAll(st.items)
}

func (st *ReconciliationState) selected() []models.EquipmentRecord {
	out := make([]models.EquipmentRecord, 0)
	for _, rec := range st.items {
		if rec.IsSelected() {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func (st *ReconciliationState) progress() models.Progress {
	p := models.Progress{Total: len(st.items)}
	for _, rec := range st.items {
		if rec.IsSelected() {
			p.Selected++
		}
	}
	return p
}

func cloneAll(records []models.EquipmentRecord) []models.EquipmentRecord {
	out := make([]models.EquipmentRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Clone())
	}
	return out
}
