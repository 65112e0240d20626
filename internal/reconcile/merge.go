// Package reconcile merges the three equipment sources (bundled baseline,
// device-local cache, remote store) into one list.
//
// Precedence, keyed by id:
//   - baseline seeds the list;
//   - local overrides everything it carries, since it is the user's latest
//     on-device truth;
//   - remote overrides catalog fields only. Quantity taken and selection stay
//     with the existing entry and fall back to the remote value only when the
//     existing entry never recorded them.
//
// The functions here do no I/O and never fail.
package reconcile

import (
	"sort"

	"github.com/brick/gearlist/internal/domain/models"
)

// Merge combines baseline, local and remote into a list sorted by id. Within
// one source a repeated id is resolved by the last occurrence.
func Merge(baseline, local, remote []models.EquipmentRecord) []models.EquipmentRecord {
	merged := make(map[int64]models.EquipmentRecord, len(baseline)+len(local)+len(remote))

	for _, rec := range baseline {
		merged[rec.ID] = rec.Clone()
	}

	for _, rec := range local {
		existing, ok := merged[rec.ID]
		if !ok {
			merged[rec.ID] = rec.Clone()
			continue
		}
		merged[rec.ID] = overlayLocal(existing, rec)
	}

	for _, rec := range remote {
		existing, ok := merged[rec.ID]
		if !ok {
			merged[rec.ID] = rec.Clone()
			continue
		}
		merged[rec.ID] = overlayRemote(existing, rec)
	}

	out := make([]models.EquipmentRecord, 0, len(merged))
	for _, rec := range merged {
		out = append(out, rec)
	}
	SortByID(out)
	return out
}

// overlayLocal lays a local record over an existing entry. Catalog fields are
// taken from local; local fields only when local recorded them.
func overlayLocal(existing, local models.EquipmentRecord) models.EquipmentRecord {
	out := local.Clone()
	if out.QuantityTaken == nil && existing.QuantityTaken != nil {
		out.QuantityTaken = models.IntPtr(*existing.QuantityTaken)
	}
	if out.Selected == nil && existing.Selected != nil {
		out.Selected = models.BoolPtr(*existing.Selected)
	}
	return out
}

// overlayRemote lays a remote record's catalog fields over an existing entry
// without touching what the user decided to take.
func overlayRemote(existing, remote models.EquipmentRecord) models.EquipmentRecord {
	out := remote.Clone()
	if existing.QuantityTaken != nil {
		out.QuantityTaken = models.IntPtr(*existing.QuantityTaken)
	}
	if existing.Selected != nil {
		out.Selected = models.BoolPtr(*existing.Selected)
	}
	return out
}

// SortByID orders records ascending by id in place.
func SortByID(records []models.EquipmentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
}

// Duplicates lists ids that occur more than once in records, in first-seen order.
func Duplicates(records []models.EquipmentRecord) []int64 {
	seen := make(map[int64]int, len(records))
	var dups []int64
	for _, rec := range records {
		seen[rec.ID]++
		if seen[rec.ID] == 2 {
			dups = append(dups, rec.ID)
		}
	}
	return dups
}
