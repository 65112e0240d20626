// Package catalog exposes the equipment list bundled with the build. It is the
// last-resort seed used when neither the device cache nor the remote store
// has data.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/brick/gearlist/internal/domain/models"
)

//go:embed equipment.json
var bundled []byte

// Load parses the bundled catalog. Entries carry catalog fields only.
func Load() ([]models.EquipmentRecord, error) {
	return Parse(bundled)
}

// Parse decodes a catalog snapshot, dropping any user-local fields it carries.
func Parse(raw []byte) ([]models.EquipmentRecord, error) {
	var records []models.EquipmentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range records {
		records[i] = records[i].CatalogOnly()
	}
	return records, nil
}

// Baseline returns the bundled catalog with derived local defaults:
// quantity taken equals the quantity for single-unit items, zero otherwise,
// and nothing selected.
func Baseline() ([]models.EquipmentRecord, error) {
	records, err := Load()
	if err != nil {
		return nil, err
	}
	return WithDefaults(records), nil
}

// WithDefaults applies the derived local defaults to every record.
func WithDefaults(records []models.EquipmentRecord) []models.EquipmentRecord {
	out := make([]models.EquipmentRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.WithDefaults())
	}
	return out
}
