package remote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/domain/models"
	"github.com/brick/gearlist/pkg/clients/supabase"
)

// equipmentRow is the insert payload; the store assigns the id.
type equipmentRow struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Condition   string `json:"condition"`
	Notes       string `json:"notes,omitempty"`
}

// EquipmentRepository reads and writes the equipment table. Only catalog
// fields ever leave the device.
type EquipmentRepository struct {
	client supabase.Client
	table  string
	logger *zap.Logger
}

// NewEquipmentRepository builds a repository over the named table.
func NewEquipmentRepository(client supabase.Client, table string, logger *zap.Logger) *EquipmentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table == "" {
		table = "equipment"
	}
	return &EquipmentRepository{client: client, table: table, logger: logger}
}

// List fetches every row ordered by id. Rows come back with the baseline
// defaults applied to their local fields.
func (r *EquipmentRepository) List(ctx context.Context) ([]models.EquipmentRecord, error) {
	var rows []models.EquipmentRecord
	if err := r.client.Select(ctx, r.table, supabase.Query{OrderBy: "id"}, &rows); err != nil {
		return nil, readError("list equipment", err)
	}

	out := make([]models.EquipmentRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.CatalogOnly().WithDefaults())
	}
	r.logger.Debug("fetched equipment", zap.Int("rows", len(out)))
	return out, nil
}

// Add inserts a new catalog row and returns it as stored.
func (r *EquipmentRepository) Add(ctx context.Context, rec models.EquipmentRecord) (models.EquipmentRecord, error) {
	row := equipmentRow{
		Category:    rec.Category,
		Description: rec.Description,
		Quantity:    rec.Quantity,
		Condition:   rec.Condition,
		Notes:       rec.Notes,
	}

	var created []models.EquipmentRecord
	if err := r.client.Insert(ctx, r.table, []equipmentRow{row}, &created); err != nil {
		return models.EquipmentRecord{}, writeError("add equipment", err)
	}
	if len(created) == 0 {
		return models.EquipmentRecord{}, writeError("add equipment", fmt.Errorf("no row returned"))
	}
	return created[0].CatalogOnly(), nil
}

// Update replaces the catalog fields of the row with the given id.
func (r *EquipmentRepository) Update(ctx context.Context, id int64, rec models.EquipmentRecord) error {
	if err := r.client.Update(ctx, r.table, rec.CatalogFields(), id); err != nil {
		return writeError(fmt.Sprintf("update equipment %d", id), err)
	}
	return nil
}

// Delete removes the row with the given id.
func (r *EquipmentRepository) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, r.table, id); err != nil {
		return writeError(fmt.Sprintf("delete equipment %d", id), err)
	}
	return nil
}
