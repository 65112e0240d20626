package models

import "strings"

// Condition labels observed in the inventory. The field is an open string;
// these are only the values the admin surface offers by default.
const (
	ConditionGood        = "GOOD"
	ConditionFair        = "FAIR"
	ConditionPoor        = "POOR"
	ConditionMaintenance = "MAINTENANCE"
	ConditionForSale     = "FOR_SALE"
)

// EquipmentRecord is one catalog entry plus the device-local selection state.
//
// Catalog fields are owned by the remote store. QuantityTaken and Selected are
// user-local: they are never sent to the remote store and are optional so that
// "not recorded" can be told apart from zero when sources are merged.
type EquipmentRecord struct {
	ID            int64  `json:"id" bson:"id"`
	Category      string `json:"category" bson:"category"`
	Description   string `json:"description" bson:"description"`
	Quantity      int    `json:"quantity" bson:"quantity"`
	Condition     string `json:"condition" bson:"condition"`
	Notes         string `json:"notes,omitempty" bson:"notes,omitempty"`
	QuantityTaken *int   `json:"quantity_taken,omitempty" bson:"quantity_taken,omitempty"`
	Selected      *bool  `json:"selected,omitempty" bson:"selected,omitempty"`
}

// SelectionState names where an item sits in the taking lifecycle.
type SelectionState int

const (
	NotTaken SelectionState = iota
	PartiallyTaken
	FullyTaken
)

// String method for SelectionState enum
func (s SelectionState) String() string {
	switch s {
	case NotTaken:
		return "NotTaken"
	case PartiallyTaken:
		return "PartiallyTaken"
	case FullyTaken:
		return "FullyTaken"
	default:
		return "Unknown"
	}
}

// DefaultTaken is the quantity taken an item starts with: single-unit items
// default to fully present, multi-unit items to none.
func DefaultTaken(quantity int) int {
	if quantity <= 1 {
		return quantity
	}
	return 0
}

// IntPtr and BoolPtr build the optional local fields.
func IntPtr(v int) *int { return &v }

func BoolPtr(v bool) *bool { return &v }

// Taken returns the quantity taken, zero when not recorded.
func (e EquipmentRecord) Taken() int {
	if e.QuantityTaken == nil {
		return 0
	}
	return *e.QuantityTaken
}

// IsSelected returns the checkbox state, false when not recorded.
func (e EquipmentRecord) IsSelected() bool {
	return e.Selected != nil && *e.Selected
}

// HasLocalState reports whether both user-local fields are recorded.
func (e EquipmentRecord) HasLocalState() bool {
	return e.QuantityTaken != nil && e.Selected != nil
}

// State derives the lifecycle state from the local fields.
func (e EquipmentRecord) State() SelectionState {
	taken := e.Taken()
	switch {
	case !e.IsSelected() || taken == 0:
		return NotTaken
	case taken >= e.Quantity:
		return FullyTaken
	default:
		return PartiallyTaken
	}
}

// WithDefaults returns a copy whose local fields carry the baseline defaults.
func (e EquipmentRecord) WithDefaults() EquipmentRecord {
	e.QuantityTaken = IntPtr(DefaultTaken(e.Quantity))
	e.Selected = BoolPtr(false)
	return e
}

// CatalogOnly returns a copy stripped of user-local fields.
func (e EquipmentRecord) CatalogOnly() EquipmentRecord {
	e.QuantityTaken = nil
	e.Selected = nil
	return e
}

// Clone returns a deep copy so callers never share the optional fields.
func (e EquipmentRecord) Clone() EquipmentRecord {
	if e.QuantityTaken != nil {
		e.QuantityTaken = IntPtr(*e.QuantityTaken)
	}
	if e.Selected != nil {
		e.Selected = BoolPtr(*e.Selected)
	}
	return e
}

// Toggle flips the checkbox. Single-unit items move between NotTaken and
// FullyTaken; multi-unit items take one unit when selected from zero and
// drop to zero when deselected.
func (e *EquipmentRecord) Toggle() {
	selected := !e.IsSelected()
	taken := e.Taken()

	if e.Quantity <= 1 {
		if selected {
			taken = e.Quantity
		} else {
			taken = 0
		}
	} else {
		switch {
		case selected && taken == 0:
			taken = 1
		case !selected:
			taken = 0
		}
	}

	e.QuantityTaken = IntPtr(taken)
	e.Selected = BoolPtr(selected)
}

// SetTaken sets the quantity taken to value and recomputes the checkbox.
// Values outside [0, Quantity] leave the record untouched and return false.
func (e *EquipmentRecord) SetTaken(value int) bool {
	if value < 0 || value > e.Quantity {
		return false
	}
	e.QuantityTaken = IntPtr(value)
	e.Selected = BoolPtr(value > 0)
	return true
}

// Reset restores the baseline defaults for the local fields.
func (e *EquipmentRecord) Reset() {
	*e = e.WithDefaults()
}

// Normalize applies the write-time conventions to catalog fields.
func (e *EquipmentRecord) Normalize() {
	e.Category = strings.ToUpper(strings.TrimSpace(e.Category))
	e.Description = strings.TrimSpace(e.Description)
	e.Condition = strings.ToUpper(strings.TrimSpace(e.Condition))
	e.Notes = strings.TrimSpace(e.Notes)
	if e.Condition == "" {
		e.Condition = ConditionGood
	}
}

// CatalogFields is the column set the remote store accepts on update.
func (e EquipmentRecord) CatalogFields() map[string]any {
	return map[string]any{
		"category":    e.Category,
		"description": e.Description,
		"quantity":    e.Quantity,
		"condition":   e.Condition,
		"notes":       e.Notes,
	}
}

// Progress summarises how many items are selected.
type Progress struct {
	Selected int `json:"selected"`
	Total    int `json:"total"`
}
