package models

import "time"

// LoggedItem is an equipment snapshot stored inside a LogEntry. Returned and
// ReturnNotes are filled later by the check-in flow.
type LoggedItem struct {
	EquipmentRecord `bson:",inline"`
	Returned        *bool  `json:"returned,omitempty" bson:"returned,omitempty"`
	ReturnNotes     string `json:"return_notes,omitempty" bson:"return_notes,omitempty"`
}

// LogEntry is the immutable record written when a checklist is exported.
type LogEntry struct {
	ID            int64        `json:"id,omitempty" bson:"log_id"`
	SubmittedBy   string       `json:"submitted_by" bson:"submitted_by"`
	JobLabel      string       `json:"job_label" bson:"job_label"`
	SubmittedAt   time.Time    `json:"submitted_at,omitzero" bson:"submitted_at"`
	SelectedItems []LoggedItem `json:"selected_items" bson:"selected_items"`
	TotalItems    int          `json:"total_items" bson:"total_items"`
	TotalSelected int          `json:"total_selected" bson:"total_selected"`
}

// NewLogEntry snapshots the selected items of a reconciled list.
func NewLogEntry(submittedBy, jobLabel string, selected []EquipmentRecord, totalItems int) LogEntry {
	items := make([]LoggedItem, 0, len(selected))
	for _, rec := range selected {
		items = append(items, LoggedItem{EquipmentRecord: rec.Clone()})
	}
	return LogEntry{
		SubmittedBy:   submittedBy,
		JobLabel:      jobLabel,
		SelectedItems: items,
		TotalItems:    totalItems,
		TotalSelected: len(items),
	}
}

// ReturnMark records the outcome of checking one item back in.
type ReturnMark struct {
	ID       int64  `json:"id" binding:"required"`
	Returned bool   `json:"returned"`
	Notes    string `json:"return_notes"`
}

// ApplyReturns marks returned items in place and reports how many matched.
func (l *LogEntry) ApplyReturns(marks []ReturnMark) int {
	byID := make(map[int64]ReturnMark, len(marks))
	for _, m := range marks {
		byID[m.ID] = m
	}

	matched := 0
	for i := range l.SelectedItems {
		mark, ok := byID[l.SelectedItems[i].ID]
		if !ok {
			continue
		}
		l.SelectedItems[i].Returned = BoolPtr(mark.Returned)
		l.SelectedItems[i].ReturnNotes = mark.Notes
		matched++
	}
	return matched
}

// Records returns the plain equipment snapshots of the entry.
func (l LogEntry) Records() []EquipmentRecord {
	out := make([]EquipmentRecord, 0, len(l.SelectedItems))
	for _, item := range l.SelectedItems {
		out = append(out, item.EquipmentRecord)
	}
	return out
}
