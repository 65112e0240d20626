package models

import "time"

// DocumentRequest is everything the checklist document generator needs. Items
// are already reconciled and filtered; the generator only formats them.
type DocumentRequest struct {
	SubmittedBy       string
	JobLabel          string
	Items             []EquipmentRecord
	TotalSelected     int
	FileName          string
	OriginalTimestamp *time.Time
}

// Document is a generated checklist ready to be served or archived.
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}
