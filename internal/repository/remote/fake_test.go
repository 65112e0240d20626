package remote

import (
	"context"
	"encoding/json"

	"github.com/brick/gearlist/pkg/clients/supabase"
)

type updateCall struct {
	table  string
	fields map[string]any
	id     int64
}

// fakeClient answers selects and inserts from canned JSON and records writes.
type fakeClient struct {
	selectJSON string
	insertJSON string
	err        error

	lastTable string
	lastQuery supabase.Query
	inserted  []byte
	updates   []updateCall
	deleted   []int64
}

func (f *fakeClient) Select(_ context.Context, table string, q supabase.Query, dest any) error {
	f.lastTable, f.lastQuery = table, q
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.selectJSON), dest)
}

func (f *fakeClient) Insert(_ context.Context, table string, rows any, dest any) error {
	f.lastTable = table
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	f.inserted = raw
	if dest == nil || f.insertJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(f.insertJSON), dest)
}

func (f *fakeClient) Update(_ context.Context, table string, fields map[string]any, id int64) error {
	f.lastTable = table
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, updateCall{table: table, fields: fields, id: id})
	return nil
}

func (f *fakeClient) Delete(_ context.Context, table string, id int64) error {
	f.lastTable = table
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}
