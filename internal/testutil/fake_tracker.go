package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/tracker"
)

// FieldWrite is one recorded date-field mutation.
type FieldWrite struct {
	ItemID  string
	FieldID string
	Date    time.Time
}

// FakeTracker is an in-memory tracker.Client for service tests: it serves a
// fixed item set, answers field listings, and records every write instead of
// calling upstream. Error injection is per item id.
type FakeTracker struct {
	mu sync.Mutex

	ProjectID string
	Items     []*domain.Item
	Fields    []tracker.Field

	// FetchErr fails every fetch; WriteErr fails writes for specific item ids.
	FetchErr error
	WriteErr map[string]error

	writes  []FieldWrite
	created []string
	fetches int
}

// NewFakeTracker serves the given items under a synthetic project node id,
// with every known field pre-resolved.
func NewFakeTracker(items ...*domain.Item) *FakeTracker {
	f := &FakeTracker{
		ProjectID: "PVT_fake0001",
		Items:     items,
	}
	for i, name := range domain.KnownFields {
		f.Fields = append(f.Fields, tracker.Field{
			ID:       fmt.Sprintf("PVTF_f%02d", i+1),
			Name:     string(name),
			DataType: "DATE",
		})
	}
	return f
}

// FieldID returns the synthetic id the fake assigned to a logical field.
func (f *FakeTracker) FieldID(name domain.FieldName) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, field := range f.Fields {
		if field.Name == string(name) {
			return field.ID
		}
	}
	return ""
}

// Writes returns every recorded write in order.
func (f *FakeTracker) Writes() []FieldWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FieldWrite, len(f.writes))
	copy(out, f.writes)
	return out
}

// WritesFor filters the recorded writes down to one item.
func (f *FakeTracker) WritesFor(itemID string) []FieldWrite {
	var out []FieldWrite
	for _, w := range f.Writes() {
		if w.ItemID == itemID {
			out = append(out, w)
		}
	}
	return out
}

// CreatedFields returns the display names of fields created through the fake.
func (f *FakeTracker) CreatedFields() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.created))
	copy(out, f.created)
	return out
}

// Fetches reports how many full item fetches were served.
func (f *FakeTracker) Fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *FakeTracker) FetchProjectPage(ctx context.Context, installationID int64, ref tracker.ProjectRef, cursor string) (*tracker.Page, error) {
	set, err := f.FetchAllItems(ctx, installationID, ref)
	if err != nil {
		return nil, err
	}
	return &tracker.Page{ProjectID: set.ProjectID, Items: set.Items}, nil
}

func (f *FakeTracker) FetchAllItems(ctx context.Context, installationID int64, ref tracker.ProjectRef) (*tracker.ItemSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	f.fetches++
	items := make([]*domain.Item, len(f.Items))
	copy(items, f.Items)
	return &tracker.ItemSet{ProjectID: f.ProjectID, Items: items}, nil
}

func (f *FakeTracker) ListFields(ctx context.Context, installationID int64, ref tracker.ProjectRef) (string, []tracker.Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields := make([]tracker.Field, len(f.Fields))
	copy(fields, f.Fields)
	return f.ProjectID, fields, nil
}

func (f *FakeTracker) CreateDateField(ctx context.Context, installationID int64, projectID, name string) (string, error) {
	return f.createField(name, "DATE")
}

func (f *FakeTracker) CreateSingleSelectField(ctx context.Context, installationID int64, projectID, name string, options []tracker.SelectOption) (string, error) {
	return f.createField(name, "SINGLE_SELECT")
}

func (f *FakeTracker) createField(name, dataType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("PVTF_new%02d", len(f.created)+1)
	f.Fields = append(f.Fields, tracker.Field{ID: id, Name: name, DataType: dataType})
	f.created = append(f.created, name)
	return id, nil
}

func (f *FakeTracker) WriteDateField(ctx context.Context, installationID int64, projectID, itemID, fieldID string, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.WriteErr[itemID]; err != nil {
		return err
	}
	f.writes = append(f.writes, FieldWrite{ItemID: itemID, FieldID: fieldID, Date: date})
	return nil
}
