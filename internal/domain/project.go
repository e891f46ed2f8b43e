package domain

import "time"

// TrackedProject is one upstream project the engine schedules. The field-id
// cache maps the nine logical fields to upstream field ids; it is populated
// lazily and refreshed on miss.
type TrackedProject struct {
	ID             int64
	InstallationID int64
	Owner          string
	Repo           string // optional; empty for org-level projects
	ProjectNumber  int
	ExternalID     string // upstream project node id
	FieldIDs       FieldIDs
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FieldIDs caches upstream field ids by logical field name. A nil map reads
// as fully unresolved.
type FieldIDs map[FieldName]string

// Resolved reports whether every scheduling-relevant field has a cached id.
// Status and % Complete are read-only for the engine and may be absent.
func (f FieldIDs) Resolved() bool {
	for _, name := range []FieldName{FieldStartDate, FieldTargetDate} {
		if f[name] == "" {
			return false
		}
	}
	return true
}

// Clone returns an independent copy so cached rows can be mutated safely.
func (f FieldIDs) Clone() FieldIDs {
	if f == nil {
		return nil
	}
	out := make(FieldIDs, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
