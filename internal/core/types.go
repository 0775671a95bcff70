package core

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotLoaded is returned when no dataset has been loaded yet.
var ErrNotLoaded = errors.New("dataset not loaded")

// ErrStoreNotFound is returned when a master position is out of range.
var ErrStoreNotFound = errors.New("store not found")

// Record maps column names to trimmed cell values.
// Records are never modified after parsing.
type Record map[string]string

// Get returns the value of a column, or "" if the record lacks it.
func (r Record) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// GetOr returns the value of a column, or def if it is missing or empty.
func (r Record) GetOr(column, def string) string {
	if v := r.Get(column); v != "" {
		return v
	}
	return def
}

// SkippedRow describes a data line dropped because its field count
// did not match the header.
type SkippedRow struct {
	Line     int `json:"line"`     // 1-based logical line, header is line 1
	Expected int `json:"expected"` // header field count
	Got      int `json:"got"`      // field count of the row
}

// ParseResult is the full outcome of parsing a CSV blob.
type ParseResult struct {
	Header  []string
	Records []Record
	Skipped []SkippedRow
}

// Dataset is a loaded, read-only master dataset.
type Dataset struct {
	ID       uuid.UUID
	Source   string
	LoadedAt time.Time
	Header   []string
	Records  []Record
	Skipped  []SkippedRow
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// At returns the record at a master position.
func (d *Dataset) At(pos int) (Record, error) {
	if d == nil || pos < 0 || pos >= len(d.Records) {
		return nil, ErrStoreNotFound
	}
	return d.Records[pos], nil
}

// Field is a logical, searchable store attribute.
// The column it reads from is resolved through a Schema.
type Field string

const (
	FieldCountry     Field = "country"
	FieldMarketTeam  Field = "marketTeam"
	FieldMarket      Field = "market"
	FieldStoreName   Field = "storeName"
	FieldCity        Field = "city"
	FieldStoreNumber Field = "storeNumber"
)

// FilterFields lists the fields accepted by FilterBy, in sidebar order.
var FilterFields = []Field{
	FieldCountry,
	FieldMarketTeam,
	FieldMarket,
	FieldStoreName,
	FieldCity,
	FieldStoreNumber,
}

// SearchFields lists the fields a global search looks at.
var SearchFields = []Field{
	FieldStoreName,
	FieldStoreNumber,
	FieldCity,
	FieldMarket,
	FieldMarketTeam,
	FieldCountry,
}

// Criteria holds per-field substring constraints (combined with AND logic).
// Empty values mean no constraint on that field.
type Criteria map[Field]string

// Active returns the non-empty constraints, trimmed and lowercased.
func (c Criteria) Active() Criteria {
	active := make(Criteria)
	for f, v := range c {
		if v = normalize(v); v != "" {
			active[f] = v
		}
	}
	return active
}

// IsEmpty reports whether no criterion carries a value.
func (c Criteria) IsEmpty() bool {
	return len(c.Active()) == 0
}
