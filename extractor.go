package keydiff

import "reflect"

// Extractor supplies the three record-level operations the core needs:
// Key identifies a record for the purposes of matching it across the two
// lists, IsShared is a cheap identity check that lets the runner skip a
// record without inspecting its fields at all, and ToMap converts a record
// into the flat field map that DiffMaps compares.
//
// A Runner is parameterized over an Extractor rather than requiring callers
// to implement a particular struct layout, staying generic over arbitrary
// interface{} document trees instead of requiring a generated schema.
type Extractor interface {
	// Key returns the record's key. Keys are assumed unique within each
	// list; a repeated or empty key is treated as a duplicate-key
	// condition.
	Key(record interface{}) string

	// IsShared reports whether a and b can be treated as structurally
	// equal without further inspection, e.g. because they are the same
	// pointer or share some other cheap identity. A false positive here
	// only suppresses an Update that should have fired; it never produces
	// an incorrect structural patch.
	IsShared(a, b interface{}) bool

	// HasKey reports whether a key field is configured at all. When
	// false, Compare degenerates to the positional fallback.
	HasKey() bool

	// ToMap converts record (found at the given index in its list) into a
	// flat field map for use with DiffMaps. index is provided so that
	// converters can special-case synthetic fields.
	ToMap(record interface{}, index int) map[string]interface{}
}

// MapExtractor is the default Extractor for records that are already
// map[string]interface{} values keyed by a named field.
type MapExtractor struct {
	KeyField string
	Convert  func(record interface{}, index int) map[string]interface{}
}

// NewMapExtractor returns a MapExtractor keyed by keyField. An empty
// keyField configures the no-key fallback.
func NewMapExtractor(keyField string) *MapExtractor {
	return &MapExtractor{KeyField: keyField}
}

func (e *MapExtractor) HasKey() bool {
	return e.KeyField != ""
}

func (e *MapExtractor) Key(record interface{}) string {
	m, ok := record.(map[string]interface{})
	if !ok {
		return ""
	}
	v, ok := m[e.KeyField]
	if !ok {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (e *MapExtractor) IsShared(a, b interface{}) bool {
	ma, ok := a.(map[string]interface{})
	if !ok {
		return false
	}
	mb, ok := b.(map[string]interface{})
	if !ok {
		return false
	}
	// A cheap pointer-style identity check: same underlying map value.
	return sameMap(ma, mb)
}

func (e *MapExtractor) ToMap(record interface{}, index int) map[string]interface{} {
	if e.Convert != nil {
		return e.Convert(record, index)
	}
	m, ok := record.(map[string]interface{})
	if !ok {
		return nil
	}
	return m
}

// sameMap reports whether a and b share the same underlying map storage,
// which is the case whenever a record was carried over into the "to" list
// unchanged (e.g. by slicing from a common source) rather than
// reconstructed. Go maps aren't comparable with ==, so identity is checked
// via their runtime pointer.
func sameMap(a, b map[string]interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
