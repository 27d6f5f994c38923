package keydiff

import "reflect"

// DiffMaps returns the entries of b that differ from a: every key present
// in b whose value is not reflect.DeepEqual to the corresponding value in
// a, plus every key present only in a mapped to nil. The result is empty
// when a and b are equivalent.
//
// DiffMaps does not recurse into nested values: a changed nested map or
// slice is reported as a single replacement value, not diffed field by
// field or element by element.
func DiffMaps(a, b map[string]interface{}) map[string]interface{} {
	var out map[string]interface{}

	for key, bv := range b {
		av, ok := a[key]
		if !ok || !reflect.DeepEqual(av, bv) {
			if out == nil {
				out = make(map[string]interface{})
			}
			out[key] = bv
		}
	}

	for key := range a {
		if _, ok := b[key]; !ok {
			if out == nil {
				out = make(map[string]interface{})
			}
			out[key] = nil
		}
	}

	return out
}

// DiffReporter observes every field-level difference DiffMaps finds while a
// Runner is building Update patches. It is primarily a testing and
// debugging hook: EnterField/EnterElement and their Leave counterparts
// track a path through nested structures the same way a caller traversing
// ToMap-produced maps by hand would, and Report is called once per
// differing leaf value.
type DiffReporter interface {
	EnterField(key string)
	LeaveField(key string)
	EnterElement(idx int)
	LeaveElement(idx int)
	Report(value interface{})
}

// reportDiff walks the result of DiffMaps and calls reporter.Report once
// per differing field, wrapping each call in EnterField/LeaveField. A field
// whose new value is a slice is walked element by element via
// reportSliceDiff, wrapped in EnterElement/LeaveElement, instead of
// reporting the whole replacement slice as a single opaque value; if the
// old value was not a slice, every element is reported.
func reportDiff(reporter DiffReporter, a, b map[string]interface{}, diff map[string]interface{}) {
	if reporter == nil {
		return
	}
	for key, value := range diff {
		reporter.EnterField(key)
		if newSlice, ok := value.([]interface{}); ok {
			oldSlice, _ := a[key].([]interface{})
			reportSliceDiff(reporter, oldSlice, newSlice)
		} else {
			reporter.Report(value)
		}
		reporter.LeaveField(key)
	}
}

// reportSliceDiff reports every index at which a and b disagree, plus
// every index b adds beyond len(a). It does not report indices a drops
// beyond len(b): their removal is already implied by the field's new,
// shorter slice value, reported as a whole by the caller's DiffMaps
// result.
func reportSliceDiff(reporter DiffReporter, a, b []interface{}) {
	for idx, bv := range b {
		if idx < len(a) && reflect.DeepEqual(a[idx], bv) {
			continue
		}
		reporter.EnterElement(idx)
		reporter.Report(bv)
		reporter.LeaveElement(idx)
	}
}
