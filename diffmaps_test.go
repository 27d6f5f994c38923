package keydiff_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wharfdale/keydiff"
)

func TestDiffMaps(t *testing.T) {
	type testCase struct {
		name string
		a, b map[string]interface{}
		want map[string]interface{}
	}

	for _, tc := range []testCase{
		{
			name: "identical maps produce no diff",
			a:    map[string]interface{}{"a": 1.0, "b": "x"},
			b:    map[string]interface{}{"a": 1.0, "b": "x"},
			want: nil,
		},
		{
			name: "changed field is reported with its new value",
			a:    map[string]interface{}{"a": 1.0, "b": "x"},
			b:    map[string]interface{}{"a": 1.0, "b": "y"},
			want: map[string]interface{}{"b": "y"},
		},
		{
			name: "added field is reported",
			a:    map[string]interface{}{"a": 1.0},
			b:    map[string]interface{}{"a": 1.0, "b": "y"},
			want: map[string]interface{}{"b": "y"},
		},
		{
			name: "removed field is reported as nil",
			a:    map[string]interface{}{"a": 1.0, "b": "y"},
			b:    map[string]interface{}{"a": 1.0},
			want: map[string]interface{}{"b": nil},
		},
		{
			name: "nested value replaced wholesale, not recursed into",
			a:    map[string]interface{}{"a": map[string]interface{}{"x": 1.0}},
			b:    map[string]interface{}{"a": map[string]interface{}{"x": 2.0}},
			want: map[string]interface{}{"a": map[string]interface{}{"x": 2.0}},
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, keydiff.DiffMaps(tc.a, tc.b))
		})
	}
}

// pathReporter tracks a path through EnterField/LeaveField calls and
// records one entry per reported leaf value.
type pathReporter struct {
	entries []pathEntry
	path    []string
}

type pathEntry struct {
	path []string
	val  interface{}
}

func (r *pathReporter) EnterField(key string)  { r.path = append(r.path, key) }
func (r *pathReporter) LeaveField(key string)  { r.path = r.path[:len(r.path)-1] }
func (r *pathReporter) EnterElement(idx int)   { r.path = append(r.path, strconv.Itoa(idx)) }
func (r *pathReporter) LeaveElement(idx int)   { r.path = r.path[:len(r.path)-1] }
func (r *pathReporter) Report(val interface{}) {
	entry := pathEntry{path: append([]string{}, r.path...), val: val}
	r.entries = append(r.entries, entry)
}

func TestDiffReporterObservesEachChangedField(t *testing.T) {
	reporter := &pathReporter{}

	runner := keydiff.NewRunner("id", keydiff.WithDiffReporter(reporter))
	from := []interface{}{map[string]interface{}{"id": "a", "x": 1.0, "y": 2.0}}
	to := []interface{}{map[string]interface{}{"id": "a", "x": 1.0, "y": 3.0}}

	_, err := runner.Compare(from, to)
	require.NoError(t, err)

	require.Equal(t, []pathEntry{{path: []string{"y"}, val: 3.0}}, reporter.entries)
}

func TestDiffReporterWalksChangedSliceElements(t *testing.T) {
	reporter := &pathReporter{}

	runner := keydiff.NewRunner("id", keydiff.WithDiffReporter(reporter))
	from := []interface{}{
		map[string]interface{}{"id": "a", "tags": []interface{}{"x", "y"}},
	}
	to := []interface{}{
		map[string]interface{}{"id": "a", "tags": []interface{}{"x", "z", "w"}},
	}

	_, err := runner.Compare(from, to)
	require.NoError(t, err)

	require.Equal(t, []pathEntry{
		{path: []string{"tags", "1"}, val: "z"},
		{path: []string{"tags", "2"}, val: "w"},
	}, reporter.entries)
}
