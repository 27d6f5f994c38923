package keydiff

import "fmt"

// Apply applies an edit script produced by Compare to from and returns the
// resulting list. It is a reference implementation used by this module's
// own round-trip tests and by cmd/keydiff-apply; a production UI-list
// model adapter that applies patches incrementally against live state is a
// separate concern and is not implemented here.
//
// Apply panics if patches was not produced against a list shaped like
// from — in particular, it trusts From/To/Count on structural patches and
// does not revalidate them, so it can panic if the list is not the one
// that was used to produce the patches.
func Apply(from []interface{}, patches []Patch) []interface{} {
	out := make([]interface{}, len(from))
	copy(out, from)

	for _, p := range patches {
		switch p.Kind {
		case Insert:
			out = applyInsert(out, p)
		case Remove:
			out = applyRemove(out, p)
		case Move:
			out = applyMove(out, p)
		case Update:
			out = applyUpdate(out, p)
		case Null:
			// no-op
		default:
			panic(fmt.Sprintf("keydiff: Apply: unknown patch kind %v", p.Kind))
		}
	}

	return out
}

func applyInsert(list []interface{}, p Patch) []interface{} {
	out := make([]interface{}, 0, len(list)+p.Count)
	out = append(out, list[:p.From]...)
	out = append(out, p.Data...)
	out = append(out, list[p.From:]...)
	return out
}

func applyRemove(list []interface{}, p Patch) []interface{} {
	out := make([]interface{}, 0, len(list)-p.Count)
	out = append(out, list[:p.From]...)
	out = append(out, list[p.To+1:]...)
	return out
}

func applyMove(list []interface{}, p Patch) []interface{} {
	moved := make([]interface{}, p.Count)
	copy(moved, list[p.From:p.From+p.Count])

	withoutMoved := make([]interface{}, 0, len(list)-p.Count)
	withoutMoved = append(withoutMoved, list[:p.From]...)
	withoutMoved = append(withoutMoved, list[p.From+p.Count:]...)

	out := make([]interface{}, 0, len(list))
	out = append(out, withoutMoved[:p.To]...)
	out = append(out, moved...)
	out = append(out, withoutMoved[p.To:]...)
	return out
}

func applyUpdate(list []interface{}, p Patch) []interface{} {
	record, ok := list[p.From].(map[string]interface{})
	if !ok {
		panic(fmt.Sprintf("keydiff: Apply: Update patch targets a non-map record at index %d", p.From))
	}

	updated := make(map[string]interface{}, len(record))
	for k, v := range record {
		updated[k] = v
	}
	for k, v := range p.Fields {
		if v == nil {
			delete(updated, k)
		} else {
			updated[k] = v
		}
	}

	list[p.From] = updated
	return list
}
