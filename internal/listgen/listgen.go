// Package listgen generates keyed record lists and random mutations of
// them for the property tests in differ_test.go and the fuzz harness in
// fuzz_test.go: lists of {"id": ..., "v": ...} records and a sequence of
// Insert/Remove/Move/Update mutations applied to them.
package listgen

import (
	"math/rand"
	"strconv"
)

// Record builds a keyed record with the given id and payload value.
func Record(id int, value int) map[string]interface{} {
	return map[string]interface{}{"id": strconv.Itoa(id), "v": value}
}

// List builds a list of n records with ids 0..n-1 and payload equal to the
// id.
func List(n int) []interface{} {
	out := make([]interface{}, n)
	for i := 0; i < n; i++ {
		out[i] = Record(i, i)
	}
	return out
}

// Mutate applies ops random Insert/Remove/Move/Update operations to a copy
// of from and returns the result, along with the next unused id (so
// repeated calls don't reintroduce a removed key).
func Mutate(rng *rand.Rand, from []interface{}, ops int, nextID int) (to []interface{}, newNextID int) {
	to = append([]interface{}{}, from...)

	for i := 0; i < ops; i++ {
		if len(to) == 0 {
			to = append(to, Record(nextID, nextID))
			nextID++
			continue
		}

		switch rng.Intn(4) {
		case 0: // insert
			pos := rng.Intn(len(to) + 1)
			rec := Record(nextID, nextID)
			nextID++
			to = append(to[:pos], append([]interface{}{rec}, to[pos:]...)...)
		case 1: // remove
			pos := rng.Intn(len(to))
			to = append(to[:pos], to[pos+1:]...)
		case 2: // move
			if len(to) < 2 {
				continue
			}
			from := rng.Intn(len(to))
			dst := rng.Intn(len(to))
			rec := to[from]
			to = append(to[:from], to[from+1:]...)
			if dst > from {
				dst--
			}
			to = append(to[:dst], append([]interface{}{rec}, to[dst:]...)...)
		case 3: // update
			pos := rng.Intn(len(to))
			rec := to[pos].(map[string]interface{})
			updated := make(map[string]interface{}, len(rec))
			for k, v := range rec {
				updated[k] = v
			}
			updated["v"] = rng.Intn(1 << 20)
			to[pos] = updated
		}
	}

	return to, nextID
}
