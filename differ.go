package keydiff

import (
	ikd "github.com/wharfdale/keydiff/internal/keydiff"
)

// Runner performs keyed list-differencing. Every call to Compare builds
// its own per-call state (a *run) and discards it on return, so a Runner
// value itself holds nothing but configuration and is safe to reuse
// sequentially; it is not safe for concurrent calls to Compare on the same
// Runner to race on that configuration being mutated concurrently, so
// treat a Runner as owned by one caller at a time.
type Runner struct {
	extractor Extractor
	options   Options
}

// NewRunner returns a Runner keyed by keyField, using the default
// MapExtractor. An empty keyField configures the no-key positional
// fallback.
func NewRunner(keyField string, opts ...Option) *Runner {
	return NewRunnerWithExtractor(NewMapExtractor(keyField), opts...)
}

// NewRunnerWithExtractor returns a Runner driven by a caller-supplied
// Extractor, for record types that aren't map[string]interface{}.
func NewRunnerWithExtractor(extractor Extractor, opts ...Option) *Runner {
	return &Runner{
		extractor: extractor,
		options:   DefaultOptions.apply(opts),
	}
}

// Compare produces the edit script that transforms from into to. The
// result is always well-formed; duplicate or missing keys degrade the
// result's optimality, not its correctness.
func (r *Runner) Compare(from, to []interface{}) ([]Patch, error) {
	if !r.extractor.HasKey() {
		return r.compareWithoutKey(from, to), nil
	}

	run := &run{r: r, from: from, to: to}

	if r.options.duplicateKeyFallback && run.hasDuplicateOrMissingKey() {
		return r.compareWithoutKey(from, to), nil
	}

	return run.compare(), nil
}

// recordState is the per-key bookkeeping the hash build and main walk
// maintain: its position in "from" (-1 if absent), its position in "to"
// (-1 if absent), and whether a Move covering it has already been
// emitted.
type recordState struct {
	posF    int
	posT    int
	isMoved bool
}

// moveOp buffers one or more adjacent Move operations discovered during
// the main walk, before the order-statistics offset correction is applied
// and the result becomes a Patch (see appendMove).
type moveOp struct {
	posF  int
	from  int
	to    int
	count int
}

func (m moveOp) canMerge(next moveOp) bool {
	return next.posF == m.posF+m.count && next.from == m.from+m.count && next.to == m.to+m.count
}

func (m moveOp) merge(next moveOp) moveOp {
	return moveOp{posF: m.posF, from: m.from, to: m.to, count: m.count + next.count}
}

// noMove is a pseudo-Kind used internally by the main walk to mean "this
// record stays where it is"; it is never present on an emitted Patch.
const noMove Kind = 255

// run holds all per-Compare-call state. It is discarded when compare
// returns; a Runner creates a fresh run for every call. iF/iT mirror the
// reference algorithm's cursor member variables: several helpers (the
// remove-run and insert-run flushes in particular) read the cursor that is
// "current" at the time they're called rather than one passed in, which
// matters because a flush can be triggered from either the from-cursor or
// the to-cursor loop.
type run struct {
	r        *Runner
	from, to []interface{}

	hash map[string]*recordState
	tree ikd.OrderStatTree

	patches []Patch
	updates []Patch

	skipped int
	iF, iT  int

	insertStart int
	removeStart int
	removing    int
	pendingMove *moveOp
}

func (run *run) extractor() Extractor { return run.r.extractor }

func (run *run) emitUpdateIfChanged(fromIdx, toIdx int) {
	if fromIdx < 0 || fromIdx >= len(run.from) || toIdx < 0 || toIdx >= len(run.to) {
		return
	}
	if run.extractor().IsShared(run.from[fromIdx], run.to[toIdx]) {
		return
	}

	fromMap := run.extractor().ToMap(run.from[fromIdx], fromIdx)
	toMap := run.extractor().ToMap(run.to[toIdx], toIdx)

	diff := DiffMaps(fromMap, toMap)
	if len(diff) == 0 {
		return
	}
	run.updates = append(run.updates, Patch{Kind: Update, From: toIdx, To: toIdx, Count: 1, Fields: diff})
	reportDiff(run.r.options.diffReporter, fromMap, toMap, diff)
}

// preprocess skips the matching prefix, detects a pure append, pure
// truncate, or full match, and emits Update patches for records with
// matching keys but differing payloads inside the prefix. It returns true
// when the whole comparison is already settled and the main walk should be
// skipped.
func (run *run) preprocess() (done bool) {
	lenF, lenT := len(run.from), len(run.to)
	n := lenF
	if lenT < n {
		n = lenT
	}

	i := 0
	for i < n {
		if run.extractor().IsShared(run.from[i], run.to[i]) {
			i++
			continue
		}

		if run.extractor().Key(run.from[i]) != run.extractor().Key(run.to[i]) {
			break
		}

		run.emitUpdateIfChanged(i, i)
		i++
	}

	switch {
	case i == lenF && i == lenT:
		run.skipped = i
		return true
	case i == lenF && lenT > i:
		run.patches = append(run.patches, Patch{
			Kind: Insert, From: i, To: lenT - 1, Count: lenT - i,
			Data: append([]interface{}{}, run.to[i:]...),
		})
		run.skipped = lenT
		return true
	case i == lenT && lenF > i:
		run.patches = append(run.patches, Patch{Kind: Remove, From: i, To: lenF - 1, Count: lenF - i})
		run.skipped = lenF
		return true
	default:
		run.skipped = i
		return false
	}
}

// buildHash indexes from and to by key, in a map sized up front so that
// filling it does not rehash. A duplicate or empty key is logged and
// the later occurrence wins, rather than treated as an error.
func (run *run) buildHash() {
	lenF, lenT := len(run.from), len(run.to)
	size := 2*(max(lenF, lenT)-run.skipped) + 100
	if size < 16 {
		size = 16
	}
	run.hash = make(map[string]*recordState, size)

	logger := run.r.options.logrusLogger()

	for i := run.skipped; i < lenF; i++ {
		key := run.extractor().Key(run.from[i])
		if key == "" {
			logger.WithField("index", i).Warn("keydiff: record in from-list has empty or missing key")
		} else if _, dup := run.hash[key]; dup {
			logger.WithField("key", key).Warn("keydiff: duplicate key in from-list, keeping the later occurrence")
		}
		run.hash[key] = &recordState{posF: i, posT: -1}
	}

	for i := run.skipped; i < lenT; i++ {
		key := run.extractor().Key(run.to[i])
		if key == "" {
			logger.WithField("index", i).Warn("keydiff: record in to-list has empty or missing key")
		}
		if state, ok := run.hash[key]; ok {
			if state.posT >= 0 {
				logger.WithField("key", key).Warn("keydiff: duplicate key in to-list, keeping the later occurrence")
			}
			state.posT = i
		} else {
			run.hash[key] = &recordState{posF: -1, posT: i}
		}
	}
}

// hasDuplicateOrMissingKey scans from and to for a duplicate or empty key
// without mutating run state, used by WithDuplicateKeyFallback to decide
// whether to switch to the positional compare before doing any other
// work.
func (run *run) hasDuplicateOrMissingKey() bool {
	for _, list := range [][]interface{}{run.from, run.to} {
		seen := make(map[string]struct{}, len(list))
		for _, rec := range list {
			key := run.extractor().Key(rec)
			if key == "" {
				return true
			}
			if _, ok := seen[key]; ok {
				return true
			}
			seen[key] = struct{}{}
		}
	}
	return false
}

// flushRemoveRun emits the buffered remove-run, if any. Remove patches
// report positions in the post-remove coordinate system of the "to" list,
// so the flush uses the current to-cursor, not the from-cursor that drove
// the run.
func (run *run) flushRemoveRun() {
	if run.removeStart == -1 {
		return
	}
	run.patches = append(run.patches, Patch{Kind: Remove, From: run.iT, To: run.iT + run.removing - 1, Count: run.removing})
	run.removeStart = -1
	run.removing = 0
}

// flushInsertRun emits the buffered insert-run, if any. No attempt is made
// to merge the emission with the previous structural patch.
func (run *run) flushInsertRun() {
	if run.insertStart == -1 {
		return
	}
	run.patches = append(run.patches, Patch{
		Kind: Insert, From: run.insertStart, To: run.iT - 1, Count: run.iT - run.insertStart,
		Data: append([]interface{}{}, run.to[run.insertStart:run.iT]...),
	})
	run.insertStart = -1
}

// appendMove corrects the move's source index for the shift caused by
// earlier emitted moves (tracked in the order-statistics tree) and
// appends the resulting Patch.
func (run *run) appendMove(m moveOp) {
	node := run.tree.Insert(m.posF, m.count)
	offset := run.tree.CountLessThan(node.Key)

	run.patches = appendPatch(run.patches, Patch{
		Kind: Move, From: m.from - offset, To: m.to, Count: m.count,
	})
}

func (run *run) flushPendingMove() {
	if run.pendingMove == nil {
		return
	}
	run.appendMove(*run.pendingMove)
	run.pendingMove = nil
}

// markFrom advances the from-cursor's bookkeeping: it flushes a pending
// remove-run when the current record isn't also being removed, buffers a
// contiguous removal, clears order-statistics tree entries that have
// fallen behind the from-cursor on a Move, and records the record's
// current from-position on its hash state.
func (run *run) markFrom(kind Kind, state *recordState) {
	if run.removeStart != -1 && kind != Remove {
		run.flushRemoveRun()
	}

	switch kind {
	case Remove:
		if run.removeStart == -1 {
			run.removeStart = run.iF
		}
		run.removing++
		if run.iF == len(run.from)-1 {
			run.flushRemoveRun()
		}
	case Move:
		for !run.tree.Empty() && run.tree.Min() <= run.iF {
			run.tree.Remove(run.tree.Min())
		}
	}

	if state != nil {
		state.posF = run.iF
	}
}

// markTo advances the to-cursor's bookkeeping: it flushes a pending
// insert-run when the current record isn't also being inserted, buffers a
// contiguous insertion, accumulates or flushes a pending Move depending on
// whether it's adjacent to the last one, and emits an Update for a record
// that stays in place or moves, when its fields differ.
func (run *run) markTo(kind Kind, state *recordState) {
	if run.insertStart != -1 && kind != Insert {
		run.flushInsertRun()
	}

	switch kind {
	case Insert:
		if run.insertStart == -1 {
			run.insertStart = run.iT
		}
	case Move:
		next := moveOp{posF: state.posF, from: run.iT + state.posF - run.iF, to: run.iT, count: 1}
		switch {
		case run.pendingMove == nil:
			run.pendingMove = &next
		case run.pendingMove.canMerge(next):
			merged := run.pendingMove.merge(next)
			run.pendingMove = &merged
		default:
			run.flushPendingMove()
			run.pendingMove = &next
		}
		state.isMoved = true
	}

	if kind != Move {
		run.flushPendingMove()
	}

	if kind == Move || kind == noMove {
		run.emitUpdateIfChanged(state.posF, run.iT)
	}
}

func (run *run) mainWalk() {
	run.insertStart, run.removeStart = -1, -1
	run.iF, run.iT = run.skipped, run.skipped

	lenF, lenT := len(run.from), len(run.to)

	for run.iF < lenF || run.iT < lenT {
		var keyF string
		matched := false

		for run.iF < lenF {
			itemF := run.from[run.iF]
			kf := run.extractor().Key(itemF)
			state := run.hash[kf]

			switch {
			// Once every to-record has been visited, a record that is not
			// already moved can only be a duplicate-key leftover: remove it.
			case state.posT < 0 || (run.iT >= lenT && !state.isMoved):
				run.markFrom(Remove, state)
				run.iF++
			case state.isMoved:
				run.markFrom(Move, state)
				run.iF++
			default:
				run.markFrom(noMove, state)
				keyF = kf
				matched = true
			}

			if matched {
				break
			}
		}

		if run.iF >= lenF && run.iT < lenT {
			run.patches = append(run.patches, Patch{
				Kind: Insert, From: run.iT, To: lenT - 1, Count: lenT - run.iT,
				Data: append([]interface{}{}, run.to[run.iT:]...),
			})
			return
		}

		for run.iT < lenT {
			itemT := run.to[run.iT]
			kt := run.extractor().Key(itemT)
			state := run.hash[kt]

			if state.posF < 0 {
				run.markTo(Insert, state)
				run.iT++
				continue
			}

			if kt != keyF {
				run.markTo(Move, state)
				run.iT++
				continue
			}

			run.markTo(noMove, state)
			run.iT++
			run.iF++
			break
		}
	}

	var dummy recordState
	run.markTo(noMove, &dummy)
	run.markFrom(noMove, nil)
}

func (run *run) combine() []Patch {
	out := make([]Patch, 0, len(run.patches)+len(run.updates))
	out = append(out, run.patches...)
	out = append(out, run.updates...)
	return out
}

func (run *run) compare() []Patch {
	if run.preprocess() {
		return run.combine()
	}

	run.buildHash()
	run.mainWalk()

	return run.combine()
}

// compareWithoutKey is the positional fallback used when no key field is
// configured: records are compared index by index, so any shift in
// position shows up as a Remove/Insert pair rather than a Move.
func (r *Runner) compareWithoutKey(from, to []interface{}) []Patch {
	lenF, lenT := len(from), len(to)
	n := max(lenF, lenT)

	var patches, updates []Patch

	for i := 0; i < n; i++ {
		hasF := i < lenF
		hasT := i < lenT

		switch {
		case hasF && hasT:
			if r.extractor.IsShared(from[i], to[i]) {
				continue
			}
			fromMap := r.extractor.ToMap(from[i], i)
			toMap := r.extractor.ToMap(to[i], i)
			diff := DiffMaps(fromMap, toMap)
			if len(diff) > 0 {
				updates = append(updates, Patch{Kind: Update, From: i, To: i, Count: 1, Fields: diff})
				reportDiff(r.options.diffReporter, fromMap, toMap, diff)
			}
		case hasT:
			patches = appendPatch(patches, Patch{Kind: Insert, From: i, To: i, Count: 1, Data: []interface{}{to[i]}})
		case hasF:
			patches = appendPatch(patches, Patch{Kind: Remove, From: i, To: i, Count: 1})
		}
	}

	out := make([]Patch, 0, len(patches)+len(updates))
	out = append(out, patches...)
	out = append(out, updates...)
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
