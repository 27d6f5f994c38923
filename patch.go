package keydiff

// Kind identifies the operation a Patch describes.
type Kind uint8

const (
	// Null is the zero value of Kind and is never emitted by a Runner.
	Null Kind = iota
	Insert
	Remove
	Move
	Update
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "Insert"
	case Remove:
		return "Remove"
	case Move:
		return "Move"
	case Update:
		return "Update"
	default:
		return "Null"
	}
}

// Patch is a single edit operation in an edit script produced by a Runner.
//
// For Insert/Remove, From and To describe an inclusive range in the
// coordinate system of the list *after* every preceding patch in the script
// has been applied; Count is To-From+1. For Move, From is the source index
// (already adjusted for the shift caused by earlier moves, see
// appendMove in differ.go) and To is the destination index; Count is the
// number of contiguous records moved together. For Update, From and To are
// both the index of the updated record and Fields carries the changed
// fields.
type Patch struct {
	Kind  Kind
	From  int
	To    int
	Count int

	// Data holds, for Insert, the records being inserted (len(Data) ==
	// Count). Unused for Remove, Move and Update.
	Data []interface{}

	// Fields holds the Update payload: a mapping of field name to new
	// value (nil for a deleted field). Only set when Kind == Update.
	Fields map[string]interface{}
}

// canMerge reports whether p and next can be collapsed into a single patch
// describing the union of their work. Merging is not commutative: next must
// come strictly after p in the forward walk that produced them.
func (p Patch) canMerge(next Patch) bool {
	if p.Kind != next.Kind {
		return false
	}

	switch p.Kind {
	case Remove:
		// A Remove merges with a following Remove whose range starts at
		// this one's To+1: Remove(a,b) then Remove(b+1,c) become
		// Remove(a,c). Two removes with the same From do not merge.
		return next.From == p.To+1
	case Insert:
		return next.From == p.To+1 || next.From == p.From
	case Move:
		return next.From == p.From+p.Count && next.To == p.To+p.Count
	default:
		// Update and Null never merge, nor does any cross-kind pair
		// (handled above).
		return false
	}
}

// merge collapses next into p, assuming canMerge(p, next) holds. Behavior
// is unspecified if it does not.
func (p Patch) merge(next Patch) Patch {
	switch p.Kind {
	case Remove:
		return Patch{Kind: Remove, From: p.From, To: next.To, Count: p.Count + next.Count}
	case Insert:
		if next.From == p.From {
			// Second run of inserts at the same point: prepend is wrong,
			// the walk only ever emits this case when next describes
			// later records destined for the same insertion point, so
			// next's data follows p's.
			return Patch{
				Kind:  Insert,
				From:  p.From,
				To:    p.To + next.Count,
				Count: p.Count + next.Count,
				Data:  append(append([]interface{}{}, p.Data...), next.Data...),
			}
		}
		return Patch{
			Kind:  Insert,
			From:  p.From,
			To:    next.To,
			Count: p.Count + next.Count,
			Data:  append(append([]interface{}{}, p.Data...), next.Data...),
		}
	case Move:
		return Patch{Kind: Move, From: p.From, To: p.To, Count: p.Count + next.Count}
	default:
		return p
	}
}

// appendPatch appends p to list, merging it into the last element of list
// when possible. Structural patches (Insert/Remove/Move) are passed through
// this helper during the main walk; Update patches are appended as-is by
// the caller since they never merge.
func appendPatch(list []Patch, p Patch) []Patch {
	if n := len(list); n > 0 && list[n-1].canMerge(p) {
		list[n-1] = list[n-1].merge(p)
		return list
	}
	return append(list, p)
}
