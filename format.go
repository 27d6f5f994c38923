package keydiff

import "fmt"

// Writer is the interface a wire codec implements to serialize a Patch.
// This lets a single encoding of the patch algebra (WriteTo/ReadFrom,
// below) be shared across JSON (json.go) and MessagePack
// (pkg/keydiffmsgpack) without duplicating the field layout in each
// codec.
type Writer interface {
	WriteUint8(v uint8) error
	WriteInt(v int) error
	WriteValue(v interface{}) error
}

// Reader is the read-side counterpart of Writer.
type Reader interface {
	ReadUint8() (uint8, error)
	ReadInt() (int, error)
	ReadValue() (interface{}, error)
}

// WriteTo writes a single Patch to w.
func WriteTo(w Writer, p Patch) error {
	if err := w.WriteUint8(uint8(p.Kind)); err != nil {
		return err
	}

	switch p.Kind {
	case Insert:
		if err := w.WriteInt(p.From); err != nil {
			return err
		}
		if err := w.WriteInt(p.To); err != nil {
			return err
		}
		if err := w.WriteInt(p.Count); err != nil {
			return err
		}
		return w.WriteValue(p.Data)
	case Remove, Move:
		if err := w.WriteInt(p.From); err != nil {
			return err
		}
		if err := w.WriteInt(p.To); err != nil {
			return err
		}
		return w.WriteInt(p.Count)
	case Update:
		if err := w.WriteInt(p.From); err != nil {
			return err
		}
		return w.WriteValue(p.Fields)
	default:
		return fmt.Errorf("keydiff: WriteTo: unknown patch kind %v", p.Kind)
	}
}

// ReadFrom reads a single Patch from r.
func ReadFrom(r Reader) (Patch, error) {
	code, err := r.ReadUint8()
	if err != nil {
		return Patch{}, err
	}

	kind := Kind(code)

	switch kind {
	case Insert:
		from, err := r.ReadInt()
		if err != nil {
			return Patch{}, err
		}
		to, err := r.ReadInt()
		if err != nil {
			return Patch{}, err
		}
		count, err := r.ReadInt()
		if err != nil {
			return Patch{}, err
		}
		val, err := r.ReadValue()
		if err != nil {
			return Patch{}, err
		}
		data, _ := val.([]interface{})
		return Patch{Kind: Insert, From: from, To: to, Count: count, Data: data}, nil
	case Remove, Move:
		from, err := r.ReadInt()
		if err != nil {
			return Patch{}, err
		}
		to, err := r.ReadInt()
		if err != nil {
			return Patch{}, err
		}
		count, err := r.ReadInt()
		if err != nil {
			return Patch{}, err
		}
		return Patch{Kind: kind, From: from, To: to, Count: count}, nil
	case Update:
		from, err := r.ReadInt()
		if err != nil {
			return Patch{}, err
		}
		val, err := r.ReadValue()
		if err != nil {
			return Patch{}, err
		}
		fields, _ := val.(map[string]interface{})
		return Patch{Kind: Update, From: from, To: from, Count: 1, Fields: fields}, nil
	default:
		return Patch{}, fmt.Errorf("keydiff: ReadFrom: unknown patch code %d", code)
	}
}

// PatchList is a named slice of Patch with codec helpers attached; it's
// what Compare's result is serialized as over the wire.
type PatchList []Patch

// WriteTo writes every patch in the list to w, in order.
func (patches PatchList) WriteTo(w Writer) error {
	for _, p := range patches {
		if err := WriteTo(w, p); err != nil {
			return err
		}
	}
	return nil
}
