package keydiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// jsonWriter implements Writer by accumulating a JSON array of raw values,
// one element per field written, flattening every primitive in a patch
// into one JSON array rather than nesting each patch as its own object.
type jsonWriter struct {
	result []byte
}

func (w *jsonWriter) next() {
	if len(w.result) == 0 {
		w.result = append(w.result, '[')
	} else {
		w.result = append(w.result, ',')
	}
}

func (w *jsonWriter) WriteUint8(v uint8) error { return w.WriteValue(v) }
func (w *jsonWriter) WriteInt(v int) error     { return w.WriteValue(v) }

func (w *jsonWriter) WriteValue(v interface{}) error {
	w.next()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.result = append(w.result, b...)
	return nil
}

func (w *jsonWriter) finalize() []byte {
	if len(w.result) == 0 {
		return []byte{'[', ']'}
	}
	return append(w.result, ']')
}

type jsonReader struct {
	dec *json.Decoder
}

func (r *jsonReader) tryEOF() error {
	if r.dec.More() {
		return nil
	}
	t, err := r.dec.Token()
	if err != nil {
		return err
	}
	if t != json.Delim(']') {
		return fmt.Errorf("keydiff: expected ] at end of patch stream")
	}
	return io.EOF
}

func (r *jsonReader) ReadUint8() (uint8, error) {
	v, err := r.ReadValue()
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("keydiff: expected uint8, got %T", v)
	}
	return uint8(f), nil
}

func (r *jsonReader) ReadInt() (int, error) {
	v, err := r.ReadValue()
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("keydiff: expected int, got %T", v)
	}
	return int(f), nil
}

func (r *jsonReader) ReadValue() (interface{}, error) {
	if err := r.tryEOF(); err != nil {
		return nil, err
	}
	var val interface{}
	if err := r.dec.Decode(&val); err != nil {
		return nil, err
	}
	return val, nil
}

func (r *jsonReader) expectArray() error {
	t, err := r.dec.Token()
	if err != nil {
		return err
	}
	if t != json.Delim('[') {
		return fmt.Errorf("keydiff: expected a JSON array")
	}
	return nil
}

// MarshalJSON encodes patches as a flat JSON array, the wire format
// produced by cmd/keydiff-compare and consumed by cmd/keydiff-apply.
func (patches PatchList) MarshalJSON() ([]byte, error) {
	w := jsonWriter{}
	if err := patches.WriteTo(&w); err != nil {
		return nil, err
	}
	return w.finalize(), nil
}

// UnmarshalJSON decodes patches from the flat JSON array MarshalJSON
// produces.
func (patches *PatchList) UnmarshalJSON(data []byte) error {
	r := jsonReader{dec: json.NewDecoder(bytes.NewReader(data))}

	if err := r.expectArray(); err != nil {
		return err
	}

	var out PatchList
	for {
		p, err := ReadFrom(&r)
		if err == io.EOF {
			*patches = out
			return nil
		}
		if err != nil {
			return err
		}
		out = append(out, p)
	}
}
