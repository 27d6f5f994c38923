// Package keydiffmsgpack implements a MessagePack wire codec for
// keydiff.PatchList. It shares the root package's WriteTo/ReadFrom
// encoding and only adapts the primitive read/write calls to a different
// serialization library.
package keydiffmsgpack

import (
	"io"

	"github.com/vmihailenco/msgpack/v4"

	"github.com/wharfdale/keydiff"
)

// Marshal encodes a patch list using MessagePack.
func Marshal(patches keydiff.PatchList) ([]byte, error) {
	return msgpack.Marshal(&wirePatchList{patches})
}

// Unmarshal decodes a patch list previously produced by Marshal.
func Unmarshal(data []byte) (keydiff.PatchList, error) {
	var w wirePatchList
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return w.patches, nil
}

// wirePatchList adapts keydiff.PatchList to msgpack.CustomEncoder/
// CustomDecoder. It is not exported: callers use Marshal/Unmarshal
// directly, with the custom (en/de)coder type kept internal since
// embedding a patch list inside a larger msgpack structure isn't a
// requirement this module has.
type wirePatchList struct {
	patches keydiff.PatchList
}

var _ msgpack.CustomEncoder = (*wirePatchList)(nil)
var _ msgpack.CustomDecoder = (*wirePatchList)(nil)

type writer struct {
	*msgpack.Encoder
}

func (w writer) WriteUint8(v uint8) error      { return w.EncodeUint8(v) }
func (w writer) WriteInt(v int) error          { return w.EncodeInt(int64(v)) }
func (w writer) WriteValue(v interface{}) error { return w.Encode(v) }

func (w *wirePatchList) EncodeMsgpack(enc *msgpack.Encoder) error {
	return w.patches.WriteTo(writer{enc})
}

type reader struct {
	*msgpack.Decoder
}

func (r reader) ReadUint8() (uint8, error) { return r.DecodeUint8() }

func (r reader) ReadInt() (int, error) {
	v, err := r.DecodeInt64()
	return int(v), err
}

func (r reader) ReadValue() (interface{}, error) {
	var v interface{}
	err := r.Decode(&v)
	return v, err
}

func (w *wirePatchList) DecodeMsgpack(dec *msgpack.Decoder) error {
	r := reader{dec}

	for {
		p, err := keydiff.ReadFrom(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		w.patches = append(w.patches, p)
	}
}
