// Package codec turns session data into bytes for backends that store blobs.
package codec

import (
	"encoding/json"
	"reflect"

	"github.com/ugorji/go/codec"
)

// Codec marshals and unmarshals session payloads.
type Codec struct {
	Name      string
	Marshal   func(v any) ([]byte, error)
	Unmarshal func(data []byte, v any) error
}

var (
	// JSON is a Codec that uses the encoding/json package. Numbers decode as
	// float64 when the target is interface-typed.
	JSON = Codec{Name: "json", Marshal: json.Marshal, Unmarshal: json.Unmarshal}

	// MsgPack is a Codec backed by github.com/ugorji/go/codec. Integers keep
	// their integer type and maps decode as map[string]any.
	MsgPack = Codec{Name: "msgpack", Marshal: msgPackMarshal, Unmarshal: msgPackUnmarshal}
)

func msgPackHandle() *codec.MsgpackHandle {
	h := new(codec.MsgpackHandle)
	h.WriteExt = true
	h.RawToString = true
	h.SignedInteger = true
	h.MapType = reflect.TypeOf(map[string]any(nil))
	return h
}

func msgPackMarshal(v any) (out []byte, err error) {
	err = codec.NewEncoderBytes(&out, msgPackHandle()).Encode(v)
	return out, err
}

func msgPackUnmarshal(in []byte, v any) error {
	return codec.NewDecoderBytes(in, msgPackHandle()).Decode(v)
}
