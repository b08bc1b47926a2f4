// Package jsoncompat picks the JSON codec at build time: sonic by default,
// encoding/json with the stdjson build tag.
package jsoncompat

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}
