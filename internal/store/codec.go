package store

import "encoding/json"

// Codec converts a typed value to and from the stored string
type Codec[T any] interface {
	Encode(v T) (string, error)
	Decode(raw string) (T, error)
}

// JSONCodec is the default codec for record documents
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(v T) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (JSONCodec[T]) Decode(raw string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(raw), &v)
	return v, err
}

// StringCodec stores the string as-is
type StringCodec struct{}

func (StringCodec) Encode(v string) (string, error) { return v, nil }
func (StringCodec) Decode(raw string) (string, error) { return raw, nil }

// FlagCodec stores a bool as the literal "true" / "false".
// Anything other than "true" reads back as false.
type FlagCodec struct{}

func (FlagCodec) Encode(v bool) (string, error) {
	if v {
		return "true", nil
	}
	return "false", nil
}

func (FlagCodec) Decode(raw string) (bool, error) { return raw == "true", nil }
