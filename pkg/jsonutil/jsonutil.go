// Package jsonutil holds the shared decode-with-fallback logic for the
// JSON list columns on an EMR. Client submissions and old rows store
// these fields inconsistently: a native JSON array, a string containing
// a serialized array, or null. All three normalize to a plain slice and
// a malformed value decodes to an empty slice, never an error.
package jsonutil

import (
	"bytes"
	"encoding/json"
)

// DecodeList normalizes a semi-structured list column into a slice of T.
func DecodeList[T any](raw json.RawMessage) []T {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}
	}

	// Double-encoded variant: a JSON string holding a serialized array.
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return []T{}
		}
		raw = []byte(inner)
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			return []T{}
		}
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return []T{}
	}
	if list == nil {
		return []T{}
	}
	return list
}

// EncodeList marshals a slice for storage in a JSON column. A nil slice
// stores as an empty array so reads stay uniform.
func EncodeList[T any](list []T) json.RawMessage {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return json.RawMessage("[]")
	}
	return data
}
