// Package jsonx decodes bus payloads that may arrive as raw JSON or as
// already-decoded values.
package jsonx

import (
	"encoding/json"
	"errors"
)

var ErrNotObject = errors.New("not_a_json_object")

// Decode fills dst from src. src may be []byte, string, or any value that
// round-trips through encoding/json (e.g. a map from a retained config).
func Decode[T any](src any, dst *T) error {
	switch v := src.(type) {
	case nil:
		return errors.New("nil_payload")
	case *T:
		*dst = *v
		return nil
	case T:
		*dst = v
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}

// Object parses raw as a top-level JSON object.
func Object(raw []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}
