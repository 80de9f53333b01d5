package fingerprint

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Value is a self-reported characteristic. Browsers send these as numbers or
// strings depending on the API that produced them, so both decode into the
// same canonical text. The empty string means absent.
type Value string

// UnmarshalJSON accepts strings, numbers, booleans and null. Objects and
// arrays decode to the empty value instead of failing the whole bundle.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(strings.TrimSpace(s))
	case '{', '[':
		*v = ""
	case 't', 'f':
		*v = Value(data)
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			*v = Value(data)
			return nil
		}
		*v = Value(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

// String returns the raw text.
func (v Value) String() string {
	return string(v)
}

// IsZero reports whether the value is absent.
func (v Value) IsZero() bool {
	return v == ""
}

// Or returns v, or def when v is absent.
func (v Value) Or(def string) string {
	if v == "" {
		return def
	}
	return string(v)
}
