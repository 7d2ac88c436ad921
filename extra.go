package partdex

import (
	"bytes"
	"encoding/json"
)

// ExtraField is a single unmodeled vendor attribute: an opaque key/value
// pair passed through the cache untouched.
type ExtraField struct {
	Key   string
	Value json.RawMessage
}

// ExtraBag is an ordered collection of unmodeled vendor attributes. Keys
// keep their vendor-supplied order through a marshal/unmarshal round trip,
// unlike a plain map.
type ExtraBag []ExtraField

// Get returns the raw value for key, or nil if absent.
func (b ExtraBag) Get(key string) json.RawMessage {
	for _, f := range b {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// GetString returns the value for key decoded as a string. Missing keys and
// non-string values return "".
func (b ExtraBag) GetString(key string) string {
	raw := b.Get(key)
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Delete removes key from the bag and reports whether it was present.
func (b *ExtraBag) Delete(key string) bool {
	for i, f := range *b {
		if f.Key == key {
			*b = append((*b)[:i], (*b)[i+1:]...)
			return true
		}
	}
	return false
}

// MarshalJSON serializes the bag as a JSON object in field order.
func (b ExtraBag) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object preserving key order.
func (b *ExtraBag) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Errorf(EINVALID, "extra bag must be a JSON object")
	}

	var fields ExtraBag
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		fields = append(fields, ExtraField{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*b = fields
	return nil
}
