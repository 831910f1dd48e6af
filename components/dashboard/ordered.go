package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OrderedObject is a JSON object that remembers the order of its keys.
type OrderedObject struct {
	Keys   []string
	Values map[string]json.RawMessage
}

// UnmarshalJSON walks the object token by token so key order survives.
func (o *OrderedObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = OrderedObject{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dashboard: expected JSON object, got %v", tok)
	}
	out := OrderedObject{Values: map[string]json.RawMessage{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("dashboard: expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if _, seen := out.Values[key]; !seen {
			out.Keys = append(out.Keys, key)
		}
		out.Values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

// MarshalJSON writes the object back in key order.
func (o OrderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		value := o.Values[key]
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Len reports the number of keys.
func (o OrderedObject) Len() int { return len(o.Keys) }

// Get returns the raw value stored under key.
func (o OrderedObject) Get(key string) (json.RawMessage, bool) {
	if o.Values == nil {
		return nil, false
	}
	raw, ok := o.Values[key]
	return raw, ok
}

// Numbers returns the values in key order as numbers; non-numeric values
// become zero so positions still line up with labels.
func (o OrderedObject) Numbers() []float64 {
	out := make([]float64, len(o.Keys))
	for i, key := range o.Keys {
		out[i] = rawNumber(o.Values[key])
	}
	return out
}

func rawNumber(raw json.RawMessage) float64 {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// Text is a display scalar that tolerates strings, numbers, booleans and null
// in source documents.
type Text string

// UnmarshalJSON accepts any JSON scalar.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] != '"' {
		*t = Text(data)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

func (t Text) String() string { return string(t) }
