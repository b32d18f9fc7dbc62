package xmljson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON renders the value as plain JSON: strings and numbers as
// scalars, mappings as objects, sequences as arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindMapping:
		return json.Marshal(v.mapping)
	case KindSequence:
		if v.seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.seq)
	}
	return nil, fmt.Errorf("xmljson: cannot marshal value of kind %s", v.kind)
}

// UnmarshalJSON rebuilds a value from plain JSON. JSON booleans and nulls
// have no XML-derived counterpart and come back as strings ("true",
// "false", "").
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return String("")
	case bool:
		if t {
			return String("true")
		}
		return String("false")
	case string:
		return String(t)
	case json.Number:
		if n, err := t.Float64(); err == nil {
			return Number(n)
		}
		return String(t.String())
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = fromAny(item)
		}
		return Sequence(items...)
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, item := range t {
			entries[k] = fromAny(item)
		}
		return Mapping(entries)
	}
	return String(fmt.Sprint(raw))
}
