// Package xmljson converts well-formed XML documents into a generic JSON-like
// value tree with no knowledge of any particular schema.
package xmljson

import (
	"regexp"
	"strconv"
)

// TextKey is the reserved mapping key that holds the character data of an
// element that also carries attributes. XML attribute names cannot contain
// '#', so the key never collides with a real attribute.
const TextKey = "#text"

// Kind discriminates the variants of a Value.
type Kind uint8

const (
	// KindString is a scalar string.
	KindString Kind = iota
	// KindNumber is a scalar number.
	KindNumber
	// KindMapping maps element/attribute names to child values.
	KindMapping
	// KindSequence is an ordered list of values from repeated sibling tags.
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	}
	return "unknown"
}

// Value is a node in the generic tree. The zero value is the empty string
// scalar.
type Value struct {
	kind    Kind
	str     string
	num     float64
	mapping map[string]Value
	seq     []Value
}

// String constructs a string scalar.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number constructs a numeric scalar.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Mapping constructs a mapping value from the given entries.
func Mapping(entries map[string]Value) Value {
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Value{kind: KindMapping, mapping: m}
}

// Sequence constructs a sequence value.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, seq: items}
}

// Kind reports the variant of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsScalar reports whether the value is a string or number scalar.
func (v Value) IsScalar() bool {
	return v.kind == KindString || v.kind == KindNumber
}

// Str returns the string content and whether the value is a string scalar.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Num returns the numeric content and whether the value is a number scalar.
func (v Value) Num() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Get looks up a key in a mapping. It returns false for any other kind.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	child, ok := v.mapping[key]
	return child, ok
}

// Items returns the elements of a sequence. A non-sequence value is treated
// as a one-element sequence of itself, which is how repeated XML tags of
// cardinality one read back uniformly.
func (v Value) Items() []Value {
	if v.kind == KindSequence {
		return v.seq
	}
	return []Value{v}
}

// Len returns the number of sequence elements, mapping entries, or 1 for a
// scalar.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.mapping)
	}
	return 1
}

var numericPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// Coerce turns raw XML text into a scalar. Strings with the lexical shape of
// an integer or decimal become numbers; everything else stays a string. The
// rule is purely lexical and applies identically to attribute values and
// character data.
func Coerce(raw string) Value {
	if numericPattern.MatchString(raw) {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return Number(n)
		}
	}
	return String(raw)
}

// ResolveScalar unwraps the scalar content of a node that may be encoded as
// a bare scalar, as a mapping with a text key, or as a mapping with a
// "value" attribute. The three encodings are equivalent spellings of the
// same logical value across API generations; callers get the first shape
// that matches.
func ResolveScalar(v Value) (Value, bool) {
	if v.IsScalar() {
		return v, true
	}
	if v.kind != KindMapping {
		return Value{}, false
	}
	if text, ok := v.mapping[TextKey]; ok && text.IsScalar() {
		return text, true
	}
	if val, ok := v.mapping["value"]; ok && val.IsScalar() {
		return val, true
	}
	return Value{}, false
}

// ResolveString is ResolveScalar narrowed to string form. Numeric scalars
// are formatted back to their shortest decimal representation.
func ResolveString(v Value) (string, bool) {
	scalar, ok := ResolveScalar(v)
	if !ok {
		return "", false
	}
	if s, ok := scalar.Str(); ok {
		return s, true
	}
	n, _ := scalar.Num()
	return strconv.FormatFloat(n, 'f', -1, 64), true
}

// ResolveInt is ResolveScalar narrowed to integer form. String scalars that
// do not parse as integers report false.
func ResolveInt(v Value) (int, bool) {
	scalar, ok := ResolveScalar(v)
	if !ok {
		return 0, false
	}
	if n, ok := scalar.Num(); ok {
		return int(n), true
	}
	s, _ := scalar.Str()
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ResolveFloat is ResolveScalar narrowed to float form.
func ResolveFloat(v Value) (float64, bool) {
	scalar, ok := ResolveScalar(v)
	if !ok {
		return 0, false
	}
	if n, ok := scalar.Num(); ok {
		return n, true
	}
	s, _ := scalar.Str()
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
