package xmljson

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ParseError reports XML that is not well-formed. It is the only failure
// mode of the converter; any well-formed document converts without error.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// element is the intermediate parsed form of one XML element.
type element struct {
	name     string
	attrs    []xml.Attr
	text     strings.Builder
	children []*element
}

// Parse decodes an XML document and converts its root element into a
// generic Value. Character data outside the root and processing
// instructions are ignored.
func Parse(r io.Reader) (Value, error) {
	decoder := xml.NewDecoder(r)

	root, err := decodeElement(decoder)
	if err != nil {
		return Value{}, err
	}
	if root == nil {
		return Value{}, &ParseError{Message: "document has no root element"}
	}
	return convert(root), nil
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(data []byte) (Value, error) {
	return Parse(strings.NewReader(string(data)))
}

// decodeElement walks the token stream and builds the element tree for the
// first start element it encounters.
func decodeElement(decoder *xml.Decoder) (*element, error) {
	var root *element
	var stack []*element

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			if len(stack) > 0 {
				return nil, &ParseError{Message: "unexpected end of document", Cause: err}
			}
			return root, nil
		}
		if err != nil {
			return nil, &ParseError{Message: "malformed XML", Cause: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local}
			el.attrs = append(el.attrs, t.Attr...)
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Message: "multiple root elements"}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, &ParseError{Message: "unbalanced end element"}
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return root, nil
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
}

// convert projects one element into the generic shape. Attributes and child
// tags share a single namespace; when a name appears as both, the child
// element assignment wins because children are written after attributes.
// A repeated child tag promotes the existing entry to a sequence and
// appends in document order.
func convert(el *element) Value {
	text := strings.TrimSpace(el.text.String())

	if len(el.children) == 0 {
		if len(el.attrs) == 0 {
			return Coerce(text)
		}
		m := make(map[string]Value, len(el.attrs)+1)
		for _, attr := range el.attrs {
			m[attr.Name.Local] = Coerce(attr.Value)
		}
		if text != "" {
			m[TextKey] = Coerce(text)
		}
		return Value{kind: KindMapping, mapping: m}
	}

	m := make(map[string]Value, len(el.attrs)+len(el.children))
	for _, attr := range el.attrs {
		m[attr.Name.Local] = Coerce(attr.Value)
	}
	// fromChild tracks names already written by a child element, so that a
	// child overwrites a same-named attribute instead of joining it into a
	// sequence.
	fromChild := make(map[string]bool, len(el.children))
	for _, child := range el.children {
		converted := convert(child)
		existing, seen := m[child.name]
		switch {
		case !seen || !fromChild[child.name]:
			m[child.name] = converted
		case existing.kind == KindSequence:
			existing.seq = append(existing.seq, converted)
			m[child.name] = existing
		default:
			m[child.name] = Sequence(existing, converted)
		}
		fromChild[child.name] = true
	}
	return Value{kind: KindMapping, mapping: m}
}
