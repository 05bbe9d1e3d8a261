package v2

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TypeRecord is one element of GET /v2/types, or the body of GET /v2/types/{type}
// (in which case Type is empty and filled in by the caller).
type TypeRecord struct {
	Type  string     `json:"type,omitempty"`
	Count int        `json:"count"`
	Attrs AttrShapes `json:"attrs"`
}

// AttrShapes maps attribute names to the raw v2 types seen for them.
// Iteration order follows the order of the upstream JSON document.
type AttrShapes struct {
	names []string
	types map[string][]string
}

// NewAttrShapes returns an empty set, filled with Set.
func NewAttrShapes() *AttrShapes {
	return &AttrShapes{types: make(map[string][]string)}
}

// Set records the declared types of an attribute, appending the name on first use.
func (a *AttrShapes) Set(name string, types ...string) *AttrShapes {
	if a.types == nil {
		a.types = make(map[string][]string)
	}
	if _, ok := a.types[name]; !ok {
		a.names = append(a.names, name)
	}
	a.types[name] = types
	return a
}

// Names returns attribute names in document order.
func (a AttrShapes) Names() []string {
	return a.names
}

// Types returns the declared types of an attribute.
func (a AttrShapes) Types(name string) ([]string, bool) {
	t, ok := a.types[name]
	return t, ok
}

// Has reports whether the attribute is present.
func (a AttrShapes) Has(name string) bool {
	_, ok := a.types[name]
	return ok
}

// Len returns the number of attributes.
func (a AttrShapes) Len() int {
	return len(a.names)
}

type attrShape struct {
	Types []string `json:"types"`
}

// UnmarshalJSON streams the object so the key order is kept.
func (a *AttrShapes) UnmarshalJSON(data []byte) error {
	*a = AttrShapes{types: make(map[string][]string)}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("attrs: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("attrs: expected key, got %v", tok)
		}
		var shape attrShape
		if err := dec.Decode(&shape); err != nil {
			return fmt.Errorf("attrs %q: %w", name, err)
		}
		a.Set(name, shape.Types...)
	}

	_, err = dec.Token()
	return err
}

// MarshalJSON renders the shapes as a v2 attrs object.
func (a AttrShapes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range a.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		shape, err := json.Marshal(attrShape{Types: a.types[name]})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(shape)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
