// Package v2 holds the NGSI v2 payloads returned by the upstream context broker.
//
// Decoding keeps JSON numbers as json.Number so the original textual form of
// a numeric value survives until the translator decides how to coerce it.
package v2

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attribute is a single v2 attribute or metadata entry.
type Attribute struct {
	Type     string               `json:"type,omitempty"`
	Value    any                  `json:"value"`
	Metadata map[string]Attribute `json:"metadata,omitempty"`
}

// Entity is a normalized v2 entity. Every key other than id and type is an attribute.
type Entity struct {
	ID    string
	Type  string
	Attrs map[string]Attribute
}

// UnmarshalJSON decodes a normalized v2 entity. Attribute values that are not
// JSON objects are kept as bare values with an empty type.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Attrs = make(map[string]Attribute, len(raw))
	for key, msg := range raw {
		switch key {
		case "id":
			if err := json.Unmarshal(msg, &e.ID); err != nil {
				return fmt.Errorf("entity id: %w", err)
			}
		case "type":
			if err := json.Unmarshal(msg, &e.Type); err != nil {
				return fmt.Errorf("entity type: %w", err)
			}
		default:
			attr, err := decodeAttribute(msg)
			if err != nil {
				return fmt.Errorf("attribute %q: %w", key, err)
			}
			e.Attrs[key] = attr
		}
	}
	return nil
}

// MarshalJSON renders the entity back into its flat v2 form.
func (e Entity) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Attrs)+2)
	for name, attr := range e.Attrs {
		out[name] = attr
	}
	out["id"] = e.ID
	out["type"] = e.Type
	return json.Marshal(out)
}

func decodeAttribute(msg json.RawMessage) (Attribute, error) {
	var attr Attribute
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := decodeNumbers(trimmed, &attr); err != nil {
			return Attribute{}, err
		}
		return attr, nil
	}
	if err := decodeNumbers(trimmed, &attr.Value); err != nil {
		return Attribute{}, err
	}
	return attr, nil
}

// KeyValuesEntity is an entity fetched with options=keyValues.
type KeyValuesEntity struct {
	ID    string
	Type  string
	Attrs map[string]any
}

// UnmarshalJSON decodes a keyValues entity.
func (e *KeyValuesEntity) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := decodeNumbers(data, &raw); err != nil {
		return err
	}
	e.Attrs = make(map[string]any, len(raw))
	for key, value := range raw {
		switch key {
		case "id":
			e.ID, _ = value.(string)
		case "type":
			e.Type, _ = value.(string)
		default:
			e.Attrs[key] = value
		}
	}
	return nil
}

// Notification is the body a v2 broker posts to a subscription's endpoint.
type Notification struct {
	SubscriptionID string   `json:"subscriptionId"`
	Data           []Entity `json:"data"`
}

// Error is the v2 error body, e.g. {"error":"NotFound","description":"..."}.
type Error struct {
	Error       string `json:"error"`
	Description string `json:"description,omitempty"`
}

// Decode unmarshals data into v, keeping numbers as json.Number.
func Decode(data []byte, v any) error {
	return decodeNumbers(data, v)
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
