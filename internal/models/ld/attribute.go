// Package ld holds the NGSI-LD documents produced by the translator.
package ld

import "encoding/json"

// AttributeType tags the LD representation of an attribute.
type AttributeType int

const (
	Property AttributeType = iota
	Relationship
	GeoProperty
	LanguageProperty
	ListProperty
	ListRelationship
	VocabularyProperty
)

var attributeTypeNames = [...]string{
	Property:           "Property",
	Relationship:       "Relationship",
	GeoProperty:        "GeoProperty",
	LanguageProperty:   "LanguageProperty",
	ListProperty:       "ListProperty",
	ListRelationship:   "ListRelationship",
	VocabularyProperty: "VocabularyProperty",
}

// String returns the LD type name.
func (t AttributeType) String() string {
	if t < 0 || int(t) >= len(attributeTypeNames) {
		return "Property"
	}
	return attributeTypeNames[t]
}

// MarshalJSON renders the tag as its LD type name.
func (t AttributeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Attribute is an LD Property, Relationship, GeoProperty or LanguageProperty.
//
// The payload lives in Value, Object or LanguageMap depending on Type, and only
// that key is rendered. Nested holds translated sub-attributes, rendered as
// sibling keys.
type Attribute struct {
	Type        AttributeType
	Value       any
	Object      any
	LanguageMap any

	ObservedAt string
	UnitCode   any
	CreatedAt  string
	ModifiedAt string

	Nested map[string]*Attribute

	// Concise omits the type tag. Collapsed renders Value alone.
	Concise   bool
	Collapsed bool
}

// PayloadKey returns the JSON key carrying the attribute's payload.
func (a *Attribute) PayloadKey() string {
	switch a.Type {
	case Relationship:
		return "object"
	case LanguageProperty:
		return "languageMap"
	default:
		return "value"
	}
}

// Payload returns the value stored under PayloadKey.
func (a *Attribute) Payload() any {
	switch a.Type {
	case Relationship:
		return a.Object
	case LanguageProperty:
		return a.LanguageMap
	default:
		return a.Value
	}
}

// Fields returns the attribute as a JSON object. Core keys take precedence
// over nested sub-attributes of the same name.
func (a *Attribute) Fields() map[string]any {
	out := make(map[string]any, len(a.Nested)+6)
	for name, sub := range a.Nested {
		out[name] = sub
	}
	if !a.Concise {
		out["type"] = a.Type.String()
	}
	out[a.PayloadKey()] = a.Payload()
	if a.ObservedAt != "" {
		out["observedAt"] = a.ObservedAt
	}
	if a.UnitCode != nil {
		out["unitCode"] = a.UnitCode
	}
	if a.CreatedAt != "" {
		out["createdAt"] = a.CreatedAt
	}
	if a.ModifiedAt != "" {
		out["modifiedAt"] = a.ModifiedAt
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (a *Attribute) MarshalJSON() ([]byte, error) {
	if a.Collapsed {
		return json.Marshal(a.Value)
	}
	return json.Marshal(a.Fields())
}
