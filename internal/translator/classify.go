package translator

import (
	"strings"

	"github.com/telhawk-systems/ldadapter/internal/models/ld"
)

var geoTypes = map[string]struct{}{
	"geo:json":            {},
	"geo:point":           {},
	"geo:line":            {},
	"geo:linestring":      {},
	"geo:polygon":         {},
	"geo:box":             {},
	"geo:multipoint":      {},
	"geo:multilinestring": {},
	"geo:multipolygon":    {},
	"geoproperty":         {},
	"point":               {},
	"linestring":          {},
	"polygon":             {},
	"multipoint":          {},
	"multilinestring":     {},
	"multipolygon":        {},
}

var namedTypes = map[string]ld.AttributeType{
	"listproperty":       ld.ListProperty,
	"relationship":       ld.Relationship,
	"listrelationship":   ld.ListRelationship,
	"languageproperty":   ld.LanguageProperty,
	"vocabularyproperty": ld.VocabularyProperty,
}

// Classify maps a v2 attribute type name to its LD type. Matching is
// case-insensitive and unknown names map to Property.
func Classify(typeName string) ld.AttributeType {
	name := strings.ToLower(typeName)
	if IsGeoType(name) {
		return ld.GeoProperty
	}
	if tag, ok := namedTypes[name]; ok {
		return tag
	}
	return ld.Property
}

// IsGeoType reports whether typeName is one of the geometry aliases.
func IsGeoType(typeName string) bool {
	_, ok := geoTypes[strings.ToLower(typeName)]
	return ok
}

// classifyAll maps raw types to LD type names, dropping duplicates.
func classifyAll(rawTypes []string) []string {
	out := make([]string, 0, len(rawTypes))
	seen := make(map[ld.AttributeType]bool, len(rawTypes))
	for _, raw := range rawTypes {
		tag := Classify(raw)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag.String())
	}
	return out
}
