package translator

import (
	"github.com/telhawk-systems/ldadapter/internal/models/ld"
	v2 "github.com/telhawk-systems/ldadapter/internal/models/v2"
)

// EntityTypeList projects the type of every record.
func (t *Translator) EntityTypeList(records []v2.TypeRecord, linkedData bool) *ld.EntityTypeList {
	types := make([]string, 0, len(records))
	for _, rec := range records {
		types = append(types, rec.Type)
	}
	return &ld.EntityTypeList{
		Context:  t.context(linkedData),
		ID:       t.urn("EntityTypeList"),
		Type:     "EntityTypeList",
		TypeList: types,
	}
}

// EntityTypes is the detailed type listing: one element per record, named by
// its type.
func (t *Translator) EntityTypes(records []v2.TypeRecord, linkedData bool) []*ld.EntityType {
	out := make([]*ld.EntityType, 0, len(records))
	for _, rec := range records {
		names := append([]string{}, rec.Attrs.Names()...)
		out = append(out, &ld.EntityType{
			Context:        t.context(linkedData),
			ID:             rec.Type,
			Type:           "EntityType",
			TypeName:       rec.Type,
			AttributeNames: names,
		})
	}
	return out
}

// EntityTypeInformation details the attributes of a single type. Raw types
// that classify to the same LD type are reported once.
func (t *Translator) EntityTypeInformation(typeName string, rec v2.TypeRecord, linkedData bool) *ld.EntityTypeInformation {
	details := make([]ld.AttributeDetail, 0, rec.Attrs.Len())
	for _, name := range rec.Attrs.Names() {
		raw, _ := rec.Attrs.Types(name)
		details = append(details, ld.AttributeDetail{
			ID:             name,
			Type:           "Attribute",
			AttributeName:  name,
			AttributeTypes: classifyAll(raw),
		})
	}
	return &ld.EntityTypeInformation{
		Context:          t.context(linkedData),
		ID:               t.urn("EntityTypeInformation"),
		Type:             "EntityTypeInformation",
		TypeName:         typeName,
		EntityCount:      rec.Count,
		AttributeDetails: details,
	}
}

// EntityAttributeList unions attribute names across records in order of first
// appearance.
func (t *Translator) EntityAttributeList(records []v2.TypeRecord, linkedData bool) *ld.EntityAttributeList {
	return &ld.EntityAttributeList{
		Context:       t.context(linkedData),
		ID:            t.urn("EntityAttributeList"),
		Type:          "EntityAttributeList",
		AttributeList: attributeNames(records),
	}
}

// EntityAttribute summarizes one attribute across every type declaring it.
// attributeTypes holds each LD type once, however many raw types map to it.
// It reports false when no record has the attribute.
func (t *Translator) EntityAttribute(name string, records []v2.TypeRecord, linkedData bool) (*ld.EntityAttribute, bool) {
	var (
		count     int
		typeNames []string
		rawTypes  []string
		seen      = make(map[string]bool)
	)
	for _, rec := range records {
		raw, ok := rec.Attrs.Types(name)
		if !ok {
			continue
		}
		count += rec.Count
		typeNames = append(typeNames, rec.Type)
		for _, r := range raw {
			if !seen[r] {
				seen[r] = true
				rawTypes = append(rawTypes, r)
			}
		}
	}
	if typeNames == nil {
		return nil, false
	}

	return &ld.EntityAttribute{
		Context:        t.context(linkedData),
		ID:             t.urn("Attribute"),
		Type:           "Attribute",
		AttributeName:  name,
		AttributeCount: count,
		AttributeTypes: classifyAll(rawTypes),
		TypeNames:      typeNames,
	}, true
}

// AttributeSummaries is the detailed attribute listing.
func (t *Translator) AttributeSummaries(records []v2.TypeRecord, linkedData bool) []*ld.EntityAttribute {
	names := attributeNames(records)
	out := make([]*ld.EntityAttribute, 0, len(names))
	for _, name := range names {
		typeNames := []string{}
		for _, rec := range records {
			if rec.Attrs.Has(name) {
				typeNames = append(typeNames, rec.Type)
			}
		}
		out = append(out, &ld.EntityAttribute{
			Context:       t.context(linkedData),
			ID:            name,
			Type:          "Attribute",
			AttributeName: name,
			TypeNames:     typeNames,
		})
	}
	return out
}

func attributeNames(records []v2.TypeRecord) []string {
	names := []string{}
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, name := range rec.Attrs.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
