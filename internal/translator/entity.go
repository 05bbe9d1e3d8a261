package translator

import (
	"log/slog"

	"github.com/telhawk-systems/ldadapter/internal/models/ld"
	v2 "github.com/telhawk-systems/ldadapter/internal/models/v2"
)

// Entity translates a normalized v2 entity. The root TimeInstant attribute is
// dropped and attributes without a usable value are omitted.
func (t *Translator) Entity(e v2.Entity, linkedData bool, flags Flags) *ld.Entity {
	out := &ld.Entity{
		Context:    t.context(linkedData),
		ID:         EntityURN(e.ID, e.Type),
		Type:       e.Type,
		Attributes: make(map[string]*ld.Attribute, len(e.Attrs)),
	}

	for name, attr := range e.Attrs {
		if name == TimeInstant {
			continue
		}
		if translated, ok := t.Attribute(attr, flags); ok {
			out.Attributes[name] = translated
		}
	}
	return out
}

// Entities translates a collection, keeping its order.
func (t *Translator) Entities(list []v2.Entity, linkedData bool, flags Flags) []*ld.Entity {
	out := make([]*ld.Entity, 0, len(list))
	for _, e := range list {
		out = append(out, t.Entity(e, linkedData, flags))
	}
	return out
}

// KeyValues translates an entity fetched in keyValues form. Every attribute
// renders as its bare value.
func (t *Translator) KeyValues(e v2.KeyValuesEntity, linkedData bool) *ld.Entity {
	out := &ld.Entity{
		Context:    t.context(linkedData),
		ID:         EntityURN(e.ID, e.Type),
		Type:       e.Type,
		Attributes: make(map[string]*ld.Attribute, len(e.Attrs)),
	}
	for name, value := range e.Attrs {
		if name == TimeInstant || isAbsent(value) {
			continue
		}
		out.Attributes[name] = &ld.Attribute{Value: value, Collapsed: true}
	}
	return out
}

// EntityURN returns id unchanged when it is already a URN, and
// urn:ngsi-ld:<entityType>:<id> otherwise.
func EntityURN(id, entityType string) string {
	if HasURNPrefix(id) {
		return id
	}
	urn := URNPrefix + entityType + ":" + id
	slog.Debug("amended entity id", "id", id, "urn", urn)
	return urn
}
