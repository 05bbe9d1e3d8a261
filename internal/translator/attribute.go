package translator

import (
	"sort"
	"strings"

	"github.com/telhawk-systems/ldadapter/internal/models/ld"
	v2 "github.com/telhawk-systems/ldadapter/internal/models/v2"
)

const (
	isoLayout  = "2006-01-02T15:04:05.000Z"
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// metadataHandler folds a reserved metadata entry into the LD attribute.
type metadataHandler func(t *Translator, out *ld.Attribute, md v2.Attribute)

// reservedMetadata is checked before the recursive fallback.
var reservedMetadata = []struct {
	key    string
	handle metadataHandler
}{
	{TimeInstant, (*Translator).observedAt},
	{UnitCode, func(_ *Translator, out *ld.Attribute, md v2.Attribute) {
		out.UnitCode = md.Value
	}},
}

// Attribute translates a single v2 attribute. It reports false when the
// attribute has no usable value, which callers treat as "omit".
func (t *Translator) Attribute(attr v2.Attribute, flags Flags) (*ld.Attribute, bool) {
	if isAbsent(attr.Value) {
		return nil, false
	}

	out := &ld.Attribute{Type: ld.Property}
	if !t.setPayload(out, attr) {
		return nil, false
	}

	t.applyMetadata(out, attr.Metadata, flags)

	if flags.SysAttrs {
		out.ModifiedAt = out.ObservedAt
		if out.ModifiedAt == "" {
			out.ModifiedAt = t.settings.DefaultTimestamp
		}
		out.CreatedAt = t.settings.DefaultTimestamp
	}

	if flags.Concise {
		out.Concise = true
		if out.PayloadKey() == "value" && len(attr.Metadata) == 0 && !flags.SysAttrs {
			out.Collapsed = true
		}
	}
	return out, true
}

func (t *Translator) setPayload(out *ld.Attribute, attr v2.Attribute) bool {
	switch kind := strings.ToLower(attr.Type); kind {
	case "", "property", "string", "text", "textunrestricted":
		out.Value = attr.Value
	case "boolean":
		out.Value = toBool(attr.Value)
	case "float":
		f, ok := toFloat(attr.Value)
		if !ok {
			return false
		}
		out.Value = f
	case "integer":
		i, ok := toInt(attr.Value)
		if !ok {
			return false
		}
		out.Value = i
	case "number":
		n, ok := toNumber(attr.Value)
		if !ok {
			return false
		}
		out.Value = n
	case "datetime":
		ts, ok := parseTime(attr.Value)
		if !ok {
			return false
		}
		out.Value = typedValue("DateTime", ts.Format(isoLayout))
	case "date":
		ts, ok := parseTime(attr.Value)
		if !ok {
			return false
		}
		out.Value = typedValue("Date", ts.Format(dateLayout))
	case "time":
		ts, ok := parseClock(attr.Value)
		if !ok {
			return false
		}
		out.Value = typedValue("Time", ts.Format(timeLayout))
	default:
		switch Classify(kind) {
		case ld.GeoProperty:
			out.Type = ld.GeoProperty
			out.Value = attr.Value
		case ld.Relationship:
			out.Type = ld.Relationship
			out.Object = attr.Value
		case ld.LanguageProperty:
			out.Type = ld.LanguageProperty
			out.LanguageMap = attr.Value
		default:
			out.Value = typedValue(attr.Type, attr.Value)
		}
	}
	return true
}

func typedValue(typeName string, value any) map[string]any {
	return map[string]any{
		"@type":  typeName,
		"@value": value,
	}
}

func (t *Translator) applyMetadata(out *ld.Attribute, metadata map[string]v2.Attribute, flags Flags) {
	if len(metadata) == 0 {
		return
	}

	names := make([]string, 0, len(metadata))
	for name := range metadata {
		names = append(names, name)
	}
	sort.Strings(names)

next:
	for _, name := range names {
		md := metadata[name]
		for _, rule := range reservedMetadata {
			if rule.key == name {
				rule.handle(t, out, md)
				continue next
			}
		}

		sub, ok := t.Attribute(md, flags)
		if !ok {
			continue
		}
		if out.Nested == nil {
			out.Nested = make(map[string]*ld.Attribute)
		}
		out.Nested[name] = sub
	}
}

func (t *Translator) observedAt(out *ld.Attribute, md v2.Attribute) {
	out.ObservedAt = t.settings.DefaultTimestamp
	if ts, ok := parseTime(md.Value); ok {
		out.ObservedAt = ts.Format(isoLayout)
	}
}
