// Package translator converts NGSI v2 payloads into their NGSI-LD equivalents.
//
// A Translator is built once from Settings and never mutated afterwards, so a
// single instance can serve any number of concurrent requests. None of its
// methods perform I/O.
package translator

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// URNPrefix qualifies LD identifiers.
	URNPrefix = "urn:ngsi-ld:"

	// TimeInstant is the reserved v2 attribute and metadata name carrying an observation time.
	TimeInstant = "TimeInstant"

	// UnitCode is the metadata key copied verbatim onto LD attributes.
	UnitCode = "unitCode"

	// DefaultTimestamp stands in for missing or unparsable timestamps.
	DefaultTimestamp = "1970-01-01T00:00:00.000Z"

	// DefaultContextURL is the core NGSI-LD context.
	DefaultContextURL = "https://uri.etsi.org/ngsi-ld/v1/ngsi-ld-core-context-v1.8.jsonld"
)

// Settings configures a Translator.
type Settings struct {
	// ContextURL is emitted as @context when the caller asked for JSON-LD.
	ContextURL string

	// DefaultTimestamp replaces missing or invalid observation times.
	DefaultTimestamp string

	// NewID generates identifiers for aggregate resources and notifications.
	NewID func() string
}

// Flags select optional output forms for attribute translation.
type Flags struct {
	SysAttrs bool
	Concise  bool
}

// Translator maps v2 documents to LD documents.
type Translator struct {
	settings Settings
}

// New returns a Translator, filling unset Settings fields with defaults.
func New(settings Settings) *Translator {
	if settings.ContextURL == "" {
		settings.ContextURL = DefaultContextURL
	}
	if settings.DefaultTimestamp == "" {
		settings.DefaultTimestamp = DefaultTimestamp
	}
	if settings.NewID == nil {
		settings.NewID = uuid.NewString
	}
	return &Translator{settings: settings}
}

// ContextURL returns the configured @context URL.
func (t *Translator) ContextURL() string {
	return t.settings.ContextURL
}

// NewID returns a fresh identifier.
func (t *Translator) NewID() string {
	return t.settings.NewID()
}

func (t *Translator) context(linkedData bool) string {
	if linkedData {
		return t.settings.ContextURL
	}
	return ""
}

func (t *Translator) urn(kind string) string {
	return URNPrefix + kind + ":" + t.settings.NewID()
}

// HasURNPrefix reports whether id is already an LD URN.
func HasURNPrefix(id string) bool {
	return strings.HasPrefix(id, URNPrefix)
}
