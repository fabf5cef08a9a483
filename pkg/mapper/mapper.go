// Package mapper converts entities to and from the line-oriented text format
// used by the text context:
//
//	__class__:<type tag>
//	<field1>:<value1>,<field2>:<value2>,
//	<collection>>0:<value>,
//	<collection>>1:<value>,
//
// The scalar line is omitted when an entity has no scalar fields, and empty
// collections produce no lines. Decoding keys off labels, so entry order is
// irrelevant.
//
// Times are written as RFC 3339 with nanoseconds. They decode to the same
// instant and UTC offset (time.Time.Equal holds) but not necessarily to an
// identical value: zone names are not stored, so a time in a named zone
// comes back in an unnamed fixed zone and == or reflect.DeepEqual may fail.
//
// Values escape '\', ',' and line breaks with a backslash ("\\", "\,", "\n",
// "\r"). Labels cannot contain ':', '>', ',', '\' or whitespace; encoding a
// field with such a label fails with core.UnsupportedFieldError.
package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/persistor/pkg/core"
)

// Mapper encodes entity fields to text and back. It is stateless; the zero
// value is ready to use.
type Mapper struct{}

// New returns a Mapper.
func New() *Mapper {
	return &Mapper{}
}

// Encode renders entity's fields. header is the scalar line (empty when the
// entity has no scalar fields); body holds one line per collection element.
// Both end with a newline when non-empty.
func (m *Mapper) Encode(entity core.Entity) (header string, body string, err error) {
	fields, err := FieldsOf(entity)
	if err != nil {
		return "", "", err
	}

	var head, rest strings.Builder
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !validLabel(f.Name) {
			return "", "", &core.UnsupportedFieldError{Field: f.Name, Reason: "label must be non-empty and free of ':', '>', ',', '\\' and whitespace"}
		}
		if seen[f.Name] {
			return "", "", &core.UnsupportedFieldError{Field: f.Name, Reason: "duplicate label"}
		}
		seen[f.Name] = true

		if isCollection(f) {
			items, err := formatItems(f)
			if err != nil {
				return "", "", err
			}
			for i, item := range items {
				rest.WriteString(f.Name + ">" + strconv.Itoa(i) + ":" + escape(item) + ",\n")
			}
			continue
		}

		value, err := formatScalar(f)
		if err != nil {
			return "", "", err
		}
		head.WriteString(f.Name + ":" + escape(value) + ",")
	}

	if head.Len() > 0 {
		head.WriteByte('\n')
	}
	return head.String(), rest.String(), nil
}

// Decode assigns the entries of text onto instance. text may start with the
// "__class__:" line; its tag is not checked here. Labels absent from text
// leave their fields untouched and labels unknown to instance are ignored.
func (m *Mapper) Decode(instance core.Entity, text string) error {
	rec, err := Parse(text)
	if err != nil {
		return err
	}
	return m.Apply(instance, rec)
}

// Apply assigns an already parsed record onto instance.
func (m *Mapper) Apply(instance core.Entity, rec *Record) error {
	fields, err := FieldsOf(instance)
	if err != nil {
		return err
	}

	for _, f := range fields {
		raw, isScalar := rec.Scalars[f.Name]
		entries, isItems := rec.Collections[f.Name]

		if isCollection(f) {
			if isScalar {
				return fmt.Errorf("field %q: stored as a scalar but bound to %s", f.Name, describe(f))
			}
			if isItems {
				if err := parseItems(f, entries); err != nil {
					return err
				}
			}
			continue
		}

		if isItems {
			return fmt.Errorf("field %q: stored as a collection but bound to %s", f.Name, describe(f))
		}
		if isScalar {
			if err := parseScalar(f, raw); err != nil {
				return err
			}
		}
	}
	return nil
}
