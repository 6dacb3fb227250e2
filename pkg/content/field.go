package content

import (
	"strings"

	"github.com/pkg/errors"
)

type FieldType string

const (
	TypeString      FieldType = "string"
	TypeNumber      FieldType = "number"
	TypeBoolean     FieldType = "boolean"
	TypeDate        FieldType = "date"
	TypeStringArray FieldType = "string[]"
)

var fieldTypes = []FieldType{TypeString, TypeNumber, TypeBoolean, TypeDate, TypeStringArray}

func ParseFieldType(s string) (FieldType, error) {
	t := FieldType(strings.TrimSpace(s))
	for _, known := range fieldTypes {
		if t == known {
			return t, nil
		}
	}

	return "", errors.Errorf("unknown field type '%s', expected one of %s", s, joinTypes())
}

func joinTypes() string {
	names := make([]string, len(fieldTypes))
	for i, t := range fieldTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Field is a single typed front matter key.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Optional bool      `json:"optional,omitempty"`
}

// ParseField reads the short field syntax, e.g. "date" or "string[]?".
func ParseField(name, decl string) (Field, error) {
	decl = strings.TrimSpace(decl)
	optional := strings.HasSuffix(decl, "?")
	decl = strings.TrimSuffix(decl, "?")

	t, err := ParseFieldType(decl)
	if err != nil {
		return Field{}, errors.Wrapf(err, "field '%s'", name)
	}

	return Field{Name: name, Type: t, Optional: optional}, nil
}

func (f Field) String() string {
	s := f.Name + ": " + string(f.Type)
	if f.Optional {
		s += "?"
	}
	return s
}
