package content

import (
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// dateFormat is the JSON schema format name used for date fields.
const dateFormat = "content-date"

// Schema is an ordered set of uniquely named fields.
type Schema struct {
	fields []Field
	index  map[string]int
}

func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("schema fields must have a name")
		}
		if _, ok := s.index[f.Name]; ok {
			return nil, errors.Errorf("duplicate field '%s'", f.Name)
		}
		if _, err := ParseFieldType(string(f.Type)); err != nil {
			return nil, errors.Wrapf(err, "field '%s'", f.Name)
		}

		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	return s, nil
}

func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

func (s *Schema) Required() []string {
	return lo.FilterMap(s.fields, func(f Field, _ int) (string, bool) {
		return f.Name, !f.Optional
	})
}

// JSONSchema describes the front matter accepted by the schema. Keys that are
// not declared are allowed.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	for _, f := range s.fields {
		props.Set(f.Name, fieldSchema(f.Type))
	}

	return &jsonschema.Schema{
		Version:    "http://json-schema.org/draft-07/schema#",
		Type:       "object",
		Properties: props,
		Required:   s.Required(),
	}
}

func fieldSchema(t FieldType) *jsonschema.Schema {
	switch t {
	case TypeNumber:
		return &jsonschema.Schema{Type: "number"}
	case TypeBoolean:
		return &jsonschema.Schema{Type: "boolean"}
	case TypeDate:
		return &jsonschema.Schema{Type: "string", Format: dateFormat}
	case TypeStringArray:
		return &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "string"}}
	default:
		return &jsonschema.Schema{Type: "string"}
	}
}
