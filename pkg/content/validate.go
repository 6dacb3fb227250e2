package content

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/withsy/sitekit/pkg/date"
	"github.com/xeipuuv/gojsonschema"
)

func init() {
	gojsonschema.FormatCheckers.Add(dateFormat, dateChecker{})
}

type dateChecker struct{}

func (dateChecker) IsFormat(input interface{}) bool {
	return date.IsDate(input)
}

// ValidationError ties a schema violation to a document and a field.
type ValidationError struct {
	Path    string `json:"path"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("%s: field '%s' %s", e.Path, e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "\n")
}

func schemaLoader() *gojsonschema.SchemaLoader {
	loader := gojsonschema.NewSchemaLoader()
	loader.Draft = gojsonschema.Draft7
	loader.Validate = true
	return loader
}

// Validator checks front matter against a compiled collection schema.
type Validator struct {
	schema   *Schema
	compiled *gojsonschema.Schema
}

func NewValidator(schema *Schema) (*Validator, error) {
	compiled, err := schemaLoader().Compile(gojsonschema.NewGoLoader(schema.JSONSchema()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile collection schema")
	}

	return &Validator{schema: schema, compiled: compiled}, nil
}

// Validate returns nil or ValidationErrors sorted by field declaration order.
func (v *Validator) Validate(doc *Document) error {
	result, err := v.compiled.Validate(gojsonschema.NewGoLoader(doc.Data))
	if err != nil {
		return errors.Wrapf(err, "failed to validate %s", doc.Path)
	}

	if result.Valid() {
		return nil
	}

	out := make(ValidationErrors, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		out = append(out, v.convert(doc.Path, re))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return v.position(out[i].Field) < v.position(out[j].Field)
	})

	return out
}

func (v *Validator) convert(path string, re gojsonschema.ResultError) ValidationError {
	field := re.Field()
	if field == gojsonschema.STRING_CONTEXT_ROOT {
		field = ""
	}

	switch re.Type() {
	case "required":
		if prop, ok := re.Details()["property"].(string); ok {
			field = prop
		}
		return ValidationError{Path: path, Field: field, Message: "is required"}
	case "format":
		return ValidationError{Path: path, Field: field, Message: "must be a date"}
	case "invalid_type":
		name := strings.SplitN(field, ".", 2)[0]
		if f, ok := v.schema.Field(name); ok && name == field {
			return ValidationError{Path: path, Field: field, Message: "must be of type " + string(f.Type)}
		}
	}

	return ValidationError{Path: path, Field: field, Message: lowerFirst(re.Description())}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func (v *Validator) position(field string) int {
	name := strings.SplitN(field, ".", 2)[0]
	if i, ok := v.schema.index[name]; ok {
		return i
	}
	return len(v.schema.fields)
}
