package content

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultDeclarationFile is where collections are declared when the site
// does not rely on the built in registry.
const DefaultDeclarationFile = "content.yml"

type declarationFile struct {
	Collections yaml.Node `yaml:"collections"`
}

type collectionDeclaration struct {
	Loader Loader    `yaml:"loader"`
	Schema yaml.Node `yaml:"schema"`
}

type longField struct {
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
}

// LoadRegistry reads collection declarations from a YAML file:
//
//	collections:
//	  blog:
//	    loader: {pattern: "**/*.mdx", base: ./src/blog}
//	    schema:
//	      title: string
//	      pubDate: date
//	      tags: {type: "string[]", optional: true}
//
// Collection and field order follow the file.
func LoadRegistry(fs afero.Fs, path string) (*Registry, error) {
	buf, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read collection declarations from %s", path)
	}

	return ParseRegistry(buf)
}

func ParseRegistry(buf []byte) (*Registry, error) {
	var file declarationFile
	if err := yaml.Unmarshal(buf, &file); err != nil {
		return nil, errors.Wrap(err, "invalid collection declarations")
	}

	if file.Collections.Kind != yaml.MappingNode {
		return nil, errors.New("'collections' must be a mapping of collection names to declarations")
	}

	r := NewRegistry()
	nodes := file.Collections.Content
	for i := 0; i+1 < len(nodes); i += 2 {
		name := nodes[i].Value

		var decl collectionDeclaration
		if err := nodes[i+1].Decode(&decl); err != nil {
			return nil, errors.Wrapf(err, "collection '%s'", name)
		}

		schema, err := parseSchemaNode(&decl.Schema)
		if err != nil {
			return nil, errors.Wrapf(err, "collection '%s'", name)
		}

		if err := r.Register(&Collection{Name: name, Loader: decl.Loader, Schema: schema}); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func parseSchemaNode(node *yaml.Node) (*Schema, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.New("schema must be a mapping of field names to types")
	}

	fields := make([]Field, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		value := node.Content[i+1]

		switch value.Kind {
		case yaml.ScalarNode:
			f, err := ParseField(name, value.Value)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		case yaml.MappingNode:
			var long longField
			if err := value.Decode(&long); err != nil {
				return nil, errors.Wrapf(err, "field '%s'", name)
			}
			f, err := ParseField(name, long.Type)
			if err != nil {
				return nil, err
			}
			f.Optional = f.Optional || long.Optional
			fields = append(fields, f)
		default:
			return nil, errors.Errorf("field '%s' must be a type name or a mapping", name)
		}
	}

	return NewSchema(fields...)
}
