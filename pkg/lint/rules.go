package lint

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/withsy/sitekit/pkg/content"
)

const (
	documentCannotBeParsed = "The document cannot be read or its front matter is not valid YAML"
	documentBodyIsEmpty    = "The document has front matter but no content"
)

// DefaultRules are the checks run by 'content check'.
func DefaultRules() []Rule {
	return []Rule{
		&SimpleRule{
			Identifier:       "valid-front-matter",
			Validator:        EnsureDocumentsCanBeParsed,
			ApplicableLevels: []Level{LevelCollection},
			Severity:         ValidatorSeverityCritical,
		},
		&SimpleRule{
			Identifier:       "schema",
			Validator:        EnsureDocumentsMatchSchema,
			ApplicableLevels: []Level{LevelCollection},
			Severity:         ValidatorSeverityCritical,
		},
		&SimpleRule{
			Identifier:       "unique-id",
			Validator:        EnsureDocumentIDsAreUnique,
			ApplicableLevels: []Level{LevelCollection},
			Severity:         ValidatorSeverityCritical,
		},
		&SimpleRule{
			Identifier:       "overlapping-collections",
			Validator:        EnsureDocumentsBelongToOneCollection,
			ApplicableLevels: []Level{LevelCollection},
			Severity:         ValidatorSeverityWarning,
		},
		&SimpleRule{
			Identifier:        "unknown-fields",
			DocumentValidator: EnsureNoUnknownFields,
			ApplicableLevels:  []Level{LevelDocument},
			Severity:          ValidatorSeverityWarning,
		},
		&SimpleRule{
			Identifier:        "empty-body",
			DocumentValidator: EnsureBodyIsNotEmpty,
			ApplicableLevels:  []Level{LevelDocument},
			Severity:          ValidatorSeverityWarning,
		},
	}
}

func EnsureDocumentsCanBeParsed(ctx context.Context, all []*content.Set, set *content.Set) ([]*Issue, error) {
	issues := make([]*Issue, 0, len(set.Broken))
	for _, broken := range set.Broken {
		issues = append(issues, &Issue{
			Path:        broken.Path,
			Description: documentCannotBeParsed,
			Context:     []string{broken.Message},
		})
	}

	return issues, nil
}

func EnsureDocumentsMatchSchema(ctx context.Context, all []*content.Set, set *content.Set) ([]*Issue, error) {
	v, err := content.NewValidator(set.Collection.Schema)
	if err != nil {
		return nil, err
	}

	issues := make([]*Issue, 0)
	for _, doc := range set.Documents {
		err := v.Validate(doc)
		if err == nil {
			continue
		}

		var verrs content.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}

		for _, verr := range verrs {
			description := "Front matter " + verr.Message
			if verr.Field != "" {
				description = fmt.Sprintf("Field '%s' %s", verr.Field, verr.Message)
			}

			issues = append(issues, &Issue{
				Document:    doc,
				Path:        doc.Path,
				Description: description,
			})
		}
	}

	return issues, nil
}

func EnsureDocumentIDsAreUnique(ctx context.Context, all []*content.Set, set *content.Set) ([]*Issue, error) {
	byID := lo.GroupBy(set.Documents, func(doc *content.Document) string {
		return doc.ID
	})

	ids := lo.Keys(byID)
	sort.Strings(ids)

	issues := make([]*Issue, 0)
	for _, id := range ids {
		docs := byID[id]
		if len(docs) == 1 {
			continue
		}

		paths := lo.Map(docs, func(doc *content.Document, _ int) string { return doc.Path })
		sort.Strings(paths)

		issues = append(issues, &Issue{
			Document:    docs[0],
			Path:        paths[0],
			Description: fmt.Sprintf("Document id '%s' is not unique in collection '%s'", id, set.Collection.Name),
			Context:     paths,
		})
	}

	return issues, nil
}

func EnsureDocumentsBelongToOneCollection(ctx context.Context, all []*content.Set, set *content.Set) ([]*Issue, error) {
	issues := make([]*Issue, 0)
	for _, doc := range set.Documents {
		others := make([]string, 0)
		for _, other := range all {
			if other.Collection.Name == set.Collection.Name {
				continue
			}
			if other.Collection.Loader.Owns(doc.Path) {
				others = append(others, other.Collection.Name)
			}
		}

		if len(others) == 0 {
			continue
		}

		issues = append(issues, &Issue{
			Document:    doc,
			Path:        doc.Path,
			Description: "The document is also matched by another collection, loaders should not overlap",
			Context:     others,
		})
	}

	return issues, nil
}

func EnsureNoUnknownFields(ctx context.Context, set *content.Set, doc *content.Document) ([]*Issue, error) {
	unknown := make([]string, 0)
	for key := range doc.Data {
		if _, ok := set.Collection.Schema.Field(key); !ok {
			unknown = append(unknown, key)
		}
	}

	if len(unknown) == 0 {
		return nil, nil
	}
	sort.Strings(unknown)

	return []*Issue{{
		Document:    doc,
		Path:        doc.Path,
		Description: fmt.Sprintf("Front matter has fields that are not part of the '%s' schema", set.Collection.Name),
		Context:     unknown,
	}}, nil
}

func EnsureBodyIsNotEmpty(ctx context.Context, set *content.Set, doc *content.Document) ([]*Issue, error) {
	body := stripImports(doc.Body, filepath.Ext(doc.Path))
	if strings.TrimSpace(body) != "" {
		return nil, nil
	}

	return []*Issue{{
		Document:    doc,
		Path:        doc.Path,
		Description: documentBodyIsEmpty,
	}}, nil
}

// stripImports drops the import lines MDX documents start with, they do
// not count as content.
func stripImports(body, ext string) string {
	if ext != ".mdx" {
		return body
	}

	lines := strings.Split(body, "\n")
	kept := lo.Filter(lines, func(line string, _ int) bool {
		return !strings.HasPrefix(strings.TrimSpace(line), "import ")
	})

	return strings.Join(kept, "\n")
}
