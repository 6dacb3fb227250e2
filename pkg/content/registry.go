package content

import (
	"github.com/pkg/errors"
)

type Collection struct {
	Name   string
	Loader Loader
	Schema *Schema
}

// Registry maps collection names to their declarations. It performs no I/O.
type Registry struct {
	collections map[string]*Collection
	order       []string
}

func NewRegistry() *Registry {
	return &Registry{collections: make(map[string]*Collection)}
}

func (r *Registry) Register(c *Collection) error {
	if c.Name == "" {
		return errors.New("collection name cannot be empty")
	}
	if _, ok := r.collections[c.Name]; ok {
		return errors.Errorf("collection '%s' is already registered", c.Name)
	}
	if c.Schema == nil {
		return errors.Errorf("collection '%s' has no schema", c.Name)
	}
	if err := c.Loader.Validate(); err != nil {
		return errors.Wrapf(err, "collection '%s'", c.Name)
	}

	r.collections[c.Name] = c
	r.order = append(r.order, c.Name)
	return nil
}

func (r *Registry) Get(name string) (*Collection, bool) {
	c, ok := r.collections[name]
	return c, ok
}

// Names returns collection names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Collections() []*Collection {
	out := make([]*Collection, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.collections[name])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

// DefaultRegistry declares the collections of the site.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	err := r.Register(&Collection{
		Name:   "blog",
		Loader: Loader{Pattern: "**/*.mdx", Base: "./src/blog"},
		Schema: MustSchema(
			Field{Name: "title", Type: TypeString},
			Field{Name: "description", Type: TypeString},
			Field{Name: "pubDate", Type: TypeDate},
			Field{Name: "tags", Type: TypeStringArray},
		),
	})
	if err != nil {
		panic(err)
	}

	return r
}
