package content

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Set is the result of discovering one collection. Documents that could not
// be read or parsed are reported in Broken instead of failing the collection.
type Set struct {
	Collection *Collection
	Documents  []*Document
	Broken     []ValidationError
}

// Discover walks every collection of the registry concurrently. Only errors
// listing a collection are returned; results keep the registry order.
func Discover(ctx context.Context, fs afero.Fs, registry *Registry) ([]*Set, error) {
	collections := registry.Collections()
	sets := make([]*Set, len(collections))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range collections {
		g.Go(func() error {
			set, err := discoverCollection(ctx, fs, c)
			if err != nil {
				return errors.Wrapf(err, "collection '%s'", c.Name)
			}
			sets[i] = set
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sets, nil
}

func discoverCollection(ctx context.Context, fs afero.Fs, c *Collection) (*Set, error) {
	paths, err := c.Loader.Discover(fs)
	if err != nil {
		return nil, err
	}

	set := &Set{Collection: c, Documents: make([]*Document, 0, len(paths))}
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := LoadDocument(fs, c, rel)
		if err != nil {
			full := filepath.ToSlash(filepath.Join(c.Loader.Base, rel))
			set.Broken = append(set.Broken, ValidationError{Path: full, Message: err.Error()})
			continue
		}
		set.Documents = append(set.Documents, doc)
	}

	return set, nil
}

// ValidateAll validates every document of the sets, compiling each schema once.
func ValidateAll(sets []*Set) (map[string]ValidationErrors, error) {
	var mu sync.Mutex
	out := make(map[string]ValidationErrors)

	var g errgroup.Group
	for _, set := range sets {
		g.Go(func() error {
			v, err := NewValidator(set.Collection.Schema)
			if err != nil {
				return errors.Wrapf(err, "collection '%s'", set.Collection.Name)
			}

			for _, doc := range set.Documents {
				err := v.Validate(doc)
				if err == nil {
					continue
				}

				var verrs ValidationErrors
				if !errors.As(err, &verrs) {
					return err
				}

				mu.Lock()
				out[doc.Path] = verrs
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
