package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/withsy/sitekit/pkg/content"
	"github.com/withsy/sitekit/pkg/logger"
)

type Renderer interface {
	Render(ctx context.Context, source string) (string, error)
	// Fingerprint changes whenever the same source would render differently.
	Fingerprint() string
}

type Syncer struct {
	Store    *Store
	Renderer Renderer
	Logger   logger.Logger
	now      func() time.Time
}

func NewSyncer(s *Store, r Renderer, log logger.Logger) *Syncer {
	return &Syncer{Store: s, Renderer: r, Logger: log, now: time.Now}
}

// Sync renders changed documents into the store and removes entries whose
// documents are gone. Documents are expected to be valid already.
func (s *Syncer) Sync(ctx context.Context, runID string, sets []*content.Set) (*Run, error) {
	run := &Run{ID: runID, StartedAt: s.timestamp()}

	for _, set := range sets {
		name := set.Collection.Name
		digests, err := s.Store.Digests(ctx, name)
		if err != nil {
			return nil, err
		}

		fingerprint := s.Renderer.Fingerprint()
		ids := make([]string, 0, len(set.Documents))
		for _, doc := range set.Documents {
			ids = append(ids, doc.ID)
			digest := entryDigest(doc.Digest, fingerprint)
			if digests[doc.ID] == digest {
				run.Unchanged++
				continue
			}

			if err := s.store(ctx, runID, doc, digest); err != nil {
				return nil, err
			}
			s.Logger.Debugf("Rendered %s/%s", name, doc.ID)
			run.Rendered++
		}

		pruned, err := s.Store.Prune(ctx, name, ids)
		if err != nil {
			return nil, err
		}
		run.Pruned += pruned
	}

	run.FinishedAt = s.timestamp()
	if err := s.Store.RecordRun(ctx, *run); err != nil {
		return nil, err
	}

	return run, nil
}

// entryDigest binds a document digest to the renderer configuration so that
// changing the markdown options re-renders every entry.
func entryDigest(docDigest, fingerprint string) string {
	sum := sha256.Sum256([]byte(docDigest + ":" + fingerprint))
	return hex.EncodeToString(sum[:])
}

func (s *Syncer) store(ctx context.Context, runID string, doc *content.Document, digest string) error {
	html, err := s.Renderer.Render(ctx, doc.Body)
	if err != nil {
		return errors.Wrapf(err, "failed to render %s", doc.Path)
	}

	data, err := json.Marshal(doc.Data)
	if err != nil {
		return errors.Wrapf(err, "failed to encode front matter of %s", doc.Path)
	}

	return s.Store.Upsert(ctx, Entry{
		Collection: doc.Collection,
		ID:         doc.ID,
		Path:       doc.Path,
		Digest:     digest,
		Data:       string(data),
		HTML:       html,
		RunID:      runID,
		UpdatedAt:  s.timestamp(),
	})
}

func (s *Syncer) timestamp() string {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().UTC().Format(time.RFC3339Nano)
}
