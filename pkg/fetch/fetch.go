// Package fetch retrieves dependency datasets by identifier.
//
// A [Source] returns raw dataset bytes. [Loader] wraps a source with
// validation, a persistent [cache.Cache], an in-process LRU memo and
// parsing into a [module.Dataset]. The provided sources are:
//
//   - [FileSource]: local files, optionally confined to a root directory
//   - [HTTPSource]: remote URLs, e.g. the importviz dataset server
//   - [MongoSource]: documents {_id, dataset} in a MongoDB collection
//
// [Mux] picks a source from the identifier's scheme.
package fetch

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/importviz/pkg/cache"
	"github.com/matzehuels/importviz/pkg/errors"
	"github.com/matzehuels/importviz/pkg/module"
	"github.com/matzehuels/importviz/pkg/observability"
)

// DefaultMemoSize is the number of datasets kept in memory by a Loader.
const DefaultMemoSize = 32

// Fetcher retrieves a parsed dataset.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*module.Dataset, error)
}

// Source retrieves the raw bytes of a dataset.
type Source interface {
	Read(ctx context.Context, id string) ([]byte, error)
}

// Checker is implemented by sources that can reject an identifier without
// reading it. The Loader checks before consulting its memo or cache, so a
// cached copy is never served for an identifier the source would refuse.
type Checker interface {
	Check(id string) error
}

// Option configures a Loader.
type Option func(*Loader)

// WithCache stores fetched bytes in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(l *Loader) { l.cache, l.ttl = c, ttl }
}

// WithKeyer sets the cache key layout.
func WithKeyer(k cache.Keyer) Option { return func(l *Loader) { l.keyer = k } }

// WithMemoSize sets the in-memory memo size. Zero disables the memo.
func WithMemoSize(n int) Option { return func(l *Loader) { l.memoSize = n } }

// WithLogger sets the logger.
func WithLogger(lg *log.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// Loader fetches, caches and parses datasets. It is safe for concurrent use.
type Loader struct {
	source   Source
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	memoSize int
	memo     *lru.Cache[string, []byte]
	logger   *log.Logger
}

// New returns a loader reading from src.
func New(src Source, opts ...Option) *Loader {
	l := &Loader{
		source:   src,
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		memoSize: DefaultMemoSize,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.memoSize > 0 {
		l.memo, _ = lru.New[string, []byte](l.memoSize)
	}
	return l
}

// Fetch returns the dataset identified by id.
func (l *Loader) Fetch(ctx context.Context, id string) (*module.Dataset, error) {
	start := time.Now()
	observability.Pipeline().OnFetchStart(ctx, id)

	ds, err := l.fetch(ctx, id)
	count := 0
	if ds != nil {
		count = ds.Len()
	}
	observability.Pipeline().OnFetchComplete(ctx, id, count, time.Since(start), err)
	return ds, err
}

func (l *Loader) fetch(ctx context.Context, id string) (*module.Dataset, error) {
	data, err := l.Bytes(ctx, id)
	if err != nil {
		return nil, err
	}
	ds, err := module.Parse(data)
	if err != nil {
		l.forget(ctx, id)
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "parse dataset %s", id)
	}
	return ds, nil
}

// Bytes returns the raw dataset bytes for id, consulting the memo and the
// cache before the source.
func (l *Loader) Bytes(ctx context.Context, id string) ([]byte, error) {
	if err := errors.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	if c, ok := l.source.(Checker); ok {
		if err := c.Check(id); err != nil {
			return nil, err
		}
	}
	if l.memo != nil {
		if data, ok := l.memo.Get(id); ok {
			l.logger.Debug("dataset memo hit", "id", id)
			return data, nil
		}
	}

	key := l.keyer.DatasetKey(id)
	data, hit, err := l.cache.Get(ctx, key)
	if err != nil {
		l.logger.Warn("cache read failed", "id", id, "err", err)
	}
	if !hit {
		data, err = l.source.Read(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := l.cache.Set(ctx, key, data, l.ttl); err != nil {
			l.logger.Warn("cache write failed", "id", id, "err", err)
		}
	} else {
		l.logger.Debug("dataset cache hit", "id", id)
	}

	if l.memo != nil {
		l.memo.Add(id, data)
	}
	return data, nil
}

// forget drops id from the memo and the cache so a broken dataset is not
// served again.
func (l *Loader) forget(ctx context.Context, id string) {
	if l.memo != nil {
		l.memo.Remove(id)
	}
	_ = l.cache.Delete(ctx, l.keyer.DatasetKey(id))
}

// Invalidate drops id from the memo and the cache.
func (l *Loader) Invalidate(ctx context.Context, id string) { l.forget(ctx, id) }
