package fetch

import (
	"context"
	"strings"

	"github.com/matzehuels/importviz/pkg/errors"
)

// Mux dispatches to a source by identifier scheme: mongo:// to Mongo,
// http(s):// to HTTP and everything else to File. A nil entry rejects its
// scheme.
type Mux struct {
	File  Source
	HTTP  Source
	Mongo Source
}

// Read routes id to the matching source.
func (m Mux) Read(ctx context.Context, id string) ([]byte, error) {
	src, err := m.route(id)
	if err != nil {
		return nil, err
	}
	return src.Read(ctx, id)
}

// Check rejects identifiers whose scheme is disabled, then defers to the
// routed source when it is a Checker.
func (m Mux) Check(id string) error {
	src, err := m.route(id)
	if err != nil {
		return err
	}
	if c, ok := src.(Checker); ok {
		return c.Check(id)
	}
	return nil
}

func (m Mux) route(id string) (Source, error) {
	var src Source
	var kind string
	switch {
	case strings.HasPrefix(id, MongoScheme):
		src, kind = m.Mongo, "mongodb"
	case isHTTP(id):
		src, kind = m.HTTP, "http"
	default:
		src, kind = m.File, "file"
	}
	if src == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s datasets are not enabled", kind)
	}
	return src, nil
}
