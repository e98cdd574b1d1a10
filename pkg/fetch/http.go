package fetch

import (
	"context"
	"net/url"
	"strings"

	"github.com/matzehuels/importviz/pkg/errors"
	"github.com/matzehuels/importviz/pkg/httputil"
)

// HTTPSource fetches datasets over HTTP. Absolute http(s) identifiers are
// requested as given; anything else is sent to BaseURL as the filename
// query parameter understood by the importviz dataset server.
type HTTPSource struct {
	Client  *httputil.Client
	BaseURL string
}

// NewHTTPSource returns a source using the default client.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{Client: httputil.NewClient(), BaseURL: baseURL}
}

// Read fetches the dataset bytes for id.
func (s *HTTPSource) Read(ctx context.Context, id string) ([]byte, error) {
	target, err := s.url(id)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = httputil.NewClient()
	}
	return client.GetBytes(ctx, target)
}

func (s *HTTPSource) url(id string) (string, error) {
	if isHTTP(id) {
		return id, errors.ValidateURL(id)
	}
	if s.BaseURL == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "no dataset server configured for %q", id)
	}
	if err := errors.ValidateURL(s.BaseURL); err != nil {
		return "", err
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid server url")
	}
	q := u.Query()
	q.Set("filename", id)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func isHTTP(id string) bool {
	return strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://")
}
