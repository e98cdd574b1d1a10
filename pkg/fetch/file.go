package fetch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/importviz/pkg/errors"
)

// FileSource reads datasets from the filesystem. With a Root, identifiers
// are relative paths confined to it; without one they are used as given.
type FileSource struct {
	Root string
}

// Check rejects paths that escape Root.
func (s FileSource) Check(id string) error {
	_, err := s.path(id)
	return err
}

func (s FileSource) path(id string) (string, error) {
	path := strings.TrimPrefix(id, "file://")
	if s.Root == "" {
		return path, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}
	return filepath.Join(s.Root, filepath.FromSlash(path)), nil
}

// Read returns the contents of the file named by id.
func (s FileSource) Read(_ context.Context, id string) ([]byte, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read dataset %s", id)
	}
	return data, nil
}
