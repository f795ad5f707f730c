package responder

import (
	"errors"
	"io/fs"
	"os"

	"github.com/couchcryptid/planet-weight-cgi/internal/domain"
)

// TemplateSource yields the result page template.
type TemplateSource interface {
	Load() (string, error)
}

// FileTemplate reads the template from disk on every Load.
type FileTemplate struct {
	Path string
}

func (t FileTemplate) Load() (string, error) {
	data, err := os.ReadFile(t.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", domain.ErrTemplateNotFound
	case err != nil:
		return "", domain.ErrTemplateUnreadable
	}
	return string(data), nil
}

// StaticTemplate serves a fixed template string.
type StaticTemplate string

func (t StaticTemplate) Load() (string, error) { return string(t), nil }
