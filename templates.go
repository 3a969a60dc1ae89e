package churnform

import (
	"io/fs"

	"github.com/goliatone/go-churnform/pkg/presenter"
)

// EmbeddedTemplates exposes the built-in result panel templates so callers
// can reuse or extend them without importing the presenter package directly.
func EmbeddedTemplates() fs.FS {
	return presenter.TemplatesFS()
}
