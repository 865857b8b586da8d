package prompt

import (
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templatesFS embed.FS

// FSStore serves static prompt resources keyed by filename. Templates are
// YAML documents; a plain-string document is returned as-is, anything else is
// re-encoded as JSON.
type FSStore struct {
	fsys fs.FS
	log  *slog.Logger
}

// NewStore returns a store over the embedded templates.
func NewStore(log *slog.Logger) *FSStore {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		// embed guarantees the directory exists; fall back to the root FS.
		sub = templatesFS
	}
	return &FSStore{fsys: sub, log: log}
}

// NewStoreFS is NewStore over an arbitrary filesystem, used by tests.
func NewStoreFS(fsys fs.FS, log *slog.Logger) *FSStore {
	return &FSStore{fsys: fsys, log: log}
}

// Load returns the template text for name. Failure to load or parse yields
// an empty string, never an error: the normalizer produces safe fallbacks
// unconditionally, so a missing prompt only degrades output quality.
func (s *FSStore) Load(name string) string {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		s.log.Warn("prompt template missing", "name", name, "err", err)
		return ""
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		s.log.Warn("prompt template malformed", "name", name, "err", err)
		return ""
	}
	if str, ok := doc.(string); ok {
		return str
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return string(out)
}
