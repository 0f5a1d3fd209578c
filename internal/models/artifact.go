package models

import (
	"path/filepath"
	"strings"
)

// ArtifactFile is a named byte blob supplied to the extractors, either from
// an HTTP upload or from a directory scan.
type ArtifactFile struct {
	Name    string `json:"name"`
	Content []byte `json:"-"`
}

// FileID returns the artifact's identifier: the base filename without its
// extension. Records derived from the same capture/transcript pair share it.
func (f ArtifactFile) FileID() string {
	base := filepath.Base(f.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
