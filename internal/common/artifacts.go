package common

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/models"
)

// ReadArtifactDir loads every regular file in dir carrying the given
// extension (case-insensitive). Unreadable files are reported at warn level
// and dropped; only a missing/unreadable directory is an error.
func ReadArtifactDir(dir, extension string, logger arbor.ILogger) ([]models.ArtifactFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]models.ArtifactFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), extension) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Skipping unreadable artifact file")
			continue
		}

		files = append(files, models.ArtifactFile{Name: entry.Name(), Content: content})
	}

	return files, nil
}
