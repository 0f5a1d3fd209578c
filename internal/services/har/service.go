// -----------------------------------------------------------------------
// HAR Extractor - parses HTTP Archive captures into normalized, sanitized
// request/response records
// -----------------------------------------------------------------------

package har

import (
	"encoding/json"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/common"
	"github.com/ternarybob/sift/internal/models"
	"github.com/ternarybob/sift/internal/sanitize"
)

// Extension identifies HAR captures in directory mode.
const Extension = ".har"

// harFile mirrors the subset of the HAR 1.2 format the extractor reads.
type harFile struct {
	Log harLog `json:"log"`
}

type harLog struct {
	Entries []harEntry `json:"entries"`
}

type harEntry struct {
	Request  harRequest  `json:"request"`
	Response harResponse `json:"response"`
	Timings  harTimings  `json:"timings"`
}

type harRequest struct {
	Method  string      `json:"method"`
	URL     string      `json:"url"`
	Headers []harHeader `json:"headers"`
}

type harHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type harResponse struct {
	Status      int    `json:"status"`
	StatusText  string `json:"statusText"`
	RedirectURL string `json:"redirectURL"`
	BodySize    int64  `json:"bodySize"`
}

type harTimings struct {
	Total float64 `json:"total"`
}

// Service extracts HARRecords from capture files.
type Service struct {
	sanitizer *sanitize.Sanitizer
	logger    arbor.ILogger
}

// NewService creates a new HAR extractor service
func NewService(sanitizer *sanitize.Sanitizer, logger arbor.ILogger) *Service {
	if sanitizer == nil {
		sanitizer = sanitize.Default
	}
	return &Service{
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// ParseFiles parses the supplied capture blobs. A file that fails to decode
// is skipped whole; an entry missing required fields is skipped
// individually. The result is the concatenation of all successfully derived
// records across all inputs, possibly empty - partial failures never abort
// the batch.
func (s *Service) ParseFiles(files []models.ArtifactFile) []models.HARRecord {
	records := make([]models.HARRecord, 0)

	for _, file := range files {
		var capture harFile
		if err := json.Unmarshal(file.Content, &capture); err != nil {
			s.logger.Warn().Err(err).Str("file", file.Name).Msg("Skipping unparseable HAR file")
			continue
		}

		fileID := file.FileID()
		skipped := 0
		for _, entry := range capture.Log.Entries {
			record, ok := s.recordFromEntry(fileID, entry)
			if !ok {
				skipped++
				continue
			}
			records = append(records, record)
		}

		if skipped > 0 {
			s.logger.Debug().
				Str("file", file.Name).
				Int("skipped_entries", skipped).
				Msg("HAR entries missing required fields were skipped")
		}
	}

	return records
}

// ParseDir scans dir for *.har files and parses them. Per-file read errors
// are reported at warn level and the file is dropped from results.
func (s *Service) ParseDir(dir string) ([]models.HARRecord, error) {
	files, err := common.ReadArtifactDir(dir, Extension, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to scan HAR directory: %w", err)
	}
	return s.ParseFiles(files), nil
}

// recordFromEntry builds a sanitized record. Entries without a request URL,
// method, or response status are considered malformed and skipped.
func (s *Service) recordFromEntry(fileID string, entry harEntry) (models.HARRecord, bool) {
	if entry.Request.URL == "" || entry.Request.Method == "" || entry.Response.Status == 0 {
		return models.HARRecord{}, false
	}

	headers := make(models.HeaderList, 0, len(entry.Request.Headers))
	for _, header := range entry.Request.Headers {
		headers = append(headers, models.Header{
			Name:  header.Name,
			Value: s.sanitizer.HeaderValue(header.Name, header.Value),
		})
	}

	return models.HARRecord{
		FileID:            fileID,
		Method:            entry.Request.Method,
		URL:               s.sanitizer.URL(entry.Request.URL),
		StatusCode:        entry.Response.Status,
		ResponseTimeMS:    entry.Timings.Total,
		ResponseSizeBytes: entry.Response.BodySize,
		RequestHeaders:    headers,
		ErrorMessage:      errorMessage(entry.Response),
	}, true
}

// errorMessage derives the nullable error description for a response:
// client/server errors report the status line, redirects report their
// target when one is present, successes yield nil.
func errorMessage(response harResponse) *string {
	switch {
	case response.Status >= 400:
		msg := fmt.Sprintf("HTTP %d: %s", response.Status, response.StatusText)
		return &msg
	case response.Status >= 300 && response.RedirectURL != "":
		msg := fmt.Sprintf("Redirect to: %s", response.RedirectURL)
		return &msg
	default:
		return nil
	}
}
