// -----------------------------------------------------------------------
// Log Extractor - parses plaintext service transcripts into normalized run
// records with structured error traces
// -----------------------------------------------------------------------

package runlog

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/common"
	"github.com/ternarybob/sift/internal/models"
)

// Extension identifies log transcripts in directory mode.
const Extension = ".log"

// Transcript grammar. A file may hold any number of concatenated runs;
// anything outside a start/end marker pair is ignored.
const (
	startMarkerPrefix = "==== Logging started for "
	startMarkerSuffix = " ===="
	endMarker         = "==== Logging ended ===="
	tracebackMarker   = "Traceback (most recent call last):"
	taskURLPrefix     = "Task URL: "
)

// Service extracts RunRecords from service log transcripts.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new log extractor service
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// ParseFiles parses the supplied transcript blobs. A file with no
// recognizable markers yields zero records; per-file problems never abort
// the batch.
func (s *Service) ParseFiles(files []models.ArtifactFile) []models.RunRecord {
	records := make([]models.RunRecord, 0)

	for _, file := range files {
		runs := s.parseContent(file.FileID(), string(file.Content))
		if len(runs) == 0 {
			s.logger.Debug().Str("file", file.Name).Msg("No delimited runs found in transcript")
		}
		records = append(records, runs...)
	}

	return records
}

// ParseDir scans dir for *.log files and parses them. Per-file read errors
// are reported at warn level and the file is dropped from results.
func (s *Service) ParseDir(dir string) ([]models.RunRecord, error) {
	files, err := common.ReadArtifactDir(dir, Extension, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to scan log directory: %w", err)
	}
	return s.ParseFiles(files), nil
}

// parseContent walks the transcript line by line. A run opens on its start
// marker and is emitted only when its end marker arrives; an unterminated
// run at EOF is discarded.
func (s *Service) parseContent(fileID, content string) []models.RunRecord {
	lines := strings.Split(content, "\n")
	records := make([]models.RunRecord, 0)

	var current *models.RunRecord
	var trace []string

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(line)

		if service, ok := parseStartMarker(trimmed); ok {
			current = &models.RunRecord{
				FileID:  fileID,
				Service: service,
				Steps:   make([]string, 0),
				Status:  models.RunStatusSuccess,
			}
			trace = nil
			continue
		}

		if current == nil {
			continue
		}

		if trimmed == endMarker {
			records = append(records, finalizeRun(current, trace))
			current = nil
			trace = nil
			continue
		}

		if trimmed == tracebackMarker && trace == nil {
			// Capture the trace verbatim up to (but not including) a blank
			// line or the end marker.
			trace = []string{line}
			for i+1 < len(lines) {
				next := strings.TrimRight(lines[i+1], "\r")
				nextTrimmed := strings.TrimSpace(next)
				if nextTrimmed == "" || nextTrimmed == endMarker {
					break
				}
				trace = append(trace, next)
				i++
			}
			continue
		}

		if trimmed == "" {
			continue
		}

		if current.TaskURL == nil && strings.HasPrefix(trimmed, taskURLPrefix) {
			url := strings.TrimSpace(strings.TrimPrefix(trimmed, taskURLPrefix))
			current.TaskURL = &url
			continue
		}

		current.Steps = append(current.Steps, trimmed)
	}

	return records
}

// parseStartMarker extracts the service name from a run start marker line.
func parseStartMarker(line string) (string, bool) {
	if !strings.HasPrefix(line, startMarkerPrefix) || !strings.HasSuffix(line, startMarkerSuffix) {
		return "", false
	}
	service := strings.TrimSuffix(strings.TrimPrefix(line, startMarkerPrefix), startMarkerSuffix)
	if service == "" {
		return "", false
	}
	return service, true
}

// finalizeRun applies the failure invariant: a run is failed iff a
// traceback was captured before its end marker.
func finalizeRun(run *models.RunRecord, trace []string) models.RunRecord {
	if len(trace) > 0 {
		parsed := ParseErrorTrace(trace)
		run.Status = models.RunStatusFailed
		run.ErrorTrace = &parsed
		run.ErrorMessage = parsed.Message
	}
	return *run
}

// ParseErrorTrace derives the structured trace fields from a verbatim
// traceback block: the final line is the error type, the substring after
// its first colon the message, and the first `File "` line the location.
func ParseErrorTrace(lines []string) models.ErrorTrace {
	trace := models.ErrorTrace{
		FullTrace: append([]string{}, lines...),
	}
	if len(lines) == 0 {
		return trace
	}

	last := lines[len(lines)-1]
	trace.Type = &last

	if _, message, found := strings.Cut(last, ":"); found {
		msg := strings.TrimSpace(message)
		trace.Message = &msg
	}

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), `File "`) {
			location := line
			trace.Location = &location
			break
		}
	}

	return trace
}
