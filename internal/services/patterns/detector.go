// -----------------------------------------------------------------------
// Failure Pattern Detector - correlates failed runs with their network
// evidence and classifies them with a deterministic rule table
// -----------------------------------------------------------------------

package patterns

import (
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/models"
)

// Vocabulary holds the keyword sets driving the run-evidence rule
// families. Matching is case-insensitive substring over a run's steps and
// error message; adding a signature is a data change, not a new branch.
type Vocabulary struct {
	Authentication []string
	Verification   []string
}

// DefaultVocabulary covers the known recurring payment failure signatures.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Authentication: []string{"cookie", "session", "auth"},
		Verification:   []string{"card", "verification"},
	}
}

// rule is one entry of the ordered classification table. Exactly one of
// matchRun/matchHAR is set: run rules count matching failed runs, HAR rules
// count matching network records.
type rule struct {
	category models.PatternCategory
	subType  string
	matchRun func(models.RunRecord) bool
	matchHAR func(models.HARRecord) bool
}

// Detector evaluates the rule table over one correlated batch. It holds no
// state across evaluations; identical inputs always classify identically.
type Detector struct {
	failedRuns []models.RunRecord
	harRecords []models.HARRecord
	rules      []rule
	logger     arbor.ILogger
}

// NewDetector filters the run batch to failed runs and the HAR batch to
// records whose file_id appears among them, dropping network evidence from
// successful runs.
func NewDetector(harRecords []models.HARRecord, runRecords []models.RunRecord, vocab Vocabulary, logger arbor.ILogger) *Detector {
	failed := make([]models.RunRecord, 0, len(runRecords))
	failedIDs := make(map[string]struct{})
	for _, run := range runRecords {
		if run.Failed() {
			failed = append(failed, run)
			failedIDs[run.FileID] = struct{}{}
		}
	}

	correlated := make([]models.HARRecord, 0, len(harRecords))
	for _, record := range harRecords {
		if _, ok := failedIDs[record.FileID]; ok {
			correlated = append(correlated, record)
		}
	}

	return &Detector{
		failedRuns: failed,
		harRecords: correlated,
		rules:      buildRules(vocab),
		logger:     logger,
	}
}

// FailedRunCount returns the number of retained failed runs.
func (d *Detector) FailedRunCount() int {
	return len(d.failedRuns)
}

// EvidenceCount returns the number of retained HAR records.
func (d *Detector) EvidenceCount() int {
	return len(d.harRecords)
}

// buildRules assembles the ordered rule table for the three fixed
// families. Sub-types with no matches are omitted from results, not
// zero-filled.
func buildRules(vocab Vocabulary) []rule {
	return []rule{
		{
			category: models.PatternCategoryAuthentication,
			subType:  models.PatternCookieSessionFailure,
			matchRun: matchKeywords(vocab.Authentication),
		},
		{
			category: models.PatternCategoryAPI,
			subType:  models.PatternEndpointNotFound,
			matchHAR: func(r models.HARRecord) bool { return r.StatusCode == 404 },
		},
		{
			category: models.PatternCategoryAPI,
			subType:  models.PatternServerError,
			matchHAR: func(r models.HARRecord) bool { return r.StatusCode >= 500 },
		},
		{
			category: models.PatternCategoryVerification,
			subType:  models.PatternCardVerificationFailure,
			matchRun: matchKeywords(vocab.Verification),
		},
	}
}

// matchKeywords builds a predicate over a run's steps and error message.
func matchKeywords(keywords []string) func(models.RunRecord) bool {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw != "" {
			lowered = append(lowered, strings.ToLower(kw))
		}
	}

	return func(run models.RunRecord) bool {
		for _, step := range run.Steps {
			if containsAny(step, lowered) {
				return true
			}
		}
		if run.ErrorMessage != nil && containsAny(*run.ErrorMessage, lowered) {
			return true
		}
		return false
	}
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DetectFailurePatterns evaluates every rule and returns the patterns
// grouped under exactly the three fixed category keys.
func (d *Detector) DetectFailurePatterns() map[models.PatternCategory][]models.FailurePattern {
	results := make(map[models.PatternCategory][]models.FailurePattern, len(models.Categories))
	for _, category := range models.Categories {
		results[category] = make([]models.FailurePattern, 0)
	}

	for _, r := range d.rules {
		pattern, ok := d.evaluate(r)
		if !ok {
			continue
		}
		results[r.category] = append(results[r.category], pattern)
	}

	return results
}

// evaluate counts the rule's matching evidence and collects the associated
// error messages (deduplicated, first-seen order).
func (d *Detector) evaluate(r rule) (models.FailurePattern, bool) {
	pattern := models.FailurePattern{
		Type:          r.subType,
		ErrorMessages: make([]string, 0),
	}
	seen := make(map[string]struct{})

	collect := func(message *string) {
		if message == nil {
			return
		}
		if _, ok := seen[*message]; ok {
			return
		}
		seen[*message] = struct{}{}
		pattern.ErrorMessages = append(pattern.ErrorMessages, *message)
	}

	switch {
	case r.matchRun != nil:
		for _, run := range d.failedRuns {
			if r.matchRun(run) {
				pattern.Frequency++
				collect(run.ErrorMessage)
			}
		}
	case r.matchHAR != nil:
		for _, record := range d.harRecords {
			if r.matchHAR(record) {
				pattern.Frequency++
				collect(record.ErrorMessage)
			}
		}
	}

	return pattern, pattern.Frequency > 0
}

// GenerateSummary aggregates one full evaluation: the retained failure
// count, the per-category frequency distribution, and the full pattern
// detail. All three category keys are always present.
func (d *Detector) GenerateSummary() models.Summary {
	patterns := d.DetectFailurePatterns()

	distribution := make(map[models.PatternCategory]int, len(models.Categories))
	for _, category := range models.Categories {
		total := 0
		for _, pattern := range patterns[category] {
			total += pattern.Frequency
		}
		distribution[category] = total
	}

	return models.Summary{
		TotalFailures:       len(d.failedRuns),
		PatternDistribution: distribution,
		Patterns:            patterns,
	}
}
