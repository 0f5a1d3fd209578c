package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/sift/internal/common"
	"github.com/ternarybob/sift/internal/models"
)

func strPtr(s string) *string { return &s }

func sampleHARRecords() []models.HARRecord {
	return []models.HARRecord{
		{
			FileID:       "1",
			StatusCode:   404,
			URL:          "http://api.example.com/endpoint",
			ErrorMessage: strPtr("Endpoint not found"),
		},
		{
			FileID:       "2",
			StatusCode:   500,
			URL:          "http://api.example.com/another",
			ErrorMessage: strPtr("Internal server error"),
		},
		{
			FileID:     "3",
			StatusCode: 200,
			URL:        "http://api.example.com/success",
		},
	}
}

func sampleRunRecords() []models.RunRecord {
	trace := func(msg string) *models.ErrorTrace {
		return &models.ErrorTrace{Message: strPtr(msg), FullTrace: []string{msg}}
	}
	return []models.RunRecord{
		{
			FileID:       "1",
			Status:       models.RunStatusFailed,
			Steps:        []string{"Cookies sanitized", "Authentication failed"},
			ErrorMessage: strPtr("Session expired"),
			ErrorTrace:   trace("Session expired"),
		},
		{
			FileID:       "2",
			Status:       models.RunStatusFailed,
			Steps:        []string{"Card is not reflected", "Verification failed"},
			ErrorMessage: strPtr("Card verification error"),
			ErrorTrace:   trace("Card verification error"),
		},
		{
			FileID: "4",
			Status: models.RunStatusSuccess,
			Steps:  []string{"Success step"},
		},
	}
}

func newTestDetector(har []models.HARRecord, runs []models.RunRecord) *Detector {
	return NewDetector(har, runs, DefaultVocabulary(), common.GetLogger())
}

func TestConstructionFiltering(t *testing.T) {
	detector := newTestDetector(sampleHARRecords(), sampleRunRecords())

	// Successful runs are dropped, and with them their HAR evidence
	assert.Equal(t, 2, detector.FailedRunCount())
	assert.Equal(t, 2, detector.EvidenceCount())
}

func TestDetectFailurePatterns(t *testing.T) {
	detector := newTestDetector(sampleHARRecords(), sampleRunRecords())

	patterns := detector.DetectFailurePatterns()

	require.Len(t, patterns, 3)
	require.Contains(t, patterns, models.PatternCategoryAuthentication)
	require.Contains(t, patterns, models.PatternCategoryAPI)
	require.Contains(t, patterns, models.PatternCategoryVerification)

	// Authentication: one cookie/session failure
	require.Len(t, patterns[models.PatternCategoryAuthentication], 1)
	auth := patterns[models.PatternCategoryAuthentication][0]
	assert.Equal(t, models.PatternCookieSessionFailure, auth.Type)
	assert.Equal(t, 1, auth.Frequency)
	assert.Contains(t, auth.ErrorMessages, "Session expired")

	// API: one 404 and one 5xx
	api := patterns[models.PatternCategoryAPI]
	require.Len(t, api, 2)
	byType := map[string]models.FailurePattern{}
	for _, p := range api {
		byType[p.Type] = p
	}
	notFound, ok := byType[models.PatternEndpointNotFound]
	require.True(t, ok)
	assert.Equal(t, 1, notFound.Frequency)
	assert.Contains(t, notFound.ErrorMessages, "Endpoint not found")
	serverError, ok := byType[models.PatternServerError]
	require.True(t, ok)
	assert.Equal(t, 1, serverError.Frequency)
	assert.Contains(t, serverError.ErrorMessages, "Internal server error")

	// Verification: one card failure
	require.Len(t, patterns[models.PatternCategoryVerification], 1)
	verification := patterns[models.PatternCategoryVerification][0]
	assert.Equal(t, models.PatternCardVerificationFailure, verification.Type)
	assert.Equal(t, 1, verification.Frequency)
	assert.Contains(t, verification.ErrorMessages, "Card verification error")
}

func TestGenerateSummary(t *testing.T) {
	detector := newTestDetector(sampleHARRecords(), sampleRunRecords())

	summary := detector.GenerateSummary()

	assert.Equal(t, 2, summary.TotalFailures)
	assert.Equal(t, map[models.PatternCategory]int{
		models.PatternCategoryAuthentication: 1,
		models.PatternCategoryAPI:            2,
		models.PatternCategoryVerification:   1,
	}, summary.PatternDistribution)
	require.NotNil(t, summary.Patterns)
	assert.Len(t, summary.Patterns, 3)
}

func TestDistributionMatchesFrequencies(t *testing.T) {
	detector := newTestDetector(sampleHARRecords(), sampleRunRecords())

	summary := detector.GenerateSummary()

	for category, patterns := range summary.Patterns {
		sum := 0
		for _, p := range patterns {
			sum += p.Frequency
		}
		assert.Equal(t, sum, summary.PatternDistribution[category],
			"distribution for %s must equal the sum of its pattern frequencies", category)
	}
}

func TestEmptyInput(t *testing.T) {
	detector := newTestDetector(nil, nil)

	patterns := detector.DetectFailurePatterns()
	require.Len(t, patterns, 3)
	for category, list := range patterns {
		assert.Empty(t, list, "category %s must have no patterns", category)
	}

	summary := detector.GenerateSummary()
	assert.Equal(t, 0, summary.TotalFailures)
	for category, count := range summary.PatternDistribution {
		assert.Zero(t, count, "category %s must have zero frequency", category)
	}
}

func TestUncorrelatedHARRecordsIgnored(t *testing.T) {
	// HAR evidence whose file_id has no failed run is dropped at construction
	har := []models.HARRecord{
		{FileID: "99", StatusCode: 500, ErrorMessage: strPtr("Internal server error")},
	}
	detector := newTestDetector(har, sampleRunRecords())

	assert.Equal(t, 0, detector.EvidenceCount())
	summary := detector.GenerateSummary()
	assert.Zero(t, summary.PatternDistribution[models.PatternCategoryAPI])
}

func TestErrorMessagesDeduplicated(t *testing.T) {
	runs := []models.RunRecord{
		{
			FileID:       "1",
			Status:       models.RunStatusFailed,
			Steps:        []string{"Session refresh failed"},
			ErrorMessage: strPtr("Session expired"),
			ErrorTrace:   &models.ErrorTrace{},
		},
		{
			FileID:       "2",
			Status:       models.RunStatusFailed,
			Steps:        []string{"Cookie jar empty"},
			ErrorMessage: strPtr("Session expired"),
			ErrorTrace:   &models.ErrorTrace{},
		},
	}

	detector := newTestDetector(nil, runs)
	patterns := detector.DetectFailurePatterns()

	require.Len(t, patterns[models.PatternCategoryAuthentication], 1)
	auth := patterns[models.PatternCategoryAuthentication][0]
	assert.Equal(t, 2, auth.Frequency)
	assert.Equal(t, []string{"Session expired"}, auth.ErrorMessages)
}

func TestConfigurableVocabulary(t *testing.T) {
	vocab := Vocabulary{
		Authentication: []string{"kerberos"},
		Verification:   []string{"3ds"},
	}
	runs := []models.RunRecord{
		{
			FileID:       "1",
			Status:       models.RunStatusFailed,
			Steps:        []string{"Kerberos ticket rejected"},
			ErrorMessage: strPtr("ticket expired"),
			ErrorTrace:   &models.ErrorTrace{},
		},
	}

	detector := NewDetector(nil, runs, vocab, common.GetLogger())
	patterns := detector.DetectFailurePatterns()

	require.Len(t, patterns[models.PatternCategoryAuthentication], 1)
	assert.Empty(t, patterns[models.PatternCategoryVerification])
}
