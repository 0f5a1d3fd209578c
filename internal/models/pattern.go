package models

// PatternCategory is one of the three fixed rule families evaluated by the
// failure pattern detector.
type PatternCategory string

const (
	PatternCategoryAuthentication PatternCategory = "authentication"
	PatternCategoryAPI            PatternCategory = "api"
	PatternCategoryVerification   PatternCategory = "verification"
)

// Categories lists the fixed detector categories in evaluation order.
var Categories = []PatternCategory{
	PatternCategoryAuthentication,
	PatternCategoryAPI,
	PatternCategoryVerification,
}

// Pattern sub-type tags emitted by the built-in rule set.
const (
	PatternCookieSessionFailure    = "cookie_session_failure"
	PatternEndpointNotFound        = "endpoint_not_found"
	PatternServerError             = "server_error"
	PatternCardVerificationFailure = "card_verification_failure"
)

// FailurePattern is a recurring failure signature: its sub-type tag, the
// number of source records that matched, and the set of error messages
// observed on them (first-seen order, deduplicated).
type FailurePattern struct {
	Type          string   `json:"type"`
	Frequency     int      `json:"frequency"`
	ErrorMessages []string `json:"error_messages"`
}

// Summary aggregates a detector evaluation. PatternDistribution and
// Patterns always carry all three category keys; categories with no
// matches map to zero / an empty list.
type Summary struct {
	TotalFailures       int                                  `json:"total_failures"`
	PatternDistribution map[PatternCategory]int              `json:"pattern_distribution"`
	Patterns            map[PatternCategory][]FailurePattern `json:"patterns"`
}
