package models

import "time"

// AnalysisReport is a persisted snapshot of one pipeline run. The analysis
// itself is a pure function of its inputs; reports exist only so operators
// can review past scans and uploads.
type AnalysisReport struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at" badgerhold:"index"`
	Source         string    `json:"source" badgerhold:"index"` // "upload", "scan", "cli"
	HARRecordCount int       `json:"har_record_count"`
	RunRecordCount int       `json:"run_record_count"`
	Summary        Summary   `json:"summary"`
}
