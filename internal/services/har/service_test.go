package har

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/sift/internal/common"
	"github.com/ternarybob/sift/internal/models"
)

const sampleCapture = `{
  "log": {
    "entries": [{
      "request": {
        "url": "https://api.example.com/data?key=secret123&name=test",
        "method": "GET",
        "headers": [
          {"name": "Authorization", "value": "Bearer token123"},
          {"name": "Content-Type", "value": "application/json"}
        ]
      },
      "response": {"status": 200, "statusText": "OK", "bodySize": 1234},
      "timings": {"total": 100}
    }]
  }
}`

const errorCapture = `{
  "log": {
    "entries": [{
      "request": {"url": "https://api.example.com/error", "method": "GET", "headers": []},
      "response": {"status": 404, "statusText": "Not Found", "bodySize": 0},
      "timings": {"total": 50}
    }]
  }
}`

const redirectCapture = `{
  "log": {
    "entries": [{
      "request": {"url": "https://api.example.com/old", "method": "GET", "headers": []},
      "response": {"status": 302, "statusText": "Found", "redirectURL": "https://api.example.com/new", "bodySize": 0},
      "timings": {"total": 30}
    }]
  }
}`

func newTestService() *Service {
	return NewService(nil, common.GetLogger())
}

func TestParseFiles(t *testing.T) {
	service := newTestService()

	records := service.ParseFiles([]models.ArtifactFile{
		{Name: "test.har", Content: []byte(sampleCapture)},
	})

	require.Len(t, records, 1)
	record := records[0]

	assert.Equal(t, "test", record.FileID)
	assert.Equal(t, "GET", record.Method)
	assert.Equal(t, 200, record.StatusCode)
	assert.Equal(t, float64(100), record.ResponseTimeMS)
	assert.Equal(t, int64(1234), record.ResponseSizeBytes)
	assert.Nil(t, record.ErrorMessage)

	// URL sanitized, order preserved
	assert.Equal(t, "https://api.example.com/data?key=%5BREDACTED%5D&name=test", record.URL)

	// Headers sanitized, insertion order preserved
	require.Len(t, record.RequestHeaders, 2)
	assert.Equal(t, "Authorization", record.RequestHeaders[0].Name)
	assert.Equal(t, "[REDACTED]", record.RequestHeaders[0].Value)
	value, ok := record.RequestHeaders.Get("content-type")
	require.True(t, ok)
	assert.Equal(t, "application/json", value)
}

func TestParseFilesErrorEntry(t *testing.T) {
	service := newTestService()

	records := service.ParseFiles([]models.ArtifactFile{
		{Name: "error.har", Content: []byte(errorCapture)},
	})

	require.Len(t, records, 1)
	require.NotNil(t, records[0].ErrorMessage)
	assert.Equal(t, "HTTP 404: Not Found", *records[0].ErrorMessage)
	assert.Equal(t, 404, records[0].StatusCode)
}

func TestParseFilesRedirectEntry(t *testing.T) {
	service := newTestService()

	records := service.ParseFiles([]models.ArtifactFile{
		{Name: "redirect.har", Content: []byte(redirectCapture)},
	})

	require.Len(t, records, 1)
	require.NotNil(t, records[0].ErrorMessage)
	assert.Equal(t, "Redirect to: https://api.example.com/new", *records[0].ErrorMessage)
	assert.Equal(t, 302, records[0].StatusCode)
}

func TestParseFilesSkipsMalformedEntries(t *testing.T) {
	service := newTestService()

	// One empty entry (missing required fields) alongside a valid one
	content := `{"log": {"entries": [{}, {
      "request": {"url": "https://api.example.com/ok", "method": "POST", "headers": []},
      "response": {"status": 201, "statusText": "Created", "bodySize": 5},
      "timings": {"total": 12.5}
    }]}}`

	records := service.ParseFiles([]models.ArtifactFile{
		{Name: "partial.har", Content: []byte(content)},
	})

	require.Len(t, records, 1)
	assert.Equal(t, 201, records[0].StatusCode)
	assert.Equal(t, 12.5, records[0].ResponseTimeMS)
}

func TestParseFilesSkipsUnparseableFile(t *testing.T) {
	service := newTestService()

	records := service.ParseFiles([]models.ArtifactFile{
		{Name: "broken.har", Content: []byte("not json at all")},
		{Name: "good.har", Content: []byte(sampleCapture)},
	})

	// Broken file skipped whole, good file still parsed
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].FileID)
}

func TestParseFilesEmptyInput(t *testing.T) {
	service := newTestService()

	records := service.ParseFiles(nil)

	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run1.har"), []byte(sampleCapture), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run2.har"), []byte(errorCapture), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	service := newTestService()
	records, err := service.ParseDir(dir)

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseDirMissing(t *testing.T) {
	service := newTestService()

	_, err := service.ParseDir(filepath.Join(t.TempDir(), "nope"))

	assert.Error(t, err)
}
