package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/geotagger/internal/geo"
	"github.com/sells-group/geotagger/internal/photos"
)

func sampleSummary() *photos.Summary {
	alt := 75.6
	captured := time.Date(2025, 8, 11, 15, 26, 0, 0, time.UTC)
	return &photos.Summary{
		RunID:      "run-1",
		Total:      3,
		Tagged:     1,
		Unresolved: 1,
		Failed:     1,
		Outcomes: []photos.Outcome{
			{
				Path:        "/photos/IMG_0001.jpg",
				Status:      photos.StatusTagged,
				CaptureTime: captured,
				Position:    &geo.EstimatedPosition{Latitude: 54.7973638, Longitude: -1.5921443, Altitude: &alt, Instant: captured, Source: geo.StreamSignals},
			},
			{
				Path:        "/photos/IMG_0002.jpg",
				Status:      photos.StatusUnresolved,
				CaptureTime: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
				Error:       "geo: no location available for instant",
			},
			{
				Path:   "/photos/IMG_0003.jpg",
				Status: photos.StatusFailed,
				Error:  "exif: no capture time",
			},
		},
	}
}

func TestWriteGeotagText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderGeotag(&buf, formatText, sampleSummary()))

	out := buf.String()
	assert.Contains(t, out, "PHOTO")
	assert.Contains(t, out, "IMG_0001.jpg")
	assert.NotContains(t, out, "/photos/")
	assert.Contains(t, out, "54.7973638")
	assert.Contains(t, out, "75.60")
	assert.Contains(t, out, "2019-01-01 00:00:00")
	assert.Contains(t, out, "exif: no capture time")
	assert.Contains(t, out, "run run-1: 3 photos, 1 tagged, 0 dry-run, 1 unresolved, 1 failed")
}

func TestRenderGeotag_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderGeotag(&buf, formatCSV, sampleSummary()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "photo,status,capture_time,latitude,longitude,altitude,source,error", lines[0])

	var rows []*outcomeRow
	require.NoError(t, gocsv.UnmarshalString(buf.String(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "tagged", rows[0].Status)
	assert.Equal(t, "2025-08-11T15:26:00Z", rows[0].CaptureTime)
	assert.Equal(t, "54.7973638", rows[0].Latitude)
	assert.Equal(t, "75.6", rows[0].Altitude)
	assert.Equal(t, "signals", rows[0].Source)
	assert.Empty(t, rows[1].Latitude)
	assert.Empty(t, rows[2].CaptureTime)
	assert.Equal(t, "exif: no capture time", rows[2].Error)
}

func TestRenderGeotag_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderGeotag(&buf, formatJSON, sampleSummary()))

	var got struct {
		RunID    string `json:"run_id"`
		Tagged   int    `json:"tagged"`
		Outcomes []struct {
			Status      string         `json:"status"`
			CaptureTime *string        `json:"capture_time"`
			Position    map[string]any `json:"position"`
		} `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 1, got.Tagged)
	require.Len(t, got.Outcomes, 3)
	assert.Equal(t, "signals", got.Outcomes[0].Position["source"])
	assert.Nil(t, got.Outcomes[2].CaptureTime)
	assert.Nil(t, got.Outcomes[2].Position)
}

func TestRenderGeotag_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderGeotag(&buf, formatYAML, sampleSummary()))
	assert.Contains(t, buf.String(), "run_id: run-1")
	assert.Contains(t, buf.String(), "status: unresolved")
}

// geotagFixture lays out a photo directory and a fake exiftool that answers
// capture-time reads and appends write invocations to a log.
func geotagFixture(t *testing.T) (dir, writeLog string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}

	root := t.TempDir()
	dir = filepath.Join(root, "photos")
	require.NoError(t, os.Mkdir(dir, 0o755))
	for _, name := range []string{"a.jpg", "early.JPG", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	writeLog = filepath.Join(root, "writes.log")
	script := `#!/bin/sh
case "$*" in
  *-DateTimeOriginal*)
    case "$3" in
      *early*) echo "2019:01:01 00:00:00" ;;
      *) echo "2025:08:11 16:26:00" ;;
    esac ;;
  *) echo "$@" >> ` + writeLog + ` ;;
esac
`
	bin := filepath.Join(root, "exiftool")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	t.Setenv("GEOTAG_EXIF_EXIFTOOL_PATH", bin)
	return dir, writeLog
}

func TestGeotagCommand(t *testing.T) {
	dir, writeLog := geotagFixture(t)

	out, err := executeCommand(t, "geotag",
		"--timeline", fixtureTimeline,
		"--photos", dir,
		"--timezone", "Europe/London",
		"--concurrency", "2",
		"--format", "csv",
	)
	require.NoError(t, err)

	var rows []*outcomeRow
	require.NoError(t, gocsv.UnmarshalString(out, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), rows[0].Photo)
	assert.Equal(t, "tagged", rows[0].Status)
	assert.Equal(t, "2025-08-11T15:26:00Z", rows[0].CaptureTime)
	assert.Equal(t, "signals", rows[0].Source)
	assert.Equal(t, "unresolved", rows[1].Status)

	data, err := os.ReadFile(writeLog)
	require.NoError(t, err)
	writes := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, writes, 1)
	assert.Contains(t, writes[0], "-overwrite_original")
	assert.Contains(t, writes[0], "-GPSLatitudeRef=N")
	assert.Contains(t, writes[0], "-GPSLongitudeRef=W")
	assert.Contains(t, writes[0], "-GPSDateStamp=2025:08:11")
	assert.Contains(t, writes[0], filepath.Join(dir, "a.jpg"))
}

func TestGeotagCommand_DryRun(t *testing.T) {
	dir, writeLog := geotagFixture(t)

	out, err := executeCommand(t, "geotag",
		"--timeline", fixtureTimeline,
		"--photos", dir,
		"--timezone", "+01:00",
		"--dry-run",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "dry-run")
	assert.Contains(t, out, "1 dry-run, 1 unresolved, 0 failed")

	_, err = os.Stat(writeLog)
	assert.True(t, errors.Is(err, os.ErrNotExist), "dry run must not write tags")
}

func TestGeotagCommand_NoPhotos(t *testing.T) {
	_, err := executeCommand(t, "geotag", "--timeline", fixtureTimeline, "--photos", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, photos.ErrNoPhotos))
}

func TestGeotagCommand_MissingPhotosDir(t *testing.T) {
	_, err := executeCommand(t, "geotag", "--timeline", fixtureTimeline)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geotag: --photos is required")
}

func TestGeotagCommand_BadConcurrency(t *testing.T) {
	_, err := executeCommand(t, "geotag", "--timeline", fixtureTimeline, "--photos", t.TempDir(), "--concurrency", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--concurrency must be at least 1")
}

func TestGeotagCommand_BadTimezone(t *testing.T) {
	_, err := executeCommand(t, "geotag", "--timeline", fixtureTimeline, "--photos", t.TempDir(), "--timezone", "Mars/Olympus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load timezone")
}
