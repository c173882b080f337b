package exif

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ExifTool reads and writes photo metadata using the exiftool CLI.
type ExifTool struct {
	binPath string
}

// NewExifTool creates an ExifTool. If binPath is empty, "exiftool" is used.
func NewExifTool(binPath string) *ExifTool {
	if binPath == "" {
		binPath = "exiftool"
	}
	return &ExifTool{binPath: binPath}
}

// CaptureTime runs exiftool -s3 -DateTimeOriginal and returns the raw value.
func (e *ExifTool) CaptureTime(ctx context.Context, path string) (string, error) {
	out, err := e.run(ctx, "-s3", "-DateTimeOriginal", path)
	if err != nil {
		return "", err
	}
	raw := strings.TrimSpace(out)
	if raw == "" {
		return "", eris.Wrapf(ErrNoCaptureTime, "exif: %s", path)
	}
	return raw, nil
}

// WriteGPS assigns the GPS tags in place, without keeping a backup copy.
func (e *ExifTool) WriteGPS(ctx context.Context, path string, tag GPSTag) error {
	args := append([]string{"-overwrite_original"}, gpsArgs(tag)...)
	args = append(args, path)
	if _, err := e.run(ctx, args...); err != nil {
		return err
	}
	return nil
}

func (e *ExifTool) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, e.binPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "exif: exiftool failed for %s: %s", args[len(args)-1], strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// gpsArgs renders tag assignments. Numeric values use exiftool's '#' suffix
// to bypass print conversion.
func gpsArgs(tag GPSTag) []string {
	args := []string{
		fmt.Sprintf("-GPSVersionID#=%d %d %d %d", tag.VersionID[0], tag.VersionID[1], tag.VersionID[2], tag.VersionID[3]),
		"-GPSLatitude#=" + formatDMS(tag.Latitude),
		"-GPSLatitudeRef=" + tag.LatitudeRef,
		"-GPSLongitude#=" + formatDMS(tag.Longitude),
		"-GPSLongitudeRef=" + tag.LongitudeRef,
	}
	if tag.Altitude != nil {
		args = append(args,
			"-GPSAltitude#="+strconv.FormatFloat(*tag.Altitude, 'f', -1, 64),
			"-GPSAltitudeRef#="+strconv.Itoa(int(tag.AltitudeRef)),
		)
	}
	return append(args,
		fmt.Sprintf("-GPSTimeStamp#=%d %d %d", tag.TimeStamp[0], tag.TimeStamp[1], tag.TimeStamp[2]),
		"-GPSDateStamp="+tag.DateStamp,
	)
}

func formatDMS(d DMS) string {
	return fmt.Sprintf("%d %d %s", d.Degrees, d.Minutes, strconv.FormatFloat(d.Seconds, 'f', -1, 64))
}
