// Package exif reads capture times from photos and writes GPS tags back.
package exif

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/geotagger/internal/config"
)

// ErrNoCaptureTime is returned when a photo carries no DateTimeOriginal tag.
var ErrNoCaptureTime = eris.New("exif: no capture time")

// Reader reads the raw DateTimeOriginal value of a photo.
type Reader interface {
	CaptureTime(ctx context.Context, path string) (string, error)
}

// Writer writes GPS tags into a photo in place.
type Writer interface {
	WriteGPS(ctx context.Context, path string, tag GPSTag) error
}

// ReadWriter reads capture times and writes GPS tags.
type ReadWriter interface {
	Reader
	Writer
}

// NewReadWriter creates a ReadWriter based on config.
func NewReadWriter(cfg config.ExifConfig) (ReadWriter, error) {
	switch cfg.Provider {
	case "exiftool", "":
		return NewExifTool(cfg.ExifToolPath), nil
	default:
		return nil, eris.Errorf("exif: unknown provider %q", cfg.Provider)
	}
}
