// Package photos finds photos in a directory and geotags them against a
// location timeline.
package photos

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoPhotos is returned by Scan when the directory holds no matching files.
var ErrNoPhotos = eris.New("photos: no photos found")

// DefaultExtensions are scanned when none are configured.
var DefaultExtensions = []string{"jpg", "jpeg", "png"}

// Scan lists the files directly inside dir whose extension is one of
// extensions, compared case-insensitively. Subdirectories are not descended.
// Paths are returned sorted by file name.
func Scan(dir string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[normalizeExt(ext)] = struct{}{}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "photos: read dir %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if _, ok := allowed[normalizeExt(filepath.Ext(e.Name()))]; !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		// Stat follows symlinks.
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return nil, eris.Wrapf(ErrNoPhotos, "photos: scan %s", dir)
	}
	return paths, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
