package photos

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):?(\d{2})$`)

// LoadTimezone resolves the zone photo capture times are recorded in. It
// accepts IANA names ("Europe/London"), "UTC" or "Z", and fixed offsets such
// as "+01:00" or "-0530".
func LoadTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	switch strings.ToUpper(name) {
	case "", "UTC", "Z":
		return time.UTC, nil
	}

	if m := offsetPattern.FindStringSubmatch(name); m != nil {
		hours, _ := strconv.Atoi(m[2])
		mins, _ := strconv.Atoi(m[3])
		if hours > 14 || mins > 59 {
			return nil, eris.Errorf("photos: timezone offset %q out of range", name)
		}
		secs := hours*3600 + mins*60
		if m[1] == "-" {
			secs = -secs
		}
		return time.FixedZone(name, secs), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, eris.Wrapf(err, "photos: load timezone %q", name)
	}
	return loc, nil
}
