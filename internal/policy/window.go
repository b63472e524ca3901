package policy

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is the zone suppression hours are read in.
const DefaultTimezone = "Asia/Shanghai"

// Window is a half-open hour range [Start, End). Start < End is not enforced;
// an inverted or empty window simply never suppresses.
type Window struct {
	Start int
	End   int
}

// IsSuppressed reports whether hour falls inside the window.
func IsSuppressed(hour int, w Window) bool {
	return w.Start <= hour && hour < w.End
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d)", w.Start, w.End)
}

// ParseWindow parses "start,end".
func ParseWindow(value string) (Window, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("window %q: want \"start,end\"", value)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Window{}, fmt.Errorf("window %q: start hour: %w", value, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Window{}, fmt.Errorf("window %q: end hour: %w", value, err)
	}
	return Window{Start: start, End: end}, nil
}

// ParseWindowOr parses value and falls back to def when it is malformed.
func ParseWindowOr(value string, def Window) Window {
	w, err := ParseWindow(value)
	if err != nil {
		slog.Warn("malformed time window, using default", "value", value, "default", def.String(), "error", err)
		return def
	}
	return w
}

// LoadLocation resolves a timezone name. If the zone database has no entry for
// it, a fixed UTC+8 zone is returned.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Error("unable to load timezone, falling back to UTC+8", "timezone", name, "error", err)
		return time.FixedZone("UTC+8", 8*60*60)
	}
	return loc
}

// CurrentHour returns the hour of now in loc, 0-23.
func CurrentHour(now time.Time, loc *time.Location) int {
	return now.In(loc).Hour()
}
