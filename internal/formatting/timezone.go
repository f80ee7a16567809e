package formatting

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
)

// DisplayLayout is the layout of every rendered occurrence. ParseWallClock accepts it back.
const DisplayLayout = "Mon, 02 Jan 2006 15:04 MST"

// ErrUnknownTimezone the timezone id could not be loaded
var ErrUnknownTimezone = errors.New("formatting: unknown timezone")

var locations sync.Map // tz id -> *time.Location

// LoadLocation resolves an IANA timezone id, caching successful lookups
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return nil, fmt.Errorf("%w: empty id", ErrUnknownTimezone)
	}
	if cached, ok := locations.Load(tz); ok {
		return cached.(*time.Location), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownTimezone, tz, err)
	}
	locations.Store(tz, loc)
	return loc, nil
}

// FormatInZone renders an instant as wall-clock time in tz with the zone abbreviation
func FormatInZone(t time.Time, tz string) (string, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(DisplayLayout), nil
}

// FormatClientOnly renders the occurrence in the viewer's own timezone only.
// The counterpart (authoring) zone never appears in the output.
// An empty viewerTZ falls back to the occurrence viewer, then to the authoring zone.
func FormatClientOnly(occ domain.ScheduledOccurrence, viewerTZ string) (string, error) {
	return FormatInZone(occ.At, resolveViewer(occ, viewerTZ))
}

// FormatDual renders the occurrence in the authoring zone and, when the viewer zone
// differs from it, appends the viewer's wall clock, e.g.
// "Mon, 06 Jan 2025 18:30 CET (12:30 EST your time)".
// Zones are compared by id, so two aliases of the same zone are shown as different.
func FormatDual(occ domain.ScheduledOccurrence, viewerTZ string) (string, error) {
	viewer := resolveViewer(occ, viewerTZ)

	authoring, err := FormatInZone(occ.At, occ.AuthoringTimezone)
	if err != nil {
		return "", err
	}
	if viewer == occ.AuthoringTimezone {
		return authoring, nil
	}

	authoringLoc, err := LoadLocation(occ.AuthoringTimezone)
	if err != nil {
		return "", err
	}
	viewerLoc, err := LoadLocation(viewer)
	if err != nil {
		return "", err
	}

	local := occ.At.In(viewerLoc)
	layout := "15:04 MST"
	if !sameDate(occ.At.In(authoringLoc), local) {
		layout = DisplayLayout
	}
	return fmt.Sprintf("%s (%s your time)", authoring, local.Format(layout)), nil
}

// ParseWallClock parses a string produced in DisplayLayout back into an instant in tz
func ParseWallClock(s, tz string) (time.Time, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(DisplayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("formatting: parse %q: %w", s, err)
	}
	return t, nil
}

// Abbreviation returns the zone abbreviation in effect at t
func Abbreviation(t time.Time, tz string) (string, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return "", err
	}
	name, _ := t.In(loc).Zone()
	return name, nil
}

func resolveViewer(occ domain.ScheduledOccurrence, viewerTZ string) string {
	if viewerTZ != "" {
		return viewerTZ
	}
	if occ.HasViewer() {
		return occ.ViewerTimezone
	}
	return occ.AuthoringTimezone
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
