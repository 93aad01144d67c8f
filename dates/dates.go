// Package dates parses and formats the German display dates printed in
// record headers, e.g. "Mo, 15. Jan 2024". The forms use German weekday and
// month abbreviations, so parsing goes through a de_DE-aware calendar rather
// than the standard time package.
package dates

import (
	"strings"
	"time"

	"github.com/goodsign/monday"
)

// Layout is the reference layout of the record-header display date.
const Layout = "Mon, 02. Jan 2006"

// Parse converts a German display date to a time.Time in the local zone.
func Parse(text string) (time.Time, error) {
	return monday.ParseInLocation(Layout, strings.TrimSpace(text), time.Local, monday.LocaleDeDE)
}

// Format renders a time back into the German display form.
func Format(t time.Time) string {
	return monday.Format(t, Layout, monday.LocaleDeDE)
}
