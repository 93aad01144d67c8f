// Package markers scans a page's visible rectangles for the two structural
// marker families and pairs consecutive matches into the bracketing tuples
// the region assembler builds boxes from.
//
// Visit-section markers are wide medium-gray bars; record markers are small
// solid-black squares that appear as one block to the eye but decode as two
// rectangles. The two families are mutually exclusive by fill intensity, and
// each potentially delimits the other.
package markers

import (
	"fmt"
	"sort"

	"github.com/tsawler/kurve/config"
	"github.com/tsawler/kurve/diag"
	"github.com/tsawler/kurve/model"
)

// Detector finds and pairs structural markers.
type Detector struct {
	tpl config.Template
	obs diag.Observer
}

// New creates a detector for the given template.
func New(tpl config.Template, obs diag.Observer) *Detector {
	if obs == nil {
		obs = diag.Nop()
	}
	return &Detector{tpl: tpl, obs: obs}
}

// FindVisit returns the visit marker pairs on a page, in top-down reading
// order. Visit markers match the medium-gray band and the minimum width; they
// are sorted by lower y ascending before pairing.
func (d *Detector) FindVisit(page *model.Page, document string) []model.Pair {
	var matches []model.Primitive
	for _, r := range page.Rectangles {
		i := r.FillColor.Intensity()
		if i > d.tpl.VisitFillMin && i < d.tpl.VisitFillMax && r.BBox.Width() > d.tpl.VisitMinWidth {
			matches = append(matches, r)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].BBox.Y0 < matches[j].BBox.Y0
	})

	return d.pair(matches, "visit", document, page.Number)
}

// FindRecord returns the record marker pairs on a page. Record markers are
// solid black above the minimum square size; they are sorted by lower y
// descending (top of page first) so that each pair's open trailing boundary
// can later be resolved against the pair above it.
func (d *Detector) FindRecord(page *model.Page, document string) []model.Pair {
	var matches []model.Primitive
	for _, r := range page.Rectangles {
		if r.FillColor.Intensity() == d.tpl.RecordFill &&
			r.BBox.Width() > d.tpl.RecordMinWidth &&
			r.BBox.Height() > d.tpl.RecordMinHeight {
			matches = append(matches, r)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].BBox.Y0 > matches[j].BBox.Y0
	})

	return d.pair(matches, "record", document, page.Number)
}

// pair groups consecutive matches two-at-a-time into open/close tuples. An
// odd match count means one marker of a pair escaped detection; the dangling
// marker is dropped but surfaced, never silently.
func (d *Detector) pair(matches []model.Primitive, kind, document string, page int) []model.Pair {
	if len(matches)%2 != 0 {
		d.obs.Event(diag.Event{
			Level:    diag.Warn,
			Message:  fmt.Sprintf("odd number of %s markers (%d); dropping the dangling one", kind, len(matches)),
			Document: document,
			Page:     page,
		})
	}

	pairs := make([]model.Pair, 0, len(matches)/2)
	for i := 0; i+1 < len(matches); i += 2 {
		pairs = append(pairs, model.Pair{Open: matches[i], Close: matches[i+1]})
	}
	return pairs
}
