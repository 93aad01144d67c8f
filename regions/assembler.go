// Package regions converts marker pairs into the nested region tree of a
// page: visit blocks, record blocks, and the entry rows within each record.
//
// The obvious alternative — following the drawn bounding lines — fails on
// real documents because some lines decode as inconsistently stroked
// rectangles, so the assembler trusts only the markers and a handful of
// template gap constants.
package regions

import (
	"fmt"
	"regexp"

	"github.com/tsawler/kurve/config"
	"github.com/tsawler/kurve/diag"
	"github.com/tsawler/kurve/markers"
	"github.com/tsawler/kurve/model"
)

var (
	medNrRe    = regexp.MustCompile(`Med\. Nr\.:\s+(\d+)`)
	timeSpanRe = regexp.MustCompile(`\d{1,2}:\d{2}\s-\s\d{2}:\d{2}`)
	timeRe     = regexp.MustCompile(`\d{1,2}:\d{2}`)
)

// Assembler builds the region tree for classified pages.
type Assembler struct {
	tpl config.Template
	det *markers.Detector
	obs diag.Observer
}

// New creates an assembler for the given template.
func New(tpl config.Template, obs diag.Observer) *Assembler {
	if obs == nil {
		obs = diag.Nop()
	}
	return &Assembler{
		tpl: tpl,
		det: markers.New(tpl, obs),
		obs: obs,
	}
}

// Assemble partitions a classified page into visit and record regions,
// locates the entry anchors within each record, and stores the results on
// the page. The returned error is structural: the decoder's geometry violated
// the marker ordering the whole layout assumption rests on, and the document
// cannot be trusted past it.
func (a *Assembler) Assemble(document string, page *model.Page) error {
	page.Visits = a.visits(document, page)

	records, err := a.records(document, page)
	if err != nil {
		return err
	}
	page.Records = records
	return nil
}

// visits builds one region per visit marker pair. Visits have no internal
// structure beyond the pair's own geometry; they exist so records can keep
// interleaved visit headers out of their boxes.
func (a *Assembler) visits(document string, page *model.Page) []*model.Visit {
	pairs := a.det.FindVisit(page, document)

	visits := make([]*model.Visit, 0, len(pairs))
	for _, pr := range pairs {
		visits = append(visits, &model.Visit{
			Anchor: pr,
			BBox:   model.NewBBox(pr.Open.BBox.X0, pr.Open.BBox.Y0, pr.Close.BBox.X1, pr.Close.BBox.Y1),
			Page:   page,
		})
	}
	return visits
}

// records builds one region per record marker pair, top of page first. A
// record starts at the top-left of its marker pair and runs down to, in
// priority order: just above the next record pair, the page-bottom sentinel,
// or just above an interleaved visit block.
func (a *Assembler) records(document string, page *model.Page) ([]*model.Record, error) {
	pairs := a.det.FindRecord(page, document)

	recs := make([]*model.Record, 0, len(pairs))
	for i, pr := range pairs {
		if pr.Open.BBox.Y0 <= pr.Close.BBox.Y0 {
			return nil, fmt.Errorf("record marker pair out of order on page %d of %s: open y0 %.1f below close y0 %.1f",
				page.Number, document, pr.Open.BBox.Y0, pr.Close.BBox.Y0)
		}

		startX, startY := pr.Open.BBox.X0, pr.Open.BBox.Y1
		endX := a.tpl.RecordWidth
		var endY float64
		if i+1 == len(pairs) {
			endY = a.tpl.PrePageEndGap
		} else {
			endY = pairs[i+1].Close.BBox.Y1 + a.tpl.PreRecordGap
		}

		// A visit header interleaved between this record's start and its
		// tentative end would be misread as record content; pull the lower
		// boundary up to just above it.
		for _, v := range page.Visits {
			if endY < v.BBox.Y1 && v.BBox.Y1 < startY {
				endX = v.BBox.X1
				endY = v.BBox.Y1 + a.tpl.PreVisitGap
				break
			}
		}

		rec := &model.Record{
			Anchor: pr,
			BBox:   model.NewBBox(startX, startY, endX, endY),
			Page:   page,
		}
		rec.Entries = a.entries(document, page, rec)
		recs = append(recs, rec)
	}
	return recs, nil
}

// entries locates the entry anchors inside a record and spans entry boxes
// between consecutive anchors. An anchor is a "Med. Nr." line verified by an
// adjoining timestamp line.
func (a *Assembler) entries(document string, page *model.Page, rec *model.Record) []*model.Entry {
	recText := a.recordText(page, rec)

	var anchors []model.EntryAnchor
	for _, tl := range recText {
		if !medNrRe.MatchString(tl.Text) {
			continue
		}

		ts, ok := a.findTimestamp(recText, tl)
		if !ok {
			// Rarely an entry carries nothing but a short comment and a
			// Med. Nr.; unclear what that indicates, so it is skipped loudly.
			a.obs.Event(diag.Event{
				Level:    diag.Error,
				Message:  fmt.Sprintf("no timestamp found for anchor %q", tl.Text),
				Document: document,
				Page:     page.Number,
			})
			continue
		}
		anchors = append(anchors, model.EntryAnchor{Timestamp: ts, MedItem: tl})
	}

	entries := make([]*model.Entry, 0, len(anchors))
	for i, an := range anchors {
		top := anchorTop(an) + a.tpl.EntryTopPad
		var bottom float64
		if i+1 < len(anchors) {
			bottom = anchorTop(anchors[i+1]) + a.tpl.EntryBottomPad
		} else {
			bottom = rec.BBox.Y0
		}
		entries = append(entries, &model.Entry{
			Anchor: an,
			BBox:   model.NewBBox(rec.BBox.X0, bottom, rec.BBox.X1, top),
			Page:   page,
		})
	}
	return entries
}

// recordText returns the text lines of the text boxes lying strictly inside
// the record's vertical span.
func (a *Assembler) recordText(page *model.Page, rec *model.Record) []model.TextLine {
	var out []model.TextLine
	for _, tb := range page.TextBoxesBetween(rec.BBox.Y0, rec.BBox.Y1) {
		out = append(out, tb.Lines...)
	}
	return out
}

// findTimestamp looks for the timestamp line adjoining a "Med. Nr." anchor:
// the first line starting within the timestamp band below the anchor that
// carries either a "start - end" span or a bare time.
func (a *Assembler) findTimestamp(lines []model.TextLine, med model.TextLine) (model.TextLine, bool) {
	for _, tl := range lines {
		if tl.BBox.Y0-med.BBox.Y0 >= a.tpl.TimestampBand {
			continue
		}
		if timeSpanRe.MatchString(tl.Text) || timeRe.MatchString(tl.Text) {
			return tl, true
		}
	}
	return model.TextLine{}, false
}

// anchorTop is the highest y of the anchor pair's two lines.
func anchorTop(an model.EntryAnchor) float64 {
	top := an.Timestamp.BBox.Y1
	for _, y := range []float64{an.Timestamp.BBox.Y0, an.MedItem.BBox.Y0, an.MedItem.BBox.Y1} {
		if y > top {
			top = y
		}
	}
	return top
}
