package regions

import (
	"sort"
	"strings"
	"testing"

	"github.com/tsawler/kurve/config"
	"github.com/tsawler/kurve/diag"
	"github.com/tsawler/kurve/model"
)

func blackMarker(x0, y0 float64) model.Primitive {
	return model.Primitive{
		Kind:      model.KindRect,
		BBox:      model.NewBBox(x0, y0, x0+14, y0+12),
		Fill:      true,
		FillColor: model.Gray(0),
	}
}

func grayBar(y0 float64) model.Primitive {
	return model.Primitive{
		Kind:      model.KindRect,
		BBox:      model.NewBBox(40, y0, 560, y0+14),
		Fill:      true,
		FillColor: model.Gray(0.82),
	}
}

// textBox builds a single-line text box at the given position.
func textBox(text string, x0, y0 float64) model.Primitive {
	bbox := model.NewBBox(x0, y0, x0+8*float64(len(text)), y0+10)
	return model.Primitive{
		Kind:  model.KindTextBox,
		BBox:  bbox,
		Lines: []model.TextLine{{Text: text, BBox: bbox}},
	}
}

// buildPage assembles a page fixture with derived sets populated the way the
// geometry classifier would.
func buildPage(rects []model.Primitive, boxes []model.Primitive) *model.Page {
	page := model.NewPage(0, model.NewBBox(0, 0, 595, 842))
	page.Number = 1
	page.Rectangles = rects

	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].BBox.Y1 > boxes[j].BBox.Y1
	})
	page.TextBoxes = boxes
	for _, tb := range boxes {
		page.Text = append(page.Text, tb.Lines...)
	}
	return page
}

// recordPair places a record marker pair whose upper marker top edge is at y.
func recordPair(y float64) []model.Primitive {
	return []model.Primitive{
		blackMarker(46, y-12), // upper, y0 = y-12
		blackMarker(46, y-24), // lower, y0 = y-24
	}
}

func TestAssembleVisitBoxFromPair(t *testing.T) {
	a := New(config.DefaultTemplate(), nil)
	page := buildPage([]model.Primitive{grayBar(300), grayBar(320)}, nil)

	if err := a.Assemble("chart.json", page); err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if len(page.Visits) != 1 {
		t.Fatalf("expected 1 visit, got %d", len(page.Visits))
	}

	v := page.Visits[0]
	want := model.NewBBox(40, 300, 560, 334)
	if v.BBox != want {
		t.Errorf("visit box = %+v, want %+v", v.BBox, want)
	}
	if v.Page != page {
		t.Error("visit must back-reference its page")
	}
}

func TestAssembleLastRecordEndsAtPageBottomSentinel(t *testing.T) {
	a := New(config.DefaultTemplate(), nil)
	page := buildPage(recordPair(700), nil)

	if err := a.Assemble("chart.json", page); err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if len(page.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(page.Records))
	}

	r := page.Records[0]
	// Starts at the upper marker's top-left, ends at the page-bottom
	// sentinel and the fixed record width.
	want := model.NewBBox(46, 70, 553, 700)
	if r.BBox != want {
		t.Errorf("record box = %+v, want %+v", r.BBox, want)
	}
}

func TestAssembleRecordEndsAboveNextRecord(t *testing.T) {
	a := New(config.DefaultTemplate(), nil)
	rects := append(recordPair(700), recordPair(400)...)
	page := buildPage(rects, nil)

	if err := a.Assemble("chart.json", page); err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if len(page.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(page.Records))
	}

	upper, lower := page.Records[0], page.Records[1]
	// The next pair's lower marker tops out at 400-12=388; the boundary sits
	// the pre-record gap below the record start, i.e. at 388+20.
	if upper.BBox.Y0 != 408 {
		t.Errorf("upper record bottom = %v, want 408", upper.BBox.Y0)
	}
	if lower.BBox.Y0 != 70 {
		t.Errorf("lower record bottom = %v, want page sentinel 70", lower.BBox.Y0)
	}
	if upper.BBox.Y0 <= lower.BBox.Y1 {
		t.Error("records must not overlap vertically")
	}
}

func TestAssembleVisitHeaderPullsRecordBoundaryUp(t *testing.T) {
	a := New(config.DefaultTemplate(), nil)
	rects := append(recordPair(700), grayBar(300), grayBar(320))
	page := buildPage(rects, nil)

	if err := a.Assemble("chart.json", page); err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	r := page.Records[0]

	// Tentative end was the page sentinel (70), but the visit block topping
	// out at 334 lies between it and the record start, so the boundary is
	// pulled up to just above the visit.
	if r.BBox.Y0 != 344 {
		t.Errorf("record bottom = %v, want 344 (visit top 334 + gap 10)", r.BBox.Y0)
	}
	if r.BBox.X1 != 560 {
		t.Errorf("record right edge = %v, want visit right edge 560", r.BBox.X1)
	}
}

func TestAssembleMarkerOrderViolationFailsFast(t *testing.T) {
	a := New(config.DefaultTemplate(), nil)
	// Two markers at the same height cannot form a top/bottom pair.
	page := buildPage([]model.Primitive{blackMarker(46, 500), blackMarker(70, 500)}, nil)

	err := a.Assemble("chart.json", page)
	if err == nil {
		t.Fatal("expected structural error for out-of-order marker pair")
	}
	if !strings.Contains(err.Error(), "chart.json") || !strings.Contains(err.Error(), "page 1") {
		t.Errorf("error must locate the offending page: %v", err)
	}
}

func TestAssembleEntriesWithinRecord(t *testing.T) {
	a := New(config.DefaultTemplate(), nil)

	boxes := []model.Primitive{
		textBox("Med. Nr.:  12345", 400, 600),
		textBox("09:00 - 10:30", 50, 600),
		textBox("Intravenöse Infusion Cisplatin", 120, 560),
		textBox("Med. Nr.:  12346", 400, 400),
		textBox("11:00", 50, 400),
	}
	page := buildPage(recordPair(700), boxes)

	if err := a.Assemble("chart.json", page); err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	rec := page.Records[0]
	if len(rec.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(rec.Entries))
	}

	first, second := rec.Entries[0], rec.Entries[1]
	if first.Anchor.Timestamp.Text != "09:00 - 10:30" {
		t.Errorf("first entry paired with timestamp %q", first.Anchor.Timestamp.Text)
	}
	if second.Anchor.Timestamp.Text != "11:00" {
		t.Errorf("second entry paired with timestamp %q", second.Anchor.Timestamp.Text)
	}

	// The union of entry boxes stays inside the record, and entries do not
	// overlap vertically.
	union := first.BBox.Union(second.BBox)
	if !rec.BBox.ContainsBox(union) {
		t.Errorf("entry union %+v escapes record box %+v", union, rec.BBox)
	}
	if second.BBox.Y1 > first.BBox.Y0 {
		t.Errorf("entries overlap: first bottom %v, second top %v", first.BBox.Y0, second.BBox.Y1)
	}
}

func TestAssembleAnchorWithoutTimestampIsSkippedLoudly(t *testing.T) {
	obs := &captureObs{}
	a := New(config.DefaultTemplate(), obs)

	boxes := []model.Primitive{
		textBox("Med. Nr.:  99999", 400, 600),
		textBox("nur ein Kommentar", 50, 640), // above the timestamp band
	}
	page := buildPage(recordPair(700), boxes)

	if err := a.Assemble("chart.json", page); err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if n := len(page.Records[0].Entries); n != 0 {
		t.Fatalf("expected no entries, got %d", n)
	}

	found := false
	for _, e := range obs.events {
		if e.Level == diag.Error && strings.Contains(e.Message, "no timestamp") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing timestamp must be surfaced, events: %+v", obs.events)
	}
}

type captureObs struct {
	events []diag.Event
}

func (c *captureObs) Event(e diag.Event) {
	c.events = append(c.events, e)
}
