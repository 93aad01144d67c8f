package model

// Page owns all primitives decoded for one physical page, plus the derived
// sets the reconstruction passes work on. The bounding box is fixed at decode
// time; the derived fields are filled by the geometry classifier and the
// region assembler.
type Page struct {
	Index      int  // 0-based position in the document
	Number     int  // printed page number from the footer, 0 until extracted
	BBox       BBox // page bounds in decoder coordinates
	Primitives []Primitive

	// Header and footer fields. Protocol name/version are present on the
	// first page only.
	PatientID       string
	ProtocolName    string
	ProtocolVersion string
	ExportDate      string // ISO yyyy-mm-dd
	ExportUser      string

	// Classified geometry (geometry.Classifier).
	Lines      []Line      // all visible lines, including oblique artifacts
	HLines     []Line      // horizontal lines sorted by left x
	VLines     []Line      // vertical lines sorted by top y
	Rectangles []Primitive // visible, non-line-like rectangles
	TextBoxes  []Primitive // text boxes in reading order (top of page first)
	Text       []TextLine  // text lines flattened in text-box order

	// Reconstructed regions (regions.Assembler). Visits and records are
	// siblings: a visit header may visually precede a record without
	// containing it.
	Visits  []*Visit
	Records []*Record
}

// NewPage creates a page with the given decoder bounds.
func NewPage(index int, bbox BBox) *Page {
	return &Page{
		Index: index,
		BBox:  bbox,
	}
}

// TextInBox returns the page's text lines whose vertical midpoint falls
// strictly inside the box, preserving text-box order. This is the narrowing
// operation all field extraction starts from; it never mutates primitives.
func (p *Page) TextInBox(bbox BBox) []TextLine {
	var out []TextLine
	for _, tl := range p.Text {
		if bbox.ContainsMidY(tl.BBox) {
			out = append(out, tl)
		}
	}
	return out
}

// TextBoxesBetween returns text boxes lying strictly between the two
// vertical bounds.
func (p *Page) TextBoxesBetween(yLow, yHigh float64) []Primitive {
	var out []Primitive
	for _, tb := range p.TextBoxes {
		if tb.BBox.Y1 < yHigh && tb.BBox.Y0 > yLow {
			out = append(out, tb)
		}
	}
	return out
}
