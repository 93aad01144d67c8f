// Package geometry normalizes raw decoded primitives into the typed sets the
// structural passes work on: oriented visible lines, visible rectangles, and
// text lines. The visible geometry is what the heuristics were tuned on;
// there is plenty of structure in the white/invisible pool, but it is not
// consulted.
package geometry

import (
	"sort"

	"github.com/tsawler/kurve/config"
	"github.com/tsawler/kurve/model"
)

// Classified holds the classifier's output for one page.
type Classified struct {
	// Lines are all visible drawn lines, including reclassified thin
	// rectangles and oblique artifacts.
	Lines []model.Line

	// HLines are the horizontal lines sorted by left x.
	HLines []model.Line

	// VLines are the vertical lines sorted by top y.
	VLines []model.Line

	// Rectangles are the visible rectangles that were not line-like.
	Rectangles []model.Primitive

	// TextBoxes are the text boxes sorted top-down by their top edge.
	TextBoxes []model.Primitive

	// Text are the text lines flattened in text-box order.
	Text []model.TextLine
}

// Classifier turns a page's primitives into classified geometry.
type Classifier struct {
	tpl config.Template
}

// New creates a classifier for the given template.
func New(tpl config.Template) *Classifier {
	return &Classifier{tpl: tpl}
}

// Classify splits primitives into visible lines, rectangles, and text lines.
// Rectangles whose shorter side is below the template's line-width threshold
// are moved into the line set exactly once; the decoder represents some thin
// separators as degenerate rectangles instead of line primitives.
func (c *Classifier) Classify(prims []model.Primitive) Classified {
	var out Classified

	for _, p := range prims {
		switch p.Kind {
		case model.KindLine:
			if !p.StrokeColor.Visible() {
				continue
			}
			out.Lines = append(out.Lines, c.asLine(p))

		case model.KindRect:
			if !p.FillColor.Visible() {
				continue
			}
			if c.isLineLike(p) {
				out.Lines = append(out.Lines, c.asLine(p))
			} else {
				out.Rectangles = append(out.Rectangles, p)
			}

		case model.KindTextBox:
			out.TextBoxes = append(out.TextBoxes, p)
		}
	}

	for _, ln := range out.Lines {
		switch ln.Orientation {
		case model.Horizontal:
			out.HLines = append(out.HLines, ln)
		case model.Vertical:
			out.VLines = append(out.VLines, ln)
		}
		// Oblique lines stay in Lines only; they are drawing artifacts.
	}
	sort.Slice(out.HLines, func(i, j int) bool {
		return out.HLines[i].Start.X < out.HLines[j].Start.X
	})
	sort.Slice(out.VLines, func(i, j int) bool {
		return out.VLines[i].End.Y < out.VLines[j].End.Y
	})

	// Top of page first: downstream scans that take the first matching line
	// (timestamp adjacency, role labels) rely on reading order.
	sort.SliceStable(out.TextBoxes, func(i, j int) bool {
		return out.TextBoxes[i].BBox.Y1 > out.TextBoxes[j].BBox.Y1
	})
	for _, tb := range out.TextBoxes {
		out.Text = append(out.Text, tb.Lines...)
	}

	return out
}

// ClassifyPage classifies a page's primitives and stores the derived sets on
// the page.
func (c *Classifier) ClassifyPage(p *model.Page) {
	cl := c.Classify(p.Primitives)
	p.Lines = cl.Lines
	p.HLines = cl.HLines
	p.VLines = cl.VLines
	p.Rectangles = cl.Rectangles
	p.TextBoxes = cl.TextBoxes
	p.Text = cl.Text
}

// isLineLike reports whether a rectangle is thin enough to be a drawn line.
func (c *Classifier) isLineLike(p model.Primitive) bool {
	w := p.BBox.Width()
	h := p.BBox.Height()
	if w < h {
		return w < c.tpl.LineWidthThreshold
	}
	return h < c.tpl.LineWidthThreshold
}

// asLine reduces a primitive to an oriented line between the bounding box
// corners. The orientation is banded rather than exact: drawn lines carry
// sub-pixel wobble.
func (c *Classifier) asLine(p model.Primitive) model.Line {
	ln := model.Line{
		Start: model.Point{X: p.BBox.X0, Y: p.BBox.Y0},
		End:   model.Point{X: p.BBox.X1, Y: p.BBox.Y1},
		Color: p.StrokeColor,
	}
	ln.Orientation = c.orient(ln)
	return ln
}

func (c *Classifier) orient(ln model.Line) model.Orientation {
	a := 2 * ln.Angle()
	switch {
	case a < c.tpl.HorizontalBand:
		return model.Horizontal
	case a > c.tpl.VerticalBand:
		return model.Vertical
	default:
		return model.Oblique
	}
}
