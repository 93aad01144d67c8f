// Package render draws a page's classified geometry and reconstructed
// regions into a PNG for visual review: drawn lines in gray, visit blocks in
// green, record markers in red, record boxes in yellow, entry boxes in
// purple. Page coordinates have the origin bottom-left, so everything is
// flipped vertically into image space.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/kurve/model"
)

var (
	lineGray  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	visitTint = color.RGBA{G: 0x80, A: 0x30}
	markerRed = color.RGBA{R: 0xff, A: 0x40}
	recordYel = color.RGBA{R: 0xff, G: 0xff, A: 0x28}
	entryPurp = color.RGBA{R: 0x80, B: 0x80, A: 0x28}
	labelInk  = color.RGBA{A: 0xff}
)

// Renderer rasterizes pages at a fixed scale.
type Renderer struct {
	scale float64
}

// New creates a renderer. Scale is pixels per page point; values below 1 are
// raised to 1.
func New(scale float64) *Renderer {
	if scale < 1 {
		scale = 1
	}
	return &Renderer{scale: scale}
}

// WritePNG renders one page into w.
func (r *Renderer) WritePNG(w io.Writer, page *model.Page) error {
	width := int(page.BBox.Width() * r.scale)
	height := int(page.BBox.Height() * r.scale)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("page %d has degenerate bounds %+v", page.Number, page.BBox)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for _, ln := range page.HLines {
		r.strokeLine(img, page, ln)
	}
	for _, ln := range page.VLines {
		r.strokeLine(img, page, ln)
	}

	for _, v := range page.Visits {
		r.tintBox(img, page, v.BBox, visitTint)
	}
	for _, rec := range page.Records {
		r.tintBox(img, page, rec.Anchor.Open.BBox, markerRed)
		r.tintBox(img, page, rec.Anchor.Close.BBox, markerRed)
		r.tintBox(img, page, rec.BBox, recordYel)
		for _, e := range rec.Entries {
			r.tintBox(img, page, e.BBox, entryPurp)
		}
	}

	r.label(img, 4, 14, fmt.Sprintf("Seite %d", page.Number))

	return png.Encode(w, img)
}

// toImage converts a page point into image pixels, flipping the y axis.
func (r *Renderer) toImage(page *model.Page, x, y float64) (int, int) {
	px := int((x - page.BBox.X0) * r.scale)
	py := int((page.BBox.Y1 - y) * r.scale)
	return px, py
}

func (r *Renderer) strokeLine(img *image.RGBA, page *model.Page, ln model.Line) {
	x0, y0 := r.toImage(page, ln.Start.X, ln.Start.Y)
	x1, y1 := r.toImage(page, ln.End.X, ln.End.Y)

	// Classified lines are axis-aligned; obliques never reach the oriented
	// sets, so a two-branch rasterizer covers everything drawn here.
	switch {
	case y0 == y1:
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		for x := x0; x <= x1; x++ {
			setIfInside(img, x, y0, lineGray)
		}
	default:
		if y1 < y0 {
			y0, y1 = y1, y0
		}
		for y := y0; y <= y1; y++ {
			setIfInside(img, x0, y, lineGray)
		}
	}
}

func (r *Renderer) tintBox(img *image.RGBA, page *model.Page, b model.BBox, tint color.RGBA) {
	x0, y1 := r.toImage(page, b.X0, b.Y0)
	x1, y0 := r.toImage(page, b.X1, b.Y1)
	rect := image.Rect(x0, y0, x1, y1).Intersect(img.Bounds())
	src := image.NewUniform(tint)
	draw.Draw(img, rect, src, image.Point{}, draw.Over)
}

func (r *Renderer) label(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelInk),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}
