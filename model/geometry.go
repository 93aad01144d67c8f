package model

import "math"

// Point represents a 2D point in page coordinates (origin bottom-left)
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents a bounding box (rectangle) in corner form. (X0,Y0) is the
// lower-left corner and (X1,Y1) the upper-right corner, matching the page
// coordinate system the layout decoder emits.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// NewBBox creates a bounding box from two corner coordinates, normalizing
// them so that X0 <= X1 and Y0 <= Y1. Region construction frequently starts
// from a top corner and scans downward, so callers must not rely on argument
// order being preserved.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: (b.X0 + b.X1) / 2,
		Y: (b.Y0 + b.Y1) / 2,
	}
}

// MidY returns the vertical midpoint. Text lines are assigned to regions by
// whether their MidY falls inside the region box.
func (b BBox) MidY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.X0 && p.X <= b.X1 &&
		p.Y >= b.Y0 && p.Y <= b.Y1
}

// ContainsMidY reports whether the vertical midpoint of other lies strictly
// between this box's bottom and top edges.
func (b BBox) ContainsMidY(other BBox) bool {
	mid := other.MidY()
	return b.Y0 < mid && mid < b.Y1
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.X1 < other.X0 ||
		b.X0 > other.X1 ||
		b.Y1 < other.Y0 ||
		b.Y0 > other.Y1)
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// ContainsBox reports whether other lies entirely within this box.
func (b BBox) ContainsBox(other BBox) bool {
	return other.X0 >= b.X0 && other.X1 <= b.X1 &&
		other.Y0 >= b.Y0 && other.Y1 <= b.Y1
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Orientation tags a classified line as horizontal, vertical, or neither.
type Orientation int

const (
	Oblique Orientation = iota
	Horizontal
	Vertical
)

// String returns a string representation of the orientation
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "oblique"
	}
}

// Line is a drawn separator reduced to two endpoints with an orientation tag.
// Drawn lines have sub-pixel wobble, so the orientation is derived from an
// angle band, not exact equality.
type Line struct {
	Start       Point
	End         Point
	Orientation Orientation
	Color       Color
}

// Angle returns atan2(dy, dx) normalized by pi, the quantity the orientation
// bands are defined over.
func (l Line) Angle() float64 {
	return math.Atan2(l.End.Y-l.Start.Y, l.End.X-l.Start.X) / math.Pi
}

// BBox returns the bounding box spanned by the line's endpoints.
func (l Line) BBox() BBox {
	return NewBBox(l.Start.X, l.Start.Y, l.End.X, l.End.Y)
}

// Length returns the Euclidean length of the line.
func (l Line) Length() float64 {
	return l.Start.Distance(l.End)
}
