package model

import (
	"math"
	"testing"
)

// ============================================================================
// Point Tests
// ============================================================================

func TestPointDistance(t *testing.T) {
	tests := []struct {
		name     string
		p1, p2   Point
		expected float64
	}{
		{"same point", Point{0, 0}, Point{0, 0}, 0},
		{"horizontal", Point{0, 0}, Point{3, 0}, 3},
		{"vertical", Point{0, 0}, Point{0, 4}, 4},
		{"diagonal 3-4-5", Point{0, 0}, Point{3, 4}, 5},
		{"negative coords", Point{-1, -1}, Point{2, 3}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.p1.Distance(tt.p2)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("Distance() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// ============================================================================
// BBox Tests
// ============================================================================

func TestNewBBoxNormalizes(t *testing.T) {
	// Record boxes are built top corner first; the constructor must flip them.
	b := NewBBox(46, 700, 553, 70)
	if b.Y0 != 70 || b.Y1 != 700 {
		t.Errorf("expected normalized Y bounds (70, 700), got (%v, %v)", b.Y0, b.Y1)
	}
	if b.X0 != 46 || b.X1 != 553 {
		t.Errorf("expected X bounds (46, 553), got (%v, %v)", b.X0, b.X1)
	}
}

func TestBBoxDimensions(t *testing.T) {
	b := NewBBox(10, 20, 110, 70)
	if b.Width() != 100 {
		t.Errorf("Width() = %v, want 100", b.Width())
	}
	if b.Height() != 50 {
		t.Errorf("Height() = %v, want 50", b.Height())
	}
	if b.Area() != 5000 {
		t.Errorf("Area() = %v, want 5000", b.Area())
	}
	if b.MidY() != 45 {
		t.Errorf("MidY() = %v, want 45", b.MidY())
	}
}

func TestBBoxContainsMidY(t *testing.T) {
	region := NewBBox(0, 100, 500, 200)

	tests := []struct {
		name string
		line BBox
		want bool
	}{
		{"inside", NewBBox(10, 140, 90, 150), true},
		{"above", NewBBox(10, 240, 90, 250), false},
		{"below", NewBBox(10, 40, 90, 50), false},
		{"midpoint on edge excluded", NewBBox(10, 90, 90, 110), false},
		{"straddles top with midpoint inside", NewBBox(10, 190, 90, 205), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := region.ContainsMidY(tt.line); got != tt.want {
				t.Errorf("ContainsMidY(%v) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestBBoxUnionAndContainsBox(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(5, 5, 20, 25)

	u := a.Union(b)
	if u != (BBox{0, 0, 20, 25}) {
		t.Errorf("Union = %+v", u)
	}
	if !u.ContainsBox(a) || !u.ContainsBox(b) {
		t.Error("union must contain both operands")
	}
	if a.ContainsBox(b) {
		t.Error("a must not contain b")
	}
}

// ============================================================================
// Color Tests
// ============================================================================

func TestColorVisibility(t *testing.T) {
	tests := []struct {
		name    string
		color   Color
		visible bool
	}{
		{"absent", NoColor(), false},
		{"black", Gray(0), true},
		{"gray band", Gray(0.82), true},
		{"white", Gray(1), false},
		{"rgb dark", RGB(0.2, 0.2, 0.2), true},
		{"rgb white", RGB(1, 1, 1), false},
		{"pattern fill", Pattern(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.Visible(); got != tt.visible {
				t.Errorf("Visible() = %v, want %v", got, tt.visible)
			}
		})
	}
}

func TestColorIntensity(t *testing.T) {
	if got := Gray(0.82).Intensity(); math.Abs(got-0.82) > 1e-9 {
		t.Errorf("gray intensity = %v, want 0.82", got)
	}
	if got := RGB(0.2, 0.4, 0.6).Intensity(); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("rgb intensity = %v, want 0.4", got)
	}
	// Invisible colors read as white so threshold comparisons skip them.
	if got := Pattern().Intensity(); got != 1 {
		t.Errorf("pattern intensity = %v, want 1", got)
	}
	if got := NoColor().Intensity(); got != 1 {
		t.Errorf("absent intensity = %v, want 1", got)
	}
}

// ============================================================================
// Line Tests
// ============================================================================

func TestLineAngle(t *testing.T) {
	h := Line{Start: Point{0, 0}, End: Point{100, 0.1}}
	if a := h.Angle(); 2*a >= 0.01 {
		t.Errorf("near-horizontal angle %v outside horizontal band", a)
	}

	v := Line{Start: Point{0, 0}, End: Point{0.1, 100}}
	if a := v.Angle(); 2*a <= 0.99 {
		t.Errorf("near-vertical angle %v outside vertical band", a)
	}

	d := Line{Start: Point{0, 0}, End: Point{100, 100}}
	if a := d.Angle(); 2*a < 0.01 || 2*a > 0.99 {
		t.Errorf("diagonal angle %v landed inside an orientation band", a)
	}
}

// ============================================================================
// Page Tests
// ============================================================================

func TestPageTextInBox(t *testing.T) {
	page := NewPage(0, NewBBox(0, 0, 595, 842))
	page.Text = []TextLine{
		{Text: "inside", BBox: NewBBox(10, 440, 90, 450)},
		{Text: "outside", BBox: NewBBox(10, 640, 90, 650)},
	}

	got := page.TextInBox(NewBBox(0, 400, 500, 500))
	if len(got) != 1 || got[0].Text != "inside" {
		t.Errorf("TextInBox selected %v", got)
	}
}

func TestDocumentAddPage(t *testing.T) {
	doc := NewDocument("chart.json")
	doc.AddPage(NewPage(99, BBox{}))
	doc.AddPage(NewPage(99, BBox{}))

	if doc.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", doc.PageCount())
	}
	if doc.Pages[0].Index != 0 || doc.Pages[1].Index != 1 {
		t.Error("AddPage must reassign 0-based indices")
	}
	if doc.FirstPage() != doc.Pages[0] {
		t.Error("FirstPage mismatch")
	}
}
