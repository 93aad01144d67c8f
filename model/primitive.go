package model

// Kind identifies what the layout decoder drew.
type Kind int

const (
	KindLine Kind = iota
	KindRect
	KindTextBox
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindRect:
		return "rect"
	case KindTextBox:
		return "textbox"
	default:
		return "unknown"
	}
}

// ColorKind identifies how the decoder represented a color. Colors may arrive
// as a single gray intensity, an RGB triple, absent, or as an unsupported
// pattern fill that must be tolerated rather than crashed on.
type ColorKind int

const (
	ColorNone ColorKind = iota
	ColorGray
	ColorRGB
	ColorPattern
)

// Color is a tolerant color value from the layout decoder.
type Color struct {
	Kind       ColorKind
	Components []float64 // 1 value for gray, 3 for RGB, empty otherwise
}

// NoColor returns the absent color.
func NoColor() Color {
	return Color{Kind: ColorNone}
}

// Gray returns a single-intensity color.
func Gray(v float64) Color {
	return Color{Kind: ColorGray, Components: []float64{v}}
}

// RGB returns a three-component color.
func RGB(r, g, b float64) Color {
	return Color{Kind: ColorRGB, Components: []float64{r, g, b}}
}

// Pattern returns the unsupported patterned-fill sentinel. Patterned shapes
// are treated as invisible everywhere.
func Pattern() Color {
	return Color{Kind: ColorPattern}
}

// Visible reports whether a shape drawn with this color shows on the page.
// Absent colors, pure white, and pattern fills are invisible.
func (c Color) Visible() bool {
	switch c.Kind {
	case ColorGray, ColorRGB:
		return c.Intensity() < 1
	default:
		return false
	}
}

// Intensity returns the fill intensity in [0, 1], averaging RGB components.
// Invisible colors read as 1 (white) so threshold comparisons treat them as
// blank page background.
func (c Color) Intensity() float64 {
	switch c.Kind {
	case ColorGray:
		if len(c.Components) == 0 {
			return 1
		}
		return c.Components[0]
	case ColorRGB:
		if len(c.Components) == 0 {
			return 1
		}
		sum := 0.0
		for _, v := range c.Components {
			sum += v
		}
		return sum / float64(len(c.Components))
	default:
		return 1
	}
}

// TextLine is a single decoded line of text with its position.
type TextLine struct {
	Text string
	BBox BBox
}

// Primitive is one decoded geometric or textual shape from a page. Primitives
// are immutable once decoded and owned by their page.
type Primitive struct {
	Kind      Kind
	BBox      BBox
	Stroke    bool
	Fill      bool
	LineWidth float64

	StrokeColor Color
	FillColor   Color

	// Lines holds the contained text lines; text boxes only.
	Lines []TextLine
}
