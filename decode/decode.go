// Package decode is the seam between the reconstruction engine and whatever
// produced the layout primitives. The engine consumes geometry and text; how
// a PDF turns into those is a collaborator's concern behind the Decoder
// interface. The shipped implementation reads the JSON dump format of the
// layout decoder.
package decode

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsawler/kurve/model"
)

// Decoder turns a source file into a document of pages with raw primitives.
// Implementations must not classify or filter; the engine owns all heuristics.
type Decoder interface {
	DecodeDocument(path string) (*model.Document, error)
}

// LayoutJSON decodes the layout-decoder dump format: one JSON document with
// pages, each holding primitives with a bounding box, a kind tag, optional
// stroke/fill colors, and text lines.
type LayoutJSON struct{}

// NewLayoutJSON creates a JSON layout decoder.
func NewLayoutJSON() *LayoutJSON {
	return &LayoutJSON{}
}

type jsonDocument struct {
	Pages []jsonPage `json:"pages"`
}

type jsonPage struct {
	BBox       [4]float64      `json:"bbox"`
	Primitives []jsonPrimitive `json:"primitives"`
}

type jsonPrimitive struct {
	Kind        string          `json:"kind"`
	BBox        [4]float64      `json:"bbox"`
	Stroke      bool            `json:"stroke"`
	Fill        bool            `json:"fill"`
	LineWidth   float64         `json:"lineWidth"`
	StrokeColor json.RawMessage `json:"strokeColor"`
	FillColor   json.RawMessage `json:"fillColor"`
	Lines       []jsonTextLine  `json:"lines"`
}

type jsonTextLine struct {
	Text string     `json:"text"`
	BBox [4]float64 `json:"bbox"`
}

// DecodeDocument reads and converts one layout dump. The document name is the
// file's base name, matching how rows reference their source.
func (d *LayoutJSON) DecodeDocument(path string) (*model.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout dump: %w", err)
	}

	var jd jsonDocument
	if err := json.Unmarshal(raw, &jd); err != nil {
		return nil, fmt.Errorf("parsing layout dump %s: %w", filepath.Base(path), err)
	}

	doc := model.NewDocument(filepath.Base(path))
	for i, jp := range jd.Pages {
		page := model.NewPage(i, toBBox(jp.BBox))
		for _, pr := range jp.Primitives {
			prim, err := toPrimitive(pr)
			if err != nil {
				return nil, fmt.Errorf("page %d of %s: %w", i, doc.Name, err)
			}
			page.Primitives = append(page.Primitives, prim)
		}
		doc.AddPage(page)
	}
	return doc, nil
}

func toBBox(b [4]float64) model.BBox {
	return model.NewBBox(b[0], b[1], b[2], b[3])
}

func toPrimitive(pr jsonPrimitive) (model.Primitive, error) {
	prim := model.Primitive{
		BBox:      toBBox(pr.BBox),
		Stroke:    pr.Stroke,
		Fill:      pr.Fill,
		LineWidth: pr.LineWidth,
	}

	switch pr.Kind {
	case "line":
		prim.Kind = model.KindLine
	case "rect":
		prim.Kind = model.KindRect
	case "textbox":
		prim.Kind = model.KindTextBox
	default:
		return prim, fmt.Errorf("unknown primitive kind %q", pr.Kind)
	}

	prim.StrokeColor = toColor(pr.StrokeColor)
	prim.FillColor = toColor(pr.FillColor)

	for _, ln := range pr.Lines {
		prim.Lines = append(prim.Lines, model.TextLine{
			Text: ln.Text,
			BBox: toBBox(ln.BBox),
		})
	}
	return prim, nil
}

// toColor maps the decoder's loose color encoding: absent or null means no
// color, a bare number is a gray intensity, a one- or three-element array is
// gray or RGB, and anything else is an unsupported pattern. Pattern must not
// fail decoding; patterned shapes are simply invisible to the engine.
func toColor(raw json.RawMessage) model.Color {
	if len(raw) == 0 || string(raw) == "null" {
		return model.NoColor()
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return model.Gray(num)
	}

	var arr []float64
	if err := json.Unmarshal(raw, &arr); err == nil {
		switch len(arr) {
		case 1:
			return model.Gray(arr[0])
		case 3:
			return model.RGB(arr[0], arr[1], arr[2])
		}
	}
	return model.Pattern()
}
