package decode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/kurve/model"
)

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeDocument(t *testing.T) {
	path := writeDump(t, `{
		"pages": [{
			"bbox": [0, 0, 595, 842],
			"primitives": [
				{"kind": "rect", "bbox": [46, 688, 60, 700], "fill": true, "fillColor": 0},
				{"kind": "line", "bbox": [40, 500, 560, 500], "stroke": true, "strokeColor": [0, 0, 0]},
				{"kind": "textbox", "bbox": [50, 600, 200, 612], "lines": [
					{"text": "Med. Nr.:  4711", "bbox": [50, 600, 200, 612]}
				]}
			]
		}]
	}`)

	doc, err := NewLayoutJSON().DecodeDocument(path)
	if err != nil {
		t.Fatalf("DecodeDocument() error: %v", err)
	}

	if doc.Name != "chart.json" {
		t.Errorf("Name = %q, want base name of the dump", doc.Name)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("PageCount = %d", doc.PageCount())
	}

	page := doc.Pages[0]
	if len(page.Primitives) != 3 {
		t.Fatalf("expected 3 primitives, got %d", len(page.Primitives))
	}

	rect := page.Primitives[0]
	if rect.Kind != model.KindRect || rect.FillColor.Intensity() != 0 {
		t.Errorf("rect decoded wrong: %+v", rect)
	}
	line := page.Primitives[1]
	if line.Kind != model.KindLine || line.StrokeColor.Kind != model.ColorRGB {
		t.Errorf("line decoded wrong: %+v", line)
	}
	tb := page.Primitives[2]
	if tb.Kind != model.KindTextBox || len(tb.Lines) != 1 || tb.Lines[0].Text != "Med. Nr.:  4711" {
		t.Errorf("textbox decoded wrong: %+v", tb)
	}
}

func TestDecodeColorVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.ColorKind
	}{
		{"absent", `{"kind": "rect", "bbox": [0,0,1,1]}`, model.ColorNone},
		{"null", `{"kind": "rect", "bbox": [0,0,1,1], "fillColor": null}`, model.ColorNone},
		{"number", `{"kind": "rect", "bbox": [0,0,1,1], "fillColor": 0.82}`, model.ColorGray},
		{"single array", `{"kind": "rect", "bbox": [0,0,1,1], "fillColor": [0.5]}`, model.ColorGray},
		{"triple", `{"kind": "rect", "bbox": [0,0,1,1], "fillColor": [1, 0, 0]}`, model.ColorRGB},
		{"pattern object", `{"kind": "rect", "bbox": [0,0,1,1], "fillColor": {"name": "P1"}}`, model.ColorPattern},
		{"odd array", `{"kind": "rect", "bbox": [0,0,1,1], "fillColor": [0.1, 0.2]}`, model.ColorPattern},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeDump(t, `{"pages": [{"bbox": [0,0,595,842], "primitives": [`+tc.raw+`]}]}`)
			doc, err := NewLayoutJSON().DecodeDocument(path)
			if err != nil {
				t.Fatalf("DecodeDocument() error: %v", err)
			}
			got := doc.Pages[0].Primitives[0].FillColor.Kind
			if got != tc.want {
				t.Errorf("FillColor.Kind = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecodeUnknownKindFails(t *testing.T) {
	path := writeDump(t, `{"pages": [{"bbox": [0,0,595,842], "primitives": [
		{"kind": "curve", "bbox": [0,0,1,1]}
	]}]}`)

	if _, err := NewLayoutJSON().DecodeDocument(path); err == nil {
		t.Fatal("expected error for unknown primitive kind")
	}
}

func TestDecodeMissingFile(t *testing.T) {
	if _, err := NewLayoutJSON().DecodeDocument(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
