package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTemplateBands(t *testing.T) {
	tpl := DefaultTemplate()

	if tpl.VisitFillMin >= tpl.VisitFillMax {
		t.Error("visit gray band is empty")
	}
	if tpl.RecordFill >= tpl.VisitFillMin {
		t.Error("record and visit marker intensity ranges must be disjoint")
	}
	if tpl.HorizontalBand >= tpl.VerticalBand {
		t.Error("orientation bands overlap")
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variant.yaml")
	if err := os.WriteFile(path, []byte("recordWidth: 600\npreVisitGap: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tpl, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tpl.RecordWidth != 600 {
		t.Errorf("RecordWidth = %v, want 600", tpl.RecordWidth)
	}
	if tpl.PreVisitGap != 12 {
		t.Errorf("PreVisitGap = %v, want 12", tpl.PreVisitGap)
	}
	// Untouched fields keep defaults.
	if tpl.LineWidthThreshold != 3 {
		t.Errorf("LineWidthThreshold = %v, want default 3", tpl.LineWidthThreshold)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
