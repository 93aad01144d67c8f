// Package config names every fixed threshold the reconstruction heuristics
// depend on. The values are tightly coupled to one rendering pipeline's
// output; supporting a new template variant means substituting a Template,
// not editing code.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Template holds the geometric and color thresholds for one family of page
// templates. All distances are points in the decoder's page coordinate system
// (origin bottom-left); fill intensities are in [0, 1] with 0 black and 1
// white.
type Template struct {
	// Geometry classifier.

	// LineWidthThreshold is the maximum shorter side of a rectangle that is
	// reclassified as a drawn line.
	LineWidthThreshold float64 `yaml:"lineWidthThreshold"`
	// HorizontalBand and VerticalBand bound 2*atan2(dy,dx)/pi: below the
	// first is horizontal, above the second is vertical, anything between is
	// an oblique artifact.
	HorizontalBand float64 `yaml:"horizontalBand"`
	VerticalBand   float64 `yaml:"verticalBand"`

	// Marker detector.

	// VisitFillMin/Max bound the medium-gray band of visit-section markers,
	// both exclusive.
	VisitFillMin  float64 `yaml:"visitFillMin"`
	VisitFillMax  float64 `yaml:"visitFillMax"`
	VisitMinWidth float64 `yaml:"visitMinWidth"`
	// RecordFill is the exact fill intensity of record markers (solid black).
	RecordFill      float64 `yaml:"recordFill"`
	RecordMinWidth  float64 `yaml:"recordMinWidth"`
	RecordMinHeight float64 `yaml:"recordMinHeight"`

	// Region assembler.

	// RecordWidth is the right edge of every record box.
	RecordWidth float64 `yaml:"recordWidth"`
	// PreVisitGap lifts a record's lower boundary above an interleaved visit
	// block.
	PreVisitGap float64 `yaml:"preVisitGap"`
	// PreRecordGap lifts a record's lower boundary above the next record
	// marker pair.
	PreRecordGap float64 `yaml:"preRecordGap"`
	// PrePageEndGap is the page-bottom sentinel for the last record on a page.
	PrePageEndGap float64 `yaml:"prePageEndGap"`
	// EntryTopPad extends an entry box above its anchor pair.
	EntryTopPad float64 `yaml:"entryTopPad"`
	// EntryBottomPad keeps an entry box clear of the next anchor pair below.
	EntryBottomPad float64 `yaml:"entryBottomPad"`
	// TimestampBand is how far below a "Med. Nr." anchor its timestamp line
	// may start.
	TimestampBand float64 `yaml:"timestampBand"`

	// Field extractor.

	// EntryTailTolerance is how far below the lowest resolved role line an
	// entry may keep text; anything lower bled in from the next entry.
	EntryTailTolerance float64 `yaml:"entryTailTolerance"`
	// Per-role x-bands for the continuation-line fallback. The three role
	// fields sit in different columns of the entry.
	ArztMaxX        float64 `yaml:"arztMaxX"`
	ApothekerMinX   float64 `yaml:"apothekerMinX"`
	ApothekerMaxX   float64 `yaml:"apothekerMaxX"`
	VerabreichtMinX float64 `yaml:"verabreichtMinX"`

	// Page header and footer zones.

	// PatientHeaderMinY is the lower bound of the patient-id header band.
	PatientHeaderMinY float64 `yaml:"patientHeaderMinY"`
	// ProtocolBandMinY/MaxY bound the first-page protocol header band.
	ProtocolBandMinY float64 `yaml:"protocolBandMinY"`
	ProtocolBandMaxY float64 `yaml:"protocolBandMaxY"`
	// FooterMaxY is the upper bound of the footer band.
	FooterMaxY float64 `yaml:"footerMaxY"`
}

// DefaultTemplate returns the thresholds of the shipped CATO chart template.
func DefaultTemplate() Template {
	return Template{
		LineWidthThreshold: 3,
		HorizontalBand:     0.01,
		VerticalBand:       0.99,

		VisitFillMin:    0.80,
		VisitFillMax:    0.85,
		VisitMinWidth:   500,
		RecordFill:      0,
		RecordMinWidth:  11,
		RecordMinHeight: 11,

		RecordWidth:    553,
		PreVisitGap:    10,
		PreRecordGap:   20,
		PrePageEndGap:  70,
		EntryTopPad:    3,
		EntryBottomPad: 13,
		TimestampBand:  10,

		EntryTailTolerance: 15,
		ArztMaxX:           150,
		ApothekerMinX:      200,
		ApothekerMaxX:      350,
		VerabreichtMinX:    300,

		PatientHeaderMinY: 730,
		ProtocolBandMinY:  680,
		ProtocolBandMaxY:  730,
		FooterMaxY:        65,
	}
}

// Load reads a template from a YAML file. Fields absent from the file keep
// their default values, so a variant file only needs to name what differs.
func Load(path string) (Template, error) {
	tpl := DefaultTemplate()

	data, err := os.ReadFile(path)
	if err != nil {
		return tpl, fmt.Errorf("failed to read template: %w", err)
	}
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return tpl, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	return tpl, nil
}
