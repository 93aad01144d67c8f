// Package kurve reconstructs structured treatment records from the geometric
// and textual primitives of scanned CATO protocol exports. It provides a
// fluent API over the reconstruction pipeline: geometry classification,
// marker detection, region assembly, field extraction, and document
// assembly.
//
// Basic usage:
//
//	rows, warnings, err := kurve.Open("chart.json").Rows()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", kurve.FormatWarnings(warnings))
//	}
//
// With options:
//
//	rows, _, err := kurve.Open("chart.json").
//	    WithTemplate(tpl).
//	    WithObserver(diag.NewSlog(logger)).
//	    Rows()
package kurve

import (
	"fmt"

	"github.com/tsawler/kurve/config"
	"github.com/tsawler/kurve/decode"
	"github.com/tsawler/kurve/diag"
	"github.com/tsawler/kurve/document"
	"github.com/tsawler/kurve/extract"
	"github.com/tsawler/kurve/geometry"
	"github.com/tsawler/kurve/model"
	"github.com/tsawler/kurve/regions"
)

// Open creates an Extractor for a layout dump file ready for fluent
// configuration.
//
// Example:
//
//	rows, warnings, err := kurve.Open("chart.json").Rows()
func Open(path string) *Extractor {
	return &Extractor{
		path:    path,
		options: defaultOptions(),
	}
}

// FromDocument creates an Extractor over an already decoded document,
// bypassing the decoder. Useful when the caller built the primitives itself.
func FromDocument(doc *model.Document) *Extractor {
	return &Extractor{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must wraps a call returning (T, []Warning, error) and panics on error,
// discarding warnings. Intended for scripts and tests.
//
// Example:
//
//	rows := kurve.Must(kurve.Open("chart.json").Rows())
func Must[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Extractor provides a fluent interface over the reconstruction pipeline.
// Each configuration method returns a new Extractor instance, making chains
// safe to fork and reuse.
type Extractor struct {
	path string
	doc  *model.Document

	options extractOptions
}

// clone copies the Extractor with a deep copy of options so that chain
// methods never mutate their receiver.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		path:    e.path,
		doc:     e.doc,
		options: e.options.clone(),
	}
}

// WithTemplate replaces the layout template.
func (e *Extractor) WithTemplate(tpl config.Template) *Extractor {
	ne := e.clone()
	ne.options.template = tpl
	return ne
}

// WithCatalogue replaces the substance catalogue.
func (e *Extractor) WithCatalogue(cat extract.Catalogue) *Extractor {
	ne := e.clone()
	ne.options.catalogue = cat
	return ne
}

// WithObserver routes diagnostic events to the given observer in addition to
// the warning collection the terminal operations return.
func (e *Extractor) WithObserver(obs diag.Observer) *Extractor {
	ne := e.clone()
	ne.options.observer = obs
	return ne
}

// WithDecoder replaces the layout decoder used by Open paths.
func (e *Extractor) WithDecoder(dec decode.Decoder) *Extractor {
	ne := e.clone()
	ne.options.decoder = dec
	return ne
}

// Rows runs the full pipeline and returns one row per administration entry,
// in page, record, entry order, plus the warnings accumulated along the way.
// The error is structural: the document violated a layout assumption and its
// output cannot be trusted.
func (e *Extractor) Rows() ([]model.Row, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return nil, warnings, err
	}

	col := &collector{}
	asm := document.New(diag.Tee(col, e.options.observer))
	rows := asm.Rows(doc)
	return rows, append(warnings, col.warnings...), nil
}

// Document runs the pipeline up to and including field extraction and
// returns the reconstructed document tree: pages with classified geometry,
// regions, and typed data on every record and entry.
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	col := &collector{}
	obs := diag.Tee(col, e.options.observer)

	doc := e.doc
	if doc == nil {
		var err error
		doc, err = e.options.decoder.DecodeDocument(e.path)
		if err != nil {
			return nil, col.warnings, fmt.Errorf("decoding %s: %w", e.path, err)
		}
	}

	classifier := geometry.New(e.options.template)
	assembler := regions.New(e.options.template, obs)
	fields, err := extract.New(e.options.catalogue, e.options.template, obs)
	if err != nil {
		return nil, col.warnings, err
	}

	for _, page := range doc.Pages {
		// Step 1: classify raw primitives into lines, rectangles, and text.
		classifier.ClassifyPage(page)

		// Step 2: page frame first; the footer carries the printed page
		// number every later diagnostic refers to.
		if err := fields.PageFooter(doc.Name, page); err != nil {
			return nil, col.warnings, err
		}
		fields.PageHeader(page)

		// Step 3: partition the page into visit and record regions.
		if err := assembler.Assemble(doc.Name, page); err != nil {
			return nil, col.warnings, err
		}

		// Step 4: extract typed fields from every record and entry.
		for _, rec := range page.Records {
			rec.Data = fields.RecordHeader(doc.Name, rec)
			for _, entry := range rec.Entries {
				data, err := fields.Entry(doc.Name, page, entry)
				if err != nil {
					return nil, col.warnings, err
				}
				entry.Data = data
			}
		}
	}

	return doc, col.warnings, nil
}
