package kurve

import (
	"github.com/tsawler/kurve/config"
	"github.com/tsawler/kurve/decode"
	"github.com/tsawler/kurve/diag"
	"github.com/tsawler/kurve/extract"
)

// extractOptions holds the configuration of one extraction chain.
type extractOptions struct {
	template  config.Template
	catalogue extract.Catalogue
	observer  diag.Observer
	decoder   decode.Decoder
}

// defaultOptions returns the shipped CATO defaults: the built-in layout
// template, the built-in substance catalogue, a silent observer, and the
// JSON layout decoder.
func defaultOptions() extractOptions {
	return extractOptions{
		template:  config.DefaultTemplate(),
		catalogue: extract.DefaultCatalogue(),
		observer:  diag.Nop(),
		decoder:   decode.NewLayoutJSON(),
	}
}

// clone creates a copy of extractOptions. Template and catalogue are value
// types; observer and decoder are shared by design.
func (o extractOptions) clone() extractOptions {
	newOpts := extractOptions{
		template: o.template,
		observer: o.observer,
		decoder:  o.decoder,
	}

	newOpts.catalogue = extract.Catalogue{
		Primary:           append([]string(nil), o.catalogue.Primary...),
		Noted:             append([]string(nil), o.catalogue.Noted...),
		LowPriority:       append([]extract.LowPriority(nil), o.catalogue.LowPriority...),
		ExclusionKeywords: append([]string(nil), o.catalogue.ExclusionKeywords...),
	}

	return newOpts
}
