package extract

import (
	"fmt"
	"strings"
)

// LowPriority is a substance consulted only when nothing from the primary or
// noted catalogues matched. Match is the verbatim text scanned for; Label is
// the name reported in the output.
type LowPriority struct {
	Match string
	Label string
}

// Catalogue holds the substance lists the drug scan runs against. Primary
// substances are the treatments of interest; Noted substances are recognized
// but reported as premedication; LowPriority substances are a last resort.
// Order within each list is priority order and is preserved in multi-match
// output.
type Catalogue struct {
	Primary     []string
	Noted       []string
	LowPriority []LowPriority

	// ExclusionKeywords veto a line: a catalogue match on a line that also
	// contains one of these (case-insensitive) is instructional text, not an
	// administration.
	ExclusionKeywords []string
}

// DefaultCatalogue returns the shipped substance lists for CATO treatment
// protocols.
func DefaultCatalogue() Catalogue {
	return Catalogue{
		Primary: []string{
			"Doxorubicinhydrochlorid",
			"Dacarbazin",
			"Cisplatin",
			"5-Fluorouracil",
			"Cardioxane",
			"Irinotecanhydrochlorid-Trihydrat",
			"Ribosofol INJ/INF-LOE",
			"Oxaliplatin",
			"Oncofolic",
			"Cetuximab",
			"Calciumfolinat", // Kabi, Gry
			"Uromitexan Multidose",
			"Ifosfamid",
			"Bevacizumab",
			"Unacid",
		},
		Noted: []string{
			"Dexamethason",
			"Granisetron",
		},
		LowPriority: []LowPriority{
			{Match: "NaCl", Label: "NaCl 0,9% 250ml Flasche Glas SWB"},
		},
		ExclusionKeywords: []string{
			"alternativ",
			"parallel",
			"spülen",
			"nach",
			"vor",
			"hinweis",
			"beachten",
		},
	}
}

// Validate checks the catalogue for self-defeating configuration: an
// exclusion keyword occurring inside a substance name would veto every line
// that substance appears on.
func (c Catalogue) Validate() error {
	check := func(kind, name string) error {
		lower := strings.ToLower(name)
		for _, kw := range c.ExclusionKeywords {
			if strings.Contains(lower, kw) {
				return fmt.Errorf("exclusion keyword %q appears in %s substance %q", kw, kind, name)
			}
		}
		return nil
	}
	for _, d := range c.Primary {
		if err := check("primary", d); err != nil {
			return err
		}
	}
	for _, d := range c.Noted {
		if err := check("noted", d); err != nil {
			return err
		}
	}
	for _, d := range c.LowPriority {
		if err := check("low-priority", d.Match); err != nil {
			return err
		}
	}
	return nil
}

// excluded reports whether the line carries an exclusion keyword.
func (c Catalogue) excluded(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range c.ExclusionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// scan returns the substances from list that appear verbatim on at least one
// non-excluded line, deduplicated, in list (priority) order. The second return
// holds lines that carried a substance but were vetoed by an exclusion
// keyword, for diagnostics.
func (c Catalogue) scan(list []string, lines []string) (found, rejected []string) {
	for _, sub := range list {
		hit := false
		for _, line := range lines {
			if !strings.Contains(line, sub) {
				continue
			}
			if c.excluded(line) {
				rejected = append(rejected, line)
				continue
			}
			hit = true
		}
		if hit {
			found = append(found, sub)
		}
	}
	return found, rejected
}
