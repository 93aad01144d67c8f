// Package extract pulls the typed clinical fields out of reconstructed
// regions: record headers, entry rows, and the page header/footer bands. All
// heuristics are German-text heuristics tuned on CATO protocol exports; every
// deviation from the expected pattern is reported through the injected
// observer rather than swallowed.
package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tsawler/kurve/config"
	"github.com/tsawler/kurve/dates"
	"github.com/tsawler/kurve/diag"
	"github.com/tsawler/kurve/model"
)

var (
	medNrRe    = regexp.MustCompile(`Med\. Nr\.:\s+(\d+)`)
	cycleRe    = regexp.MustCompile(`Zyklus:.*Zyklus (\d*)`)
	dayRe      = regexp.MustCompile(`Tag (\d*) - Tag (\d*) der`)
	initialsRe = regexp.MustCompile(`\((\w*)\)`)
)

// Extractor converts regions into typed field sets.
type Extractor struct {
	cat   Catalogue
	tpl   config.Template
	obs   diag.Observer
	lower cases.Caser
}

// New creates an extractor, validating the catalogue. German case folding is
// used throughout so that keywords like "spülen" match their capitalized
// forms.
func New(cat Catalogue, tpl config.Template, obs diag.Observer) (*Extractor, error) {
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("substance catalogue: %w", err)
	}
	if obs == nil {
		obs = diag.Nop()
	}
	return &Extractor{
		cat:   cat,
		tpl:   tpl,
		obs:   obs,
		lower: cases.Lower(language.German),
	}, nil
}

// role describes one of the three sign-off lines at the bottom of an entry.
// The stage-B fallback handles names long enough to spill their bracketed
// initials onto a continuation line; each role's continuation lands in its own
// horizontal band.
type role struct {
	label   string
	pattern *regexp.Regexp
	// edge offset and candidate filter for the continuation-line fallback.
	edgeOff   float64
	candidate func(tpl config.Template, ln model.TextLine, edge float64) bool
}

var roles = []role{
	{
		label:   "Arzt",
		pattern: regexp.MustCompile(`Arzt:.*\((\w*)\)`),
		edgeOff: -1,
		candidate: func(tpl config.Template, ln model.TextLine, edge float64) bool {
			return ln.BBox.Y0 < edge && ln.BBox.X0 < tpl.ArztMaxX
		},
	},
	{
		label:   "Apotheker",
		pattern: regexp.MustCompile(`Apotheker:.*\((\w*)\)`),
		edgeOff: 1,
		candidate: func(tpl config.Template, ln model.TextLine, edge float64) bool {
			return ln.BBox.Y1 < edge && ln.BBox.X0 > tpl.ApothekerMinX && ln.BBox.X0 < tpl.ApothekerMaxX
		},
	},
	{
		label:   "Verabreicht",
		pattern: regexp.MustCompile(`Verabreicht:.*\((\w*)\)`),
		edgeOff: -1,
		candidate: func(tpl config.Template, ln model.TextLine, edge float64) bool {
			return ln.BBox.Y1 < edge && ln.BBox.X0 > tpl.VerabreichtMinX
		},
	},
}

// Entry extracts the typed fields of one administration entry. The only
// failure treated as structural is an unparseable entry identifier; anything
// else degrades to an annotated or partially empty result.
func (x *Extractor) Entry(document string, page *model.Page, e *model.Entry) (model.EntryData, error) {
	lines := page.TextInBox(e.BBox)

	var data model.EntryData

	m := medNrRe.FindStringSubmatch(e.Anchor.MedItem.Text)
	if m == nil {
		return data, fmt.Errorf("entry identifier missing in anchor %q on page %d of %s",
			e.Anchor.MedItem.Text, page.Number, document)
	}
	nr, err := strconv.Atoi(m[1])
	if err != nil {
		return data, fmt.Errorf("entry identifier %q on page %d of %s: %w", m[1], page.Number, document, err)
	}
	data.MedNr = nr

	ts := strings.TrimSpace(e.Anchor.Timestamp.Text)
	if start, end, ok := strings.Cut(ts, " - "); ok {
		data.Start, data.End = start, end
	} else {
		data.Start, data.End = ts, ts
	}

	// Resolve the three sign-off roles. The lowest resolved line doubles as
	// the end-of-entry delimiter for the tail cleanup below.
	var signOff []model.TextLine
	initials := make(map[string]string, len(roles))
	for _, r := range roles {
		got, used := x.resolveRole(document, page, r, data.MedNr, lines)
		initials[r.label] = got
		signOff = append(signOff, used...)
	}

	// Cancelled entries look like valid entries without any sign-off values.
	if len(signOff) == 0 {
		x.obs.Event(diag.Event{
			Level:    diag.Debug,
			Message:  "entry carries no sign-off, possibly cancelled",
			Document: document,
			Page:     page.Number,
			MedNr:    data.MedNr,
		})
		data.Exclusion = model.ExclusionInvalid
		for _, ln := range lines {
			if strings.Contains(x.lower.String(ln.Text), "storniert") {
				data.Exclusion = model.ExclusionCancelled
				break
			}
		}
		return data, nil
	}

	lines = x.trimTail(document, page, data.MedNr, lines, signOff)

	lowered := make([]string, len(lines))
	texts := make([]string, len(lines))
	for i, ln := range lines {
		texts[i] = ln.Text
		lowered[i] = x.lower.String(ln.Text)
	}

	data.Application = model.ApplicationOther
	for _, lt := range lowered {
		if strings.Contains(lt, "intravenöse infusion") {
			data.Application = model.ApplicationInfusion
			break
		}
		if strings.Contains(lt, "intravenöse injektion") {
			data.Application = model.ApplicationInjection
		}
	}

	data.Drug, data.Premed = x.substances(document, page, data.MedNr, texts)

	data.Arzt = initials["Arzt"]
	data.Apotheker = initials["Apotheker"]
	data.Verabreicht = initials["Verabreicht"]
	return data, nil
}

// resolveRole finds the initials for one sign-off role. Stage A looks for the
// full "Label: Name (xy)" line; stage B scans the role's continuation band
// below the lowest label line. Returns the lowercased initials and the lines
// that delimit the entry tail.
func (x *Extractor) resolveRole(document string, page *model.Page, r role, medNr int, lines []model.TextLine) (string, []model.TextLine) {
	var labelLines []model.TextLine
	for _, ln := range lines {
		if strings.Contains(ln.Text, r.label) {
			labelLines = append(labelLines, ln)
		}
	}

	for _, ln := range labelLines {
		if m := r.pattern.FindStringSubmatch(ln.Text); m != nil {
			return x.lower.String(m[1]), []model.TextLine{ln}
		}
	}

	if len(labelLines) == 0 {
		x.obs.Event(diag.Event{
			Level:    diag.Debug,
			Message:  fmt.Sprintf("no %q line in entry", r.label),
			Document: document,
			Page:     page.Number,
			MedNr:    medNr,
		})
		return "", nil
	}

	edge := labelLines[0].BBox.Y0
	for _, ln := range labelLines[1:] {
		if ln.BBox.Y0 < edge {
			edge = ln.BBox.Y0
		}
	}
	edge += r.edgeOff

	var got string
	var used []model.TextLine
	for _, ln := range lines {
		if !r.candidate(x.tpl, ln, edge) {
			continue
		}
		if m := initialsRe.FindStringSubmatch(x.lower.String(ln.Text)); m != nil {
			got = m[1]
			used = append(used, ln)
		}
	}
	if len(used) == 0 {
		x.obs.Event(diag.Event{
			Level:    diag.Warn,
			Message:  fmt.Sprintf("%q label present but initials not found", r.label),
			Document: document,
			Page:     page.Number,
			MedNr:    medNr,
		})
	}
	return got, used
}

// trimTail drops lines more than the tail tolerance below the lowest sign-off
// line. Entry boxes that run into a following visit header pick up header
// text; the sign-off lines are the reliable bottom of the real content.
func (x *Extractor) trimTail(document string, page *model.Page, medNr int, lines, signOff []model.TextLine) []model.TextLine {
	limit := signOff[0].BBox.Y0
	for _, ln := range signOff {
		if ln.BBox.Y0 < limit {
			limit = ln.BBox.Y0
		}
		if ln.BBox.Y1 < limit {
			limit = ln.BBox.Y1
		}
	}

	kept := lines[:0:0]
	for _, ln := range lines {
		if ln.BBox.Y1 > limit-x.tpl.EntryTailTolerance {
			kept = append(kept, ln)
		}
	}
	if n := len(lines) - len(kept); n > 0 {
		x.obs.Event(diag.Event{
			Level:    diag.Warn,
			Message:  fmt.Sprintf("removed %d trailing lines from entry", n),
			Document: document,
			Page:     page.Number,
			MedNr:    medNr,
		})
	}
	return kept
}

// substances runs the catalogue scans: primary substances (reported as drug),
// noted substances (reported as premedication), and, when neither matched,
// the low-priority list. Multi-matches are joined with "+" in catalogue
// priority order.
func (x *Extractor) substances(document string, page *model.Page, medNr int, texts []string) (drug, premed string) {
	drugs, rejected := x.cat.scan(x.cat.Primary, texts)
	for _, line := range rejected {
		x.obs.Event(diag.Event{
			Level:    diag.Debug,
			Message:  fmt.Sprintf("substance line vetoed by exclusion keyword: %q", line),
			Document: document,
			Page:     page.Number,
			MedNr:    medNr,
		})
	}

	// Noted substances found via the primary list count as premedication.
	var premeds []string
	kept := drugs[:0:0]
	for _, d := range drugs {
		if contains(x.cat.Noted, d) {
			premeds = append(premeds, d)
		} else {
			kept = append(kept, d)
		}
	}
	drugs = kept

	if len(drugs) > 1 {
		x.obs.Event(diag.Event{
			Level:    diag.Warn,
			Message:  fmt.Sprintf("multiple primary substances in one entry: %s", strings.Join(drugs, ", ")),
			Document: document,
			Page:     page.Number,
			MedNr:    medNr,
		})
	}

	noted, _ := x.cat.scan(x.cat.Noted, texts)
	premeds = dedupe(append(premeds, noted...))

	if len(drugs) == 0 && len(premeds) == 0 {
		for _, lp := range x.cat.LowPriority {
			found, _ := x.cat.scan([]string{lp.Match}, texts)
			if len(found) > 0 {
				premeds = append(premeds, lp.Label)
			}
		}
	}

	return strings.Join(drugs, "+"), strings.Join(premeds, "+")
}

// RecordHeader extracts the header fields from the record's marker band: the
// cycle anchor beside the upper marker and the three columns (date, day
// field, location) beside the lower marker. Malformed headers are logged and
// extracted partially, never fatal; newer protocol revisions legitimately
// omit the cycle anchor.
func (x *Extractor) RecordHeader(document string, rec *model.Record) model.RecordData {
	page := rec.Page
	data := model.RecordData{
		Location:   "unknown",
		PageIndex:  page.Index,
		PageNumber: page.Number,
	}

	upper := x.recordText(page, rec, rec.Anchor.Open.BBox)
	if len(upper) != 1 {
		x.obs.Event(diag.Event{
			Level:    diag.Warn,
			Message:  fmt.Sprintf("record header cycle band carries %d lines, expected 1", len(upper)),
			Document: document,
			Page:     page.Number,
		})
	}
	for _, ln := range upper {
		if m := cycleRe.FindStringSubmatch(ln.Text); m != nil {
			data.Cycle = m[1]
			break
		}
	}

	columns := x.recordText(page, rec, rec.Anchor.Close.BBox)
	sort.SliceStable(columns, func(i, j int) bool {
		return columns[i].BBox.X0 < columns[j].BBox.X0
	})
	if len(columns) != 3 {
		x.obs.Event(diag.Event{
			Level:    diag.Debug,
			Message:  fmt.Sprintf("record header carries %d columns, expected 3", len(columns)),
			Document: document,
			Page:     page.Number,
		})
	}

	if len(columns) > 0 {
		data.DateText = strings.TrimSpace(columns[0].Text)
		d, err := dates.Parse(data.DateText)
		if err != nil {
			x.obs.Event(diag.Event{
				Level:    diag.Warn,
				Message:  fmt.Sprintf("record header date %q: %v", data.DateText, err),
				Document: document,
				Page:     page.Number,
			})
		} else {
			data.Date = d
		}
	}
	if len(columns) > 1 {
		if m := dayRe.FindStringSubmatch(columns[1].Text); m != nil {
			data.DayInCycle = m[1]
			data.DayInProtocol = m[2]
		}
	}
	if len(columns) > 2 {
		loc := strings.TrimSpace(columns[2].Text)
		if strings.Contains(loc, "|") {
			data.Location = strings.SplitN(loc, " |", 2)[0]
		}
	}
	return data
}

// recordText returns the record's text lines whose vertical midpoint falls
// inside the given band.
func (x *Extractor) recordText(page *model.Page, rec *model.Record, band model.BBox) []model.TextLine {
	var out []model.TextLine
	for _, tb := range page.TextBoxesBetween(rec.BBox.Y0, rec.BBox.Y1) {
		for _, ln := range tb.Lines {
			if band.ContainsMidY(ln.BBox) {
				out = append(out, ln)
			}
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// dedupe removes duplicates preserving first occurrence.
func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := list[:0:0]
	for _, s := range list {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
