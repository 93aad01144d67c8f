package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tsawler/kurve/model"
)

var (
	patientRe  = regexp.MustCompile(`Pat\. Nr\.:\s+(\d+)`)
	protocolRe = regexp.MustCompile(`Basierend auf Protokoll \(Version (\d*)\)`)
	pageNumRe  = regexp.MustCompile(`Seite\s(\d+)/\d+`)
	printedRe  = regexp.MustCompile(`Gedruckt am:\s(\d+.\d+.\d{4})\s\d+:\d+:\d+ von (\w*)`)
)

// PageHeader extracts the patient identifier from the top band and, on the
// first page only, the protocol name and version from the box below it. The
// protocol box carries the version anchor on its first line and the protocol
// name on the line after.
func (x *Extractor) PageHeader(page *model.Page) {
	for _, ln := range page.Text {
		if ln.BBox.Y0 <= x.tpl.PatientHeaderMinY {
			continue
		}
		if m := patientRe.FindStringSubmatch(ln.Text); m != nil {
			page.PatientID = m[1]
			break
		}
	}

	if page.Index != 0 {
		return
	}
	for _, tb := range page.TextBoxes {
		if tb.BBox.Y0 <= x.tpl.ProtocolBandMinY || tb.BBox.Y0 >= x.tpl.ProtocolBandMaxY {
			continue
		}
		if len(tb.Lines) < 2 {
			continue
		}
		if m := protocolRe.FindStringSubmatch(tb.Lines[0].Text); m != nil {
			page.ProtocolVersion = m[1]
			page.ProtocolName = strings.TrimSpace(tb.Lines[1].Text)
			break
		}
	}
}

// PageFooter extracts the export stamp and the printed page number from the
// footer band. Both halves are load-bearing: without the page number the
// carry-forward across pages cannot be audited, and without the export date
// the export-day exclusion cannot be applied. Either one missing is a
// structural error.
func (x *Extractor) PageFooter(document string, page *model.Page) error {
	var left, right []model.Primitive
	mid := page.BBox.X1 / 2
	for _, tb := range page.TextBoxes {
		if tb.BBox.Y1 >= x.tpl.FooterMaxY {
			continue
		}
		if tb.BBox.X0 < mid {
			left = append(left, tb)
		} else {
			right = append(right, tb)
		}
	}

	var pageNum int
	found := false
	for _, tb := range right {
		for _, ln := range tb.Lines {
			if m := pageNumRe.FindStringSubmatch(ln.Text); m != nil {
				n, err := strconv.Atoi(m[1])
				if err != nil {
					return fmt.Errorf("page number %q in footer of %s: %w", m[1], document, err)
				}
				pageNum = n
				found = true
			}
		}
	}
	if !found {
		return fmt.Errorf("page number not found in footer of page index %d of %s", page.Index, document)
	}
	page.Number = pageNum

	for _, tb := range left {
		for _, ln := range tb.Lines {
			m := printedRe.FindStringSubmatch(ln.Text)
			if m == nil {
				continue
			}
			d, err := time.Parse("02.01.2006", m[1])
			if err != nil {
				return fmt.Errorf("export date %q in footer of page %d of %s: %w", m[1], page.Number, document, err)
			}
			page.ExportDate = d.Format("2006-01-02")
			page.ExportUser = m[2]
			return nil
		}
	}
	return fmt.Errorf("export stamp not found in footer of page %d of %s", page.Number, document)
}
