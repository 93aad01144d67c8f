// Package document flattens a fully extracted document tree into output
// rows: one row per administration entry, in page, record, entry order. The
// assembler also resolves the cross-record concerns that no single region
// can decide locally: date carry-forward, absolute timestamps, and the
// export-day exclusion.
package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/tsawler/kurve/diag"
	"github.com/tsawler/kurve/model"
)

// Assembler builds rows from extracted documents.
type Assembler struct {
	obs diag.Observer
}

// New creates an assembler reporting through the given observer.
func New(obs diag.Observer) *Assembler {
	if obs == nil {
		obs = diag.Nop()
	}
	return &Assembler{obs: obs}
}

// Rows flattens the document into output rows. Rows follow document order,
// never a temporal re-sort: page, then record, then entry. Records without a
// parseable date inherit the most recent one seen, which is how multi-page
// records keep their entries dated.
func (a *Assembler) Rows(doc *model.Document) []model.Row {
	var rows []model.Row

	var protocolName, protocolVersion string
	if first := doc.FirstPage(); first != nil {
		protocolName = first.ProtocolName
		protocolVersion = first.ProtocolVersion
	}

	var carried time.Time
	var carriedText string
	for _, page := range doc.Pages {
		for _, rec := range page.Records {
			if !rec.Data.Date.IsZero() {
				carried = rec.Data.Date
				carriedText = rec.Data.DateText
			} else if !carried.IsZero() {
				a.obs.Event(diag.Event{
					Level:    diag.Debug,
					Message:  fmt.Sprintf("record without date, carrying forward %s", carriedText),
					Document: doc.Name,
					Page:     page.Number,
				})
			}

			for _, e := range rec.Entries {
				row := model.Row{
					PatientID:        page.PatientID,
					MedNr:            e.Data.MedNr,
					Protocol:         protocolName,
					ProtocolVersion:  protocolVersion,
					Datum:            carriedText,
					TimeStart:        e.Data.Start,
					TimeEnd:          e.Data.End,
					Application:      e.Data.Application,
					Drug:             e.Data.Drug,
					Premed:           e.Data.Premed,
					ArztShort:        e.Data.Arzt,
					ApothekerShort:   e.Data.Apotheker,
					VerabreichtShort: e.Data.Verabreicht,
					Zyklus:           rec.Data.Cycle,
					DayCycle:         rec.Data.DayInCycle,
					DayProtocol:      rec.Data.DayInProtocol,
					PageID:           rec.Data.PageIndex,
					PageNumber:       rec.Data.PageNumber,
					DocumentName:     doc.Name,
					ExportDate:       page.ExportDate,
					ExportUser:       page.ExportUser,
					Exclusion:        e.Data.Exclusion,
				}

				a.timestamps(doc.Name, page, e, carried, &row)

				// An entry starting on the export day itself may be an
				// incomplete treatment caught mid-export. This overrides any
				// earlier exclusion tag.
				if row.ExportDate != "" && strings.HasPrefix(row.ISOStart, row.ExportDate) {
					a.obs.Event(diag.Event{
						Level:    diag.Error,
						Message:  "entry on day of export, may indicate incomplete treatment",
						Document: doc.Name,
						Page:     page.Number,
						MedNr:    e.Data.MedNr,
					})
					row.Exclusion = model.ExclusionExportDuringTre
				}

				rows = append(rows, row)
			}
		}
	}
	return rows
}

// timestamps fills the absolute start/end and the duration of one row from
// the carried record date and the entry's times of day.
func (a *Assembler) timestamps(document string, page *model.Page, e *model.Entry, carried time.Time, row *model.Row) {
	if carried.IsZero() {
		a.obs.Event(diag.Event{
			Level:    diag.Warn,
			Message:  "no record date available, leaving timestamps empty",
			Document: document,
			Page:     page.Number,
			MedNr:    e.Data.MedNr,
		})
		return
	}

	start, err := timeOfDay(carried, e.Data.Start)
	if err != nil {
		a.obs.Event(diag.Event{
			Level:    diag.Warn,
			Message:  fmt.Sprintf("start time %q: %v", e.Data.Start, err),
			Document: document,
			Page:     page.Number,
			MedNr:    e.Data.MedNr,
		})
		return
	}
	end, err := timeOfDay(carried, e.Data.End)
	if err != nil {
		a.obs.Event(diag.Event{
			Level:    diag.Warn,
			Message:  fmt.Sprintf("end time %q: %v", e.Data.End, err),
			Document: document,
			Page:     page.Number,
			MedNr:    e.Data.MedNr,
		})
		return
	}

	row.ISOStart = start.Format("2006-01-02 15:04:05")
	row.ISOEnd = end.Format("2006-01-02 15:04:05")
	row.Duration = end.Sub(start).Seconds()

	// End before start usually means the infusion ran across midnight; both
	// times are printed without a date, so this cannot be fixed locally. The
	// negative duration is kept so it stays detectable downstream.
	if row.Duration < 0 {
		a.obs.Event(diag.Event{
			Level:    diag.Warn,
			Message:  fmt.Sprintf("negative duration %s to %s, possible midnight rollover", e.Data.Start, e.Data.End),
			Document: document,
			Page:     page.Number,
			MedNr:    e.Data.MedNr,
		})
	}
}

// timeOfDay anchors an "HH:MM" time of day on the given date.
func timeOfDay(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
