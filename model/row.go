package model

import "time"

// Exclusion tags. An excluded entry is annotated, never dropped, so reviewers
// can audit every entry that deviated from the expected pattern.
const (
	ExclusionCancelled       = "CancelledEntry"
	ExclusionInvalid         = "InvalidEntry"
	ExclusionExportDuringTre = "ExportDuringTreatment"
)

// Application routes.
const (
	ApplicationInfusion  = "infusion"
	ApplicationInjection = "injection"
	ApplicationOther     = "other"
)

// EntryData is the typed field set extracted from one entry region. Keys are
// fixed and always present; values may be empty when the entry omitted or
// withheld them.
type EntryData struct {
	MedNr       int
	Start       string // time of day, "HH:MM"
	End         string
	Application string
	Drug        string
	Premed      string
	Arzt        string // prescribing clinician initials, lowercased
	Apotheker   string // dispensing pharmacist initials
	Verabreicht string // administering nurse initials
	Exclusion   string // empty when the entry is clinically valid
}

// RecordData is the typed field set extracted from a record header.
type RecordData struct {
	Date          time.Time // zero when the header date failed to parse
	DateText      string    // display form as printed, e.g. "Mo, 15. Jan 2024"
	Cycle         string    // empty when the protocol revision omits the anchor
	DayInCycle    string
	DayInProtocol string
	Location      string
	PageIndex     int
	PageNumber    int
}

// Row is one flat output record per administration entry: the external
// contract serialization and storage depend on. Field presence is guaranteed;
// field values follow the extraction rules and may be empty.
type Row struct {
	PatientID        string  `json:"patientID"`
	MedNr            int     `json:"medNr"`
	Protocol         string  `json:"protocol"`
	ProtocolVersion  string  `json:"protocolVersion"`
	Datum            string  `json:"datum"`
	TimeStart        string  `json:"timeStart"`
	TimeEnd          string  `json:"timeEnd"`
	ISOStart         string  `json:"isoStart"`
	ISOEnd           string  `json:"isoEnd"`
	Duration         float64 `json:"duration"` // seconds
	Application      string  `json:"application"`
	Drug             string  `json:"drug"`
	Premed           string  `json:"premed"`
	ArztShort        string  `json:"arztShort"`
	ApothekerShort   string  `json:"apothekerShort"`
	VerabreichtShort string  `json:"verabreichtShort"`
	Zyklus           string  `json:"zyklus"`
	DayCycle         string  `json:"day_cycle"`
	DayProtocol      string  `json:"day_protocol"`
	Status           string  `json:"status"`
	MedDesc          string  `json:"MedDesc"`
	PageID           int     `json:"pageID"`
	PageNumber       int     `json:"pageNumber"`
	DocumentName     string  `json:"documentName"`
	ExportDate       string  `json:"exportDate"`
	ExportUser       string  `json:"exportUser"`
	Exclusion        string  `json:"exclusion"`
}
