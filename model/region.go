package model

// Pair is a bracketing tuple of two markers, the upper (open) marker first.
// Pages are scanned top-down, so every pair used to build a region satisfies
// Open.BBox.Y0 > Close.BBox.Y0.
type Pair struct {
	Open  Primitive
	Close Primitive
}

// Visit is a visit-section region delimited by a pair of medium-gray markers.
// Visit interiors carry no further structure the engine extracts; the region
// exists so records can exclude interleaved visit headers from their trailing
// boundary.
type Visit struct {
	Anchor Pair
	BBox   BBox
	Page   *Page // back-reference, not owned
}

// Record is a record block delimited by a pair of black markers. It owns its
// entries and the header fields extracted from the marker band.
type Record struct {
	Anchor  Pair
	BBox    BBox
	Page    *Page // back-reference, not owned
	Entries []*Entry
	Data    RecordData
}

// EntryAnchor is the text pair that identifies one administration entry: the
// "Med. Nr." line and its adjoining timestamp line.
type EntryAnchor struct {
	Timestamp TextLine
	MedItem   TextLine
}

// Entry is one drug-administration row within a record.
type Entry struct {
	Anchor EntryAnchor
	BBox   BBox
	Page   *Page // back-reference, not owned
	Data   EntryData
}
