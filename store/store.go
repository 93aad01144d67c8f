// Package store persists reconstructed rows into a SQLite database so
// extractions from many documents accumulate into one queryable table.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tsawler/kurve/model"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS rows (
    row_id INTEGER PRIMARY KEY AUTOINCREMENT,
    patient_id TEXT NOT NULL,
    med_nr INTEGER NOT NULL,
    protocol TEXT,
    protocol_version TEXT,
    datum TEXT,
    time_start TEXT,
    time_end TEXT,
    iso_start TEXT,
    iso_end TEXT,
    duration REAL,
    application TEXT,
    drug TEXT,
    premed TEXT,
    arzt_short TEXT,
    apotheker_short TEXT,
    verabreicht_short TEXT,
    zyklus TEXT,
    day_cycle TEXT,
    day_protocol TEXT,
    status TEXT,
    med_desc TEXT,
    page_id INTEGER,
    page_number INTEGER,
    document_name TEXT NOT NULL,
    export_date TEXT,
    export_user TEXT,
    exclusion TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_rows_patient ON rows(patient_id);
CREATE INDEX IF NOT EXISTS idx_rows_document ON rows(document_name);
CREATE INDEX IF NOT EXISTS idx_rows_drug ON rows(drug);
`

// DB is a SQLite-backed row sink.
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{DB: sqlDB, path: path}
	if err := db.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) ensureSchema() error {
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='rows'").Scan(&name)
	if err == sql.ErrNoRows {
		_, err = db.Exec(schema)
		return err
	}
	return err
}

// SaveRows inserts all rows in one transaction. A failed insert rolls back
// the whole batch so a document is either fully stored or not at all.
func (db *DB) SaveRows(rows []model.Row) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO rows (
			patient_id, med_nr, protocol, protocol_version, datum,
			time_start, time_end, iso_start, iso_end, duration,
			application, drug, premed, arzt_short, apotheker_short,
			verabreicht_short, zyklus, day_cycle, day_protocol, status,
			med_desc, page_id, page_number, document_name, export_date,
			export_user, exclusion
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(
			r.PatientID, r.MedNr, r.Protocol, r.ProtocolVersion, r.Datum,
			r.TimeStart, r.TimeEnd, r.ISOStart, r.ISOEnd, r.Duration,
			r.Application, r.Drug, r.Premed, r.ArztShort, r.ApothekerShort,
			r.VerabreichtShort, r.Zyklus, r.DayCycle, r.DayProtocol, r.Status,
			r.MedDesc, r.PageID, r.PageNumber, r.DocumentName, r.ExportDate,
			r.ExportUser, r.Exclusion,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("inserting row for med nr %d of %s: %w", r.MedNr, r.DocumentName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rows: %w", err)
	}
	return nil
}

// CountRows returns the number of stored rows for a document, or all rows
// when document is empty.
func (db *DB) CountRows(document string) (int, error) {
	var n int
	var err error
	if document == "" {
		err = db.QueryRow("SELECT COUNT(*) FROM rows").Scan(&n)
	} else {
		err = db.QueryRow("SELECT COUNT(*) FROM rows WHERE document_name = ?", document).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}
