package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/model"
)

// SaveExtraction persists a run and all its per-period values in one transaction.
// Nil field values become SQL NULL so the closed-map invariant round-trips.
func (s *Store) SaveExtraction(ext model.Extraction, periods []model.PeriodRecord) error {
	warnings, err := json.Marshal(ext.Warnings)
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO extractions (id, filename, file_hash, sheet_name, period_count, status, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ext.ID, ext.Filename, ext.FileHash, ext.SheetName, ext.PeriodCount, ext.Status, string(warnings))
	if err != nil {
		return fmt.Errorf("failed to insert extraction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO extraction_values (extraction_id, period_index, field_key, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare values insert: %w", err)
	}
	defer stmt.Close()

	for periodIdx, rec := range periods {
		for key, value := range rec {
			var v interface{}
			if value != nil {
				v = *value
			}
			if _, err := stmt.Exec(ext.ID, periodIdx, string(key), v); err != nil {
				return fmt.Errorf("failed to insert value %s/%d: %w", key, periodIdx, err)
			}
		}
	}

	return tx.Commit()
}

// ListExtractions returns all persisted runs, newest first.
func (s *Store) ListExtractions() ([]model.Extraction, error) {
	rows, err := s.db.Query(`
		SELECT id, filename, file_hash, sheet_name, period_count, status, warnings, created_at
		FROM extractions
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list extractions: %w", err)
	}
	defer rows.Close()

	out := make([]model.Extraction, 0)
	for rows.Next() {
		ext, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ext)
	}
	return out, rows.Err()
}

// GetExtraction loads a run and rebuilds its period records.
// Returns (nil, nil) when the id is unknown.
func (s *Store) GetExtraction(id string) (*model.ExtractionDetail, error) {
	row := s.db.QueryRow(`
		SELECT id, filename, file_hash, sheet_name, period_count, status, warnings, created_at
		FROM extractions WHERE id = ?
	`, id)

	ext, err := scanExtraction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	periods := make([]model.PeriodRecord, ext.PeriodCount)
	for i := range periods {
		periods[i] = make(model.PeriodRecord)
	}

	rows, err := s.db.Query(`
		SELECT period_index, field_key, value
		FROM extraction_values WHERE extraction_id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load extraction values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var periodIdx int
		var key string
		var value sql.NullFloat64
		if err := rows.Scan(&periodIdx, &key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan extraction value: %w", err)
		}
		if periodIdx < 0 || periodIdx >= len(periods) {
			continue
		}
		if value.Valid {
			v := value.Float64
			periods[periodIdx][model.FieldKey(key)] = &v
		} else {
			periods[periodIdx][model.FieldKey(key)] = nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.ExtractionDetail{Extraction: ext, Periods: periods}, nil
}

// DeleteExtraction removes a run and its values.
func (s *Store) DeleteExtraction(id string) error {
	if _, err := s.db.Exec(`DELETE FROM extraction_values WHERE extraction_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete extraction values: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM extractions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete extraction: %w", err)
	}
	return nil
}

// CountExtractions returns the number of persisted runs.
func (s *Store) CountExtractions() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM extractions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count extractions: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExtraction(row rowScanner) (model.Extraction, error) {
	var ext model.Extraction
	var warnings string
	err := row.Scan(&ext.ID, &ext.Filename, &ext.FileHash, &ext.SheetName,
		&ext.PeriodCount, &ext.Status, &warnings, &ext.CreatedAt)
	if err == sql.ErrNoRows {
		return ext, err
	}
	if err != nil {
		return ext, fmt.Errorf("failed to scan extraction: %w", err)
	}
	if err := json.Unmarshal([]byte(warnings), &ext.Warnings); err != nil {
		ext.Warnings = []string{}
	}
	return ext, nil
}
