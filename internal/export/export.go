// Package export serializes edit records to CSV and JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/acastaldi/pedit/internal/model"
)

var csvHeader = []string{"segment_id", "edit_time", "insertions", "deletions", "original", "edited"}

// WriteCSV writes one row per record. Edit times keep full precision so
// the CSV is lossless.
func WriteCSV(w io.Writer, records []model.EditRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.SegmentID),
			strconv.FormatFloat(r.EditTime, 'f', -1, 64),
			strconv.Itoa(r.Insertions),
			strconv.Itoa(r.Deletions),
			r.Original,
			r.Edited,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// jsonRecord mirrors the published JSON export shape.
type jsonRecord struct {
	SegmentID   int     `json:"segment_id"`
	Source      string  `json:"source"`
	PostEdited  string  `json:"post_edited"`
	EditSeconds float64 `json:"edit_time_seconds"`
	Insertions  int     `json:"insertions"`
	Deletions   int     `json:"deletions"`
}

// WriteJSON writes records as an indented JSON array. Edit times are
// rounded to two decimals.
func WriteJSON(w io.Writer, records []model.EditRecord) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		out = append(out, jsonRecord{
			SegmentID:   r.SegmentID,
			Source:      r.Original,
			PostEdited:  r.Edited,
			EditSeconds: round2(r.EditTime),
			Insertions:  r.Insertions,
			Deletions:   r.Deletions,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ParseJSON reads a JSON export back into edit records.
func ParseJSON(r io.Reader) ([]model.EditRecord, error) {
	var in []jsonRecord
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to decode JSON export: %w", err)
	}
	records := make([]model.EditRecord, 0, len(in))
	for _, jr := range in {
		records = append(records, model.EditRecord{
			SegmentID:  jr.SegmentID,
			Original:   jr.Source,
			Edited:     jr.PostEdited,
			EditTime:   jr.EditSeconds,
			Insertions: jr.Insertions,
			Deletions:  jr.Deletions,
		})
	}
	return records, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
