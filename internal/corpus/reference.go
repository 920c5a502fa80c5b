package corpus

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MalformedReferenceError reports an unreadable or unparseable reference
// file.
type MalformedReferenceError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedReferenceError) Error() string {
	return fmt.Sprintf("malformed reference file %s: %s", e.Path, e.Reason)
}

func (e *MalformedReferenceError) Unwrap() error {
	return e.Err
}

// LoadReferences reads reference translations for scoring. Plain text
// files hold one reference per line; CSV files must carry a "reference"
// column.
func LoadReferences(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadReferenceCSV(path)
	case ".txt", "":
		refs, err := LoadSegments(path)
		if err != nil {
			return nil, &MalformedReferenceError{Path: path, Reason: "cannot read", Err: err}
		}
		if len(refs) == 0 {
			return nil, &MalformedReferenceError{Path: path, Reason: "no reference lines"}
		}
		return refs, nil
	default:
		return nil, &MalformedReferenceError{Path: path, Reason: fmt.Sprintf("unsupported extension %s", filepath.Ext(path))}
	}
}

func loadReferenceCSV(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &MalformedReferenceError{Path: path, Reason: "cannot open", Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only reference file.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &MalformedReferenceError{Path: path, Reason: "invalid CSV", Err: err}
	}
	if len(rows) == 0 {
		return nil, &MalformedReferenceError{Path: path, Reason: "empty CSV"}
	}
	col := -1
	for i, header := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(header), "reference") {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, &MalformedReferenceError{Path: path, Reason: `missing "reference" column`}
	}
	refs := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		ref := strings.TrimSpace(row[col])
		if ref == "" {
			continue
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return nil, &MalformedReferenceError{Path: path, Reason: "no reference rows"}
	}
	return refs, nil
}
