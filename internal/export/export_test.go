package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/acastaldi/pedit/internal/model"
)

func sampleRecords() []model.EditRecord {
	return []model.EditRecord{
		{SegmentID: 0, Original: "The cat sat.", Edited: "The cat sat. on the mat.", EditTime: 5.1234, Insertions: 3, Deletions: 0},
		{SegmentID: 1, Original: "It was sunny.", Edited: "It was sunny.", EditTime: 2.0, Insertions: 0, Deletions: 0},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	wantHeader := "segment_id,edit_time,insertions,deletions,original,edited"
	if got := strings.Join(rows[0], ","); got != wantHeader {
		t.Fatalf("header %q, want %q", got, wantHeader)
	}
	if rows[1][0] != "0" || rows[1][1] != "5.1234" || rows[1][2] != "3" || rows[1][5] != "The cat sat. on the mat." {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}

func TestJSONRoundTrip(t *testing.T) {
	records := sampleRecords()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, records); err != nil {
		t.Fatalf("write json: %v", err)
	}
	for _, key := range []string{`"segment_id"`, `"source"`, `"post_edited"`, `"edit_time_seconds"`, `"insertions"`, `"deletions"`} {
		if !strings.Contains(buf.String(), key) {
			t.Fatalf("JSON export missing key %s:\n%s", key, buf.String())
		}
	}

	parsed, err := ParseJSON(&buf)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if len(parsed) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(parsed))
	}
	for i, got := range parsed {
		want := records[i]
		if got.SegmentID != want.SegmentID || got.Insertions != want.Insertions || got.Deletions != want.Deletions {
			t.Fatalf("record %d mismatch: %+v vs %+v", i, got, want)
		}
		if got.Original != want.Original || got.Edited != want.Edited {
			t.Fatalf("record %d text mismatch: %+v", i, got)
		}
		rounded := math.Round(want.EditTime*100) / 100
		if got.EditTime != rounded {
			t.Fatalf("record %d edit time %.4f, want %.2f", i, got.EditTime, rounded)
		}
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Fatalf("empty export %q, want []", got)
	}
}
