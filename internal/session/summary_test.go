package session

import (
	"math/rand"
	"testing"

	"github.com/acastaldi/pedit/internal/model"
)

func sampleRecords() []model.EditRecord {
	return []model.EditRecord{
		{SegmentID: 0, Original: "a b", Edited: "a b c", EditTime: 5.0, Insertions: 1, Deletions: 0},
		{SegmentID: 1, Original: "x", Edited: "y", EditTime: 2.5, Insertions: 1, Deletions: 1},
		{SegmentID: 0, Original: "a b", Edited: "a", EditTime: 1.5, Insertions: 0, Deletions: 1},
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleRecords())
	if summary.TotalSegments != 3 {
		t.Fatalf("total segments %d, want 3", summary.TotalSegments)
	}
	if summary.TotalTime != 9.0 {
		t.Fatalf("total time %.2f, want 9.00", summary.TotalTime)
	}
	if summary.AverageTime != 3.0 {
		t.Fatalf("average time %.2f, want 3.00", summary.AverageTime)
	}
	if summary.TotalInsertions != 2 || summary.TotalDeletions != 2 {
		t.Fatalf("totals (%d, %d), want (2, 2)", summary.TotalInsertions, summary.TotalDeletions)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	if summary != (model.SessionSummary{}) {
		t.Fatalf("empty history must yield zero summary, got %+v", summary)
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	records := sampleRecords()
	want := Summarize(records)
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]model.EditRecord(nil), records...)
		rnd.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := Summarize(shuffled); got != want {
			t.Fatalf("summary changed under shuffle: %+v vs %+v", got, want)
		}
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleRecords())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	first := rows[0]
	if len(first) != len(RowHeaders) {
		t.Fatalf("row width %d, want %d", len(first), len(RowHeaders))
	}
	if first[0] != "0" || first[1] != "5.00" || first[2] != "1" || first[3] != "0" {
		t.Fatalf("unexpected first row: %v", first)
	}
	if first[4] != "a b" || first[5] != "a b c" {
		t.Fatalf("row must carry original and edited text: %v", first)
	}
}
