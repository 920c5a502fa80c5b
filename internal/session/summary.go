package session

import (
	"fmt"

	"github.com/acastaldi/pedit/internal/model"
)

// Summarize folds a record history into summary statistics. Totals count
// transitions, not unique segments, so revisits are included. An empty
// history yields a zero summary.
func Summarize(records []model.EditRecord) model.SessionSummary {
	summary := model.SessionSummary{TotalSegments: len(records)}
	for _, r := range records {
		summary.TotalTime += r.EditTime
		summary.TotalInsertions += r.Insertions
		summary.TotalDeletions += r.Deletions
	}
	if summary.TotalSegments > 0 {
		summary.AverageTime = summary.TotalTime / float64(summary.TotalSegments)
	}
	return summary
}

// RowHeaders are the columns of the tabular projection.
var RowHeaders = []string{"segment_id", "edit_time", "insertions", "deletions", "original", "edited"}

// Rows projects records into ordered display rows, one per record. The
// projection produces data only; serialization lives elsewhere.
func Rows(records []model.EditRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.SegmentID),
			fmt.Sprintf("%.2f", r.EditTime),
			fmt.Sprintf("%d", r.Insertions),
			fmt.Sprintf("%d", r.Deletions),
			r.Original,
			r.Edited,
		})
	}
	return rows
}
