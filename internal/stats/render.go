package stats

import (
	"fmt"
	"io"

	"github.com/acastaldi/pedit/internal/model"
)

// RenderOverview prints project-wide totals.
func RenderOverview(w io.Writer, overview Overview) error {
	if overview.Users == 0 {
		_, err := fmt.Fprintln(w, "No user data available yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Project Overview"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Users: %d\n", overview.Users); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Segments: %d\n", overview.Segments); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total Time: %s\n", FormatSeconds(overview.TotalTime)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Time/Segment: %s\n", FormatSeconds(overview.AvgTimePerSeg)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total Edits: %d\n", overview.Edits); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderUserTable prints per-user aggregates.
func RenderUserTable(w io.Writer, aggs []model.UserAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No users found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "User Performance"); err != nil {
		return err
	}
	headers := []string{"User", "Segments", "Total Time", "Avg Time", "Edits"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []string{
			fmt.Sprintf("%s %s", agg.Name, agg.Surname),
			fmt.Sprintf("%d", agg.Segments),
			FormatSeconds(agg.TotalTime),
			FormatSeconds(agg.AvgTime),
			fmt.Sprintf("%d", agg.Edits),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderUserCurves prints an edit-time curve per user.
func RenderUserCurves(w io.Writer, report Report, totalWidth, height int, useColor bool) error {
	for _, agg := range report.Aggregates {
		series := report.Curves[agg.UserID]
		if len(series) == 0 {
			continue
		}
		title := fmt.Sprintf("Edit Time per Segment: %s %s", agg.Name, agg.Surname)
		width := 0
		if totalWidth > 0 {
			width = PlotWidthFor(totalWidth)
		}
		if err := PlotSeriesWithColor(w, title, []Series{
			{Name: "Edit Time (s)", Values: series},
		}, width, height, useColor); err != nil {
			return err
		}
	}
	return nil
}
