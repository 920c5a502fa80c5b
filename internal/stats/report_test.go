package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/acastaldi/pedit/internal/model"
	"github.com/acastaldi/pedit/internal/store"
)

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "pedit.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	userID, err := st.CreateUser(ctx, model.User{
		Name: "Ada", Surname: "Lovelace", Email: "ada@example.com", PasswordHash: "x", Active: true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err = st.SaveSession(ctx, model.SessionBundle{
		UserID:    userID,
		StartedAt: time.Unix(0, 0),
		EndedAt:   time.Unix(60, 0),
		Records: []model.EditRecord{
			{SegmentID: 0, EditTime: 4.0, Insertions: 1, Deletions: 1},
			{SegmentID: 1, EditTime: 8.0, Insertions: 2, Deletions: 0},
		},
	})
	if err != nil {
		t.Fatalf("save session: %v", err)
	}
	return st
}

func TestBuildReport(t *testing.T) {
	st := seedStore(t)
	report, err := BuildReport(context.Background(), st, model.StatsConfig{CurveWindow: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Overview.Users != 1 || report.Overview.Segments != 2 {
		t.Fatalf("unexpected overview: %+v", report.Overview)
	}
	if report.Overview.TotalTime != 12.0 || report.Overview.AvgTimePerSeg != 6.0 {
		t.Fatalf("unexpected time totals: %+v", report.Overview)
	}
	if len(report.Aggregates) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(report.Aggregates))
	}
	curve := report.Curves[report.Aggregates[0].UserID]
	if len(curve) != 2 || curve[0] != 4.0 || curve[1] != 8.0 {
		t.Fatalf("unexpected curve: %v", curve)
	}
}

func TestRenderOverviewAndUserTable(t *testing.T) {
	st := seedStore(t)
	report, err := BuildReport(context.Background(), st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	var buf bytes.Buffer
	if err := RenderOverview(&buf, report.Overview); err != nil {
		t.Fatalf("render overview: %v", err)
	}
	if err := RenderUserTable(&buf, report.Aggregates); err != nil {
		t.Fatalf("render user table: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Project Overview", "Users: 1", "Segments: 2", "Ada Lovelace", "0m 12s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderUserCurves(t *testing.T) {
	st := seedStore(t)
	report, err := BuildReport(context.Background(), st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderUserCurves(&buf, report, 60, 6, false); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	if !strings.Contains(buf.String(), "Edit Time per Segment: Ada Lovelace") {
		t.Fatalf("curve title missing:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Legend:") {
		t.Fatalf("legend missing:\n%s", buf.String())
	}
}

func TestPlotSeriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", nil, 20, 5); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty series must produce no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if w := PlotWidthFor(80); w <= minPlotWidth {
		t.Fatalf("80-column plot width too small: %d", w)
	}
	if w := PlotWidthFor(0); w != minPlotWidth {
		t.Fatalf("degenerate width must clamp to minimum, got %d", w)
	}
}
