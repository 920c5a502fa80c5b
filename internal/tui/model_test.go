package tui

import (
	"strings"
	"testing"

	"github.com/acastaldi/pedit/internal/model"
	"github.com/acastaldi/pedit/internal/session"
)

func TestRenderRecordTable(t *testing.T) {
	records := []model.EditRecord{
		{SegmentID: 0, EditTime: 5.25, Insertions: 3, Deletions: 1},
		{SegmentID: 1, EditTime: 2.0, Insertions: 0, Deletions: 0},
	}
	out := renderRecordTable(records)
	for _, want := range []string{"segment", "5.25", "2.00", "3", "1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("record table missing %q:\n%s", want, out)
		}
	}
}

func TestViewSummary(t *testing.T) {
	nav := session.NewNavigator()
	if err := nav.Load([]string{"one", "two"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := nav.Advance("one edited"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := nav.Advance("two"); err != nil {
		t.Fatalf("advance: %v", err)
	}

	m := &Model{nav: nav, keys: defaultKeyMap(), user: model.User{Name: "Ada", Surname: "Lovelace"}}
	out := m.viewSummary()
	for _, want := range []string{"Post-editing completed!", "Total Segments:", "2", "Press q to exit."} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderProgress(t *testing.T) {
	nav := session.NewNavigator()
	if err := nav.Load([]string{"a", "b", "c", "d"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := nav.Advance("a"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	m := &Model{nav: nav, keys: defaultKeyMap()}
	out := m.renderProgress(20)
	if out == "" {
		t.Fatalf("expected progress bar output")
	}
	if !strings.Contains(out, "█") || !strings.Contains(out, "░") {
		t.Fatalf("quarter progress should show both filled and empty cells: %q", out)
	}
}

func TestFooterShowsNavigatorError(t *testing.T) {
	nav := session.NewNavigator()
	if err := nav.Load([]string{"a"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	m := &Model{nav: nav, keys: defaultKeyMap(), errMsg: "invalid transition retreat in state active at segment 0"}
	out := m.renderFooter()
	if !strings.Contains(out, "invalid transition") {
		t.Fatalf("footer must surface errors: %q", out)
	}
}
