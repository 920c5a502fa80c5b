package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/acastaldi/pedit/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "pedit.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func createTestUser(t *testing.T, st *Store, email string) int64 {
	t.Helper()
	id, err := st.CreateUser(context.Background(), model.User{
		Name:         "Ada",
		Surname:      "Lovelace",
		Email:        email,
		PasswordHash: "hash",
		Active:       true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func saveTestSession(t *testing.T, st *Store, userID int64, endedAt time.Time, records []model.EditRecord) int64 {
	t.Helper()
	id, err := st.SaveSession(context.Background(), model.SessionBundle{
		UserID:     userID,
		StartedAt:  endedAt.Add(-time.Minute),
		EndedAt:    endedAt,
		CorpusPath: "corpus.txt",
		Records:    records,
	})
	if err != nil {
		t.Fatalf("save session: %v", err)
	}
	return id
}

func TestUserRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id := createTestUser(t, st, "ada@example.com")
	user, err := st.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.ID != id || user.Name != "Ada" || user.Surname != "Lovelace" || !user.Active {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := st.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := st.CreateUser(ctx, model.User{Email: "ada@example.com", Name: "Dup", Surname: "User", PasswordHash: "x"}); err == nil {
		t.Fatalf("expected duplicate email to fail")
	}

	users, err := st.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
}

func TestSessionRecordsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, st, "ada@example.com")

	records := []model.EditRecord{
		{SegmentID: 0, Original: "a", Edited: "a x", EditTime: 5.0, Insertions: 1, Deletions: 0},
		{SegmentID: 1, Original: "b", Edited: "c", EditTime: 2.0, Insertions: 1, Deletions: 1},
		{SegmentID: 0, Original: "a", Edited: "a y", EditTime: 1.0, Insertions: 1, Deletions: 0},
	}
	saveTestSession(t, st, userID, time.Unix(1000, 0), records)

	got, err := st.LatestRecords(ctx, userID)
	if err != nil {
		t.Fatalf("latest records: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("records round trip mismatch:\n got %+v\nwant %+v", got, records)
	}
}

func TestLatestRecordsPicksNewestSession(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, st, "ada@example.com")

	saveTestSession(t, st, userID, time.Unix(1000, 0), []model.EditRecord{
		{SegmentID: 0, Original: "old", Edited: "old", EditTime: 1.0},
	})
	saveTestSession(t, st, userID, time.Unix(2000, 0), []model.EditRecord{
		{SegmentID: 0, Original: "new", Edited: "newer", EditTime: 2.0, Insertions: 1, Deletions: 1},
	})

	got, err := st.LatestRecords(ctx, userID)
	if err != nil {
		t.Fatalf("latest records: %v", err)
	}
	if len(got) != 1 || got[0].Original != "new" {
		t.Fatalf("expected newest session records, got %+v", got)
	}
}

func TestPostEditedSegmentsLatestPerSegment(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, st, "ada@example.com")

	saveTestSession(t, st, userID, time.Unix(1000, 0), []model.EditRecord{
		{SegmentID: 1, Original: "b", Edited: "b first", EditTime: 1.0},
		{SegmentID: 0, Original: "a", Edited: "a first", EditTime: 1.0},
		{SegmentID: 1, Original: "b", Edited: "b second", EditTime: 1.0},
	})

	edited, err := st.PostEditedSegments(ctx, userID)
	if err != nil {
		t.Fatalf("post-edited segments: %v", err)
	}
	want := []string{"a first", "b second"}
	if !reflect.DeepEqual(edited, want) {
		t.Fatalf("edited %v, want %v", edited, want)
	}
}

func TestUserAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, st, "ada@example.com")

	saveTestSession(t, st, userID, time.Unix(1000, 0), []model.EditRecord{
		{SegmentID: 0, EditTime: 4.0, Insertions: 2, Deletions: 1},
		{SegmentID: 1, EditTime: 2.0, Insertions: 0, Deletions: 0},
	})

	aggs, err := st.UserAggregates(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("aggregates: %v", err)
	}
	if len(aggs) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(aggs))
	}
	agg := aggs[0]
	if agg.Segments != 2 || agg.TotalTime != 6.0 || agg.AvgTime != 3.0 || agg.Edits != 3 {
		t.Fatalf("unexpected aggregate: %+v", agg)
	}

	aggs, err = st.UserAggregates(ctx, model.StatsConfig{Email: "other@example.com"})
	if err != nil {
		t.Fatalf("aggregates filtered: %v", err)
	}
	if len(aggs) != 0 {
		t.Fatalf("expected no aggregates for unknown email, got %d", len(aggs))
	}
}

func TestEditTimeSeries(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, st, "ada@example.com")

	saveTestSession(t, st, userID, time.Unix(1000, 0), []model.EditRecord{
		{SegmentID: 0, EditTime: 1.0},
		{SegmentID: 1, EditTime: 2.0},
	})
	saveTestSession(t, st, userID, time.Unix(2000, 0), []model.EditRecord{
		{SegmentID: 0, EditTime: 3.0},
	})

	series, err := st.EditTimeSeries(ctx, userID)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if !reflect.DeepEqual(series, []float64{1.0, 2.0, 3.0}) {
		t.Fatalf("series %v", series)
	}
}
