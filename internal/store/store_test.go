package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open(%q) error: %v", dsn, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStudyHash_NormalizesWhitespace(t *testing.T) {
	a := StudyHash("1. e4 e5 2. Nf3")
	b := StudyHash("  1. e4\n e5   2. Nf3 ")
	if a != b {
		t.Errorf("hashes differ for equivalent movetext: %q vs %q", a, b)
	}
	if a == StudyHash("1. d4 d5") {
		t.Error("different movetext produced the same hash")
	}
}

func TestProgressRepo_SaveAndLoadOrdered(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.ProgressRepo()

	hashes := []string{"aaa", "bbb", "ccc"}
	if err := repo.SaveVisited(ctx, "study1", hashes); err != nil {
		t.Fatalf("SaveVisited error: %v", err)
	}

	got, err := repo.Visited(ctx, "study1")
	if err != nil {
		t.Fatalf("Visited error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Visited returned %d hashes, want 3", len(got))
	}
	for i, h := range hashes {
		if got[i] != h {
			t.Errorf("Visited[%d] = %q, want %q", i, got[i], h)
		}
	}
}

func TestProgressRepo_SaveIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.ProgressRepo()

	if err := repo.SaveVisited(ctx, "study1", []string{"aaa", "bbb"}); err != nil {
		t.Fatalf("first SaveVisited error: %v", err)
	}
	if err := repo.SaveVisited(ctx, "study1", []string{"aaa", "bbb", "ccc"}); err != nil {
		t.Fatalf("second SaveVisited error: %v", err)
	}

	got, err := repo.Visited(ctx, "study1")
	if err != nil {
		t.Fatalf("Visited error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Visited returned %d hashes, want 3", len(got))
	}
}

func TestProgressRepo_ClearScopedToStudy(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.ProgressRepo()

	repo.SaveVisited(ctx, "study1", []string{"aaa"})
	repo.SaveVisited(ctx, "study2", []string{"bbb"})

	if err := repo.Clear(ctx, "study1"); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	got1, _ := repo.Visited(ctx, "study1")
	got2, _ := repo.Visited(ctx, "study2")
	if len(got1) != 0 {
		t.Errorf("study1 still has %d hashes after Clear", len(got1))
	}
	if len(got2) != 1 {
		t.Errorf("study2 has %d hashes, want 1", len(got2))
	}

	if err := repo.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll error: %v", err)
	}
	got2, _ = repo.Visited(ctx, "study2")
	if len(got2) != 0 {
		t.Errorf("study2 still has %d hashes after ClearAll", len(got2))
	}
}

func TestProgressRepo_Studies(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.ProgressRepo()

	repo.SaveVisited(ctx, "study1", []string{"aaa", "bbb"})
	repo.SaveVisited(ctx, "study2", []string{"ccc"})

	studies, err := repo.Studies(ctx)
	if err != nil {
		t.Fatalf("Studies error: %v", err)
	}
	if len(studies) != 2 {
		t.Fatalf("Studies returned %d entries, want 2", len(studies))
	}
	counts := map[string]int{}
	for _, sp := range studies {
		counts[sp.StudyHash] = sp.VisitedCount
		if sp.LastVisited.IsZero() {
			t.Errorf("LastVisited zero for %s", sp.StudyHash)
		}
	}
	if counts["study1"] != 2 || counts["study2"] != 1 {
		t.Errorf("counts = %v, want study1:2 study2:1", counts)
	}
}

func TestDrillRepo_AppendAndStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.DrillRepo()

	events := []string{
		ActionMoveAccepted, ActionMoveAccepted, ActionMoveAccepted,
		ActionMoveRejected,
		ActionLineCompleted,
		ActionHintRequested,
		ActionDrillFinished,
	}
	for _, action := range events {
		if err := repo.Append(ctx, "study1", "sess1", action, ""); err != nil {
			t.Fatalf("Append(%q) error: %v", action, err)
		}
	}
	// Events for another study must not leak into study1's stats.
	repo.Append(ctx, "study2", "sess2", ActionMoveAccepted, "")

	stats, err := repo.Stats(ctx, "study1")
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.MovesAccepted != 3 {
		t.Errorf("MovesAccepted = %d, want 3", stats.MovesAccepted)
	}
	if stats.MovesRejected != 1 {
		t.Errorf("MovesRejected = %d, want 1", stats.MovesRejected)
	}
	if stats.LinesCompleted != 1 {
		t.Errorf("LinesCompleted = %d, want 1", stats.LinesCompleted)
	}
	if stats.Hints != 1 {
		t.Errorf("Hints = %d, want 1", stats.Hints)
	}
	if got := stats.Accuracy(); got != 0.75 {
		t.Errorf("Accuracy() = %v, want 0.75", got)
	}
}

func TestDrillStats_AccuracyEmpty(t *testing.T) {
	var st DrillStats
	if got := st.Accuracy(); got != 0 {
		t.Errorf("Accuracy() = %v, want 0 for no attempts", got)
	}
}
