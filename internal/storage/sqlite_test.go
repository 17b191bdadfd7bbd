package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func save(t *testing.T, s *Store, mode int, player string, scores ...int) {
	t.Helper()
	for _, sc := range scores {
		if _, err := s.SaveScore(context.Background(), mode, player, sc); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	save(t, store, 1, "alice", 100, 50)
	save(t, store, 1, "bob", 200)
	save(t, store, 2, "alice", 500)

	scores, err := store.TopScores(ctx, 1, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	want := []struct {
		player string
		score  int
	}{{"bob", 200}, {"alice", 100}, {"alice", 50}}
	for i, w := range want {
		if scores[i].Player != w.player || scores[i].Score != w.score {
			t.Errorf("scores[%d] = %s %d, want %s %d", i, scores[i].Player, scores[i].Score, w.player, w.score)
		}
		if scores[i].ModeID != 1 || scores[i].CreatedAt.IsZero() {
			t.Errorf("scores[%d] has mode %d, created %v", i, scores[i].ModeID, scores[i].CreatedAt)
		}
	}

	other, err := store.TopScores(ctx, 2, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("Expected 1 score in mode 2, got %d", len(other))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)
	save(t, store, 1, "p", 100, 200, 300, 400, 500)

	scores, err := store.TopScores(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreLeadersAndRank(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	save(t, store, 1, "alice", 10, 40)
	save(t, store, 1, "bob", 30)
	save(t, store, 1, "carol", 30, 5)
	save(t, store, 1, "dave", 12)
	save(t, store, 2, "erin", 99)

	leaders, err := store.Leaders(ctx, 1, 3)
	if err != nil {
		t.Fatalf("Leaders() failed: %v", err)
	}
	wantLeaders := []string{"alice", "bob", "carol"}
	if len(leaders) != len(wantLeaders) {
		t.Fatalf("Leaders() returned %d rows, want %d", len(leaders), len(wantLeaders))
	}
	for i, name := range wantLeaders {
		if leaders[i].Player != name {
			t.Errorf("leaders[%d] = %s, want %s", i, leaders[i].Player, name)
		}
	}
	if leaders[0].Score != 40 {
		t.Errorf("leaders should carry each player's best, got %d", leaders[0].Score)
	}

	tests := []struct {
		player string
		want   int
	}{
		{"alice", 1},
		{"bob", 2},
		{"carol", 2},
		{"dave", 4},
		{"erin", 0},
		{"nobody", 0},
	}
	for _, tt := range tests {
		got, err := store.Rank(ctx, 1, tt.player)
		if err != nil {
			t.Fatalf("Rank(%s) failed: %v", tt.player, err)
		}
		if got != tt.want {
			t.Errorf("Rank(%s) = %d, want %d", tt.player, got, tt.want)
		}
	}

	st := store.Standing(ctx, 1, "dave", 100)
	if st.Err != nil || st.Rank != 4 || len(st.Top) != 4 {
		t.Errorf("Standing() = %+v", st)
	}
}

func TestStoreHighScoreAndBest(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	high, err := store.HighScore(ctx, 1)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty mode, got %d", high)
	}

	save(t, store, 1, "alice", 100, 300)
	save(t, store, 1, "bob", 200)

	if high, _ = store.HighScore(ctx, 1); high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
	if best, _ := store.BestFor(ctx, 1, "bob"); best != 200 {
		t.Errorf("BestFor(bob) = %d, want 200", best)
	}
	if best, _ := store.BestFor(ctx, 1, "carol"); best != 0 {
		t.Errorf("BestFor(carol) = %d, want 0", best)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	save(t, store, 1, "alice", 100, 200)
	save(t, store, 2, "alice", 300)

	if err := store.ClearScores(ctx, 1); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores(ctx, 1, 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if scores, _ := store.AllScores(ctx, 2); len(scores) != 1 {
		t.Error("Other modes should not be affected by clearing mode 1")
	}
}

func TestStoreModeStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empty, err := store.GetModeStats(ctx, 3)
	if err != nil {
		t.Fatalf("GetModeStats() failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	save(t, store, 3, "alice", 10, 30)
	save(t, store, 3, "bob", 20)

	stats, err := store.GetModeStats(ctx, 3)
	if err != nil {
		t.Fatalf("GetModeStats() failed: %v", err)
	}
	if stats.Runs != 3 || stats.Players != 2 || stats.HighScore != 30 || stats.AvgScore != 20 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestLeaderboardIsAScoreStore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	alice := store.Leaderboard("alice")

	for _, sc := range []int{7, 3} {
		if err := alice.Submit(ctx, 1, sc); err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
	}
	if err := store.Leaderboard("bob").Submit(ctx, 1, 9); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	if best, err := alice.Best(ctx, 1); err != nil || best != 7 {
		t.Errorf("Best() = %d, %v; want 7", best, err)
	}
	if best, _ := alice.Best(ctx, 2); best != 0 {
		t.Errorf("Best() in an unplayed mode = %d", best)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
