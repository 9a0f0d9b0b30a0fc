package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "galaxies.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galaxies.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	id, err := first.CreateGame(context.Background(), "Sol", []byte("game_duration: 5"))
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer second.Close()
	rec, err := second.GetGame(context.Background(), id)
	if err != nil {
		t.Fatalf("get game after reopen: %v", err)
	}
	if rec.Name != "Sol" {
		t.Fatalf("expected name Sol, got %q", rec.Name)
	}
}

func TestCreateAndGetGame(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	def := []byte("game_duration: 20\ninitial_credits: 100\n")
	id, err := store.CreateGame(ctx, "  Sol  ", def)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	rec, err := store.GetGame(ctx, id)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if rec.ID != id || rec.Name != "Sol" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if string(rec.Definition) != string(def) {
		t.Fatalf("definition = %q, want %q", rec.Definition, def)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestCreateGameRejectsMissingFields(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if _, err := store.CreateGame(ctx, "", []byte("x")); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := store.CreateGame(ctx, "Sol", nil); err == nil {
		t.Fatal("expected error for empty definition")
	}
}

func TestGetGameNotFound(t *testing.T) {
	store := openTempStore(t)
	if _, err := store.GetGame(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListGames(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	games, err := store.ListGames(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(games))
	}

	for _, name := range []string{"Sol", "Proxima"} {
		if _, err := store.CreateGame(ctx, name, []byte("x")); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	games, err = store.ListGames(ctx)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	names := map[string]bool{}
	for _, g := range games {
		names[g.Name] = true
	}
	if !names["Sol"] || !names["Proxima"] {
		t.Fatalf("unexpected catalog %+v", games)
	}
}

func TestSubmitScoreKeepsBest(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	id, err := store.CreateGame(ctx, "Sol", []byte("x"))
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	steps := []struct {
		player string
		score  int
		best   string
		max    int
	}{
		{player: "ann", score: 120, best: "ann", max: 120},
		{player: "bob", score: 90, best: "ann", max: 120},
		{player: "cyd", score: 120, best: "ann", max: 120},
		{player: "dee", score: 300, best: "dee", max: 300},
	}
	for _, step := range steps {
		if err := store.SubmitScore(ctx, step.player, step.score, id); err != nil {
			t.Fatalf("submit %s: %v", step.player, err)
		}
		top, err := store.TopScores(ctx, 5)
		if err != nil {
			t.Fatalf("top scores: %v", err)
		}
		if len(top) != 1 {
			t.Fatalf("expected one leaderboard row, got %d", len(top))
		}
		if top[0].Player != step.best || top[0].Score != step.max {
			t.Fatalf("after %s: got %s/%d, want %s/%d", step.player, top[0].Player, top[0].Score, step.best, step.max)
		}
	}
}

func TestSubmitScoreUnknownGame(t *testing.T) {
	store := openTempStore(t)
	err := store.SubmitScore(context.Background(), "ann", 10, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTopScoresOrderAndLimit(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	for i, score := range []int{50, 400, 10, 300, 200, 100} {
		id, err := store.CreateGame(ctx, "game", []byte("x"))
		if err != nil {
			t.Fatalf("create game %d: %v", i, err)
		}
		if err := store.SubmitScore(ctx, "p", score, id); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	// Unplayed games never appear.
	if _, err := store.CreateGame(ctx, "unplayed", []byte("x")); err != nil {
		t.Fatalf("create unplayed: %v", err)
	}

	top, err := store.TopScores(ctx, 0)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	want := []int{400, 300, 200, 100, 50}
	if len(top) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(top))
	}
	for i, score := range want {
		if top[i].Score != score {
			t.Fatalf("row %d: got %d, want %d", i, top[i].Score, score)
		}
	}
}

func TestUpSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;\n"
	up := upSection(content)
	if up != "\nCREATE TABLE a (x);\n" {
		t.Fatalf("unexpected up section %q", up)
	}
	if got := upSection("SELECT 1;"); got != "SELECT 1;" {
		t.Fatalf("expected whole content without markers, got %q", got)
	}
}
