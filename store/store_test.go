package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nathoo/lockedstudy/engine/effects"
	"github.com/nathoo/lockedstudy/engine/events"
	"github.com/nathoo/lockedstudy/types"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBest_Empty(t *testing.T) {
	s := openTest(t)
	_, ok, err := s.Best(context.Background())
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if ok {
		t.Error("expected no best run in an empty store")
	}
}

func TestRecordWin_AndBest(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	runs := []Run{
		{SessionID: "a", Moves: 9, Hints: 0, FinishedAt: base},
		{SessionID: "b", Moves: 7, Hints: 1, Items: []string{"Golden Key"}, FinishedAt: base.Add(time.Minute)},
		{SessionID: "c", Moves: 7, Hints: 0, Items: []string{"Golden Key"}, FinishedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range runs {
		got, err := s.RecordWin(ctx, r)
		if err != nil {
			t.Fatalf("RecordWin: %v", err)
		}
		if got.ID == 0 {
			t.Error("expected an assigned ID")
		}
	}

	best, ok, err := s.Best(ctx)
	if err != nil || !ok {
		t.Fatalf("Best: ok=%v err=%v", ok, err)
	}
	if best.SessionID != "c" {
		t.Errorf("best = %q, want c (fewest moves, then fewest hints)", best.SessionID)
	}
	if len(best.Items) != 1 || best.Items[0] != "Golden Key" {
		t.Errorf("best items = %v", best.Items)
	}
	if !best.FinishedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("FinishedAt = %v", best.FinishedAt)
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		if _, err := s.RecordWin(ctx, Run{SessionID: id, Moves: 7, FinishedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].SessionID != "third" || got[1].SessionID != "second" {
		t.Errorf("Recent = %+v", got)
	}
	if got, _ := s.Recent(ctx, 0); got != nil {
		t.Errorf("Recent(0) = %v, want nil", got)
	}
}

func TestRecordWin_RequiresSession(t *testing.T) {
	s := openTest(t)
	if _, err := s.RecordWin(context.Background(), Run{Moves: 3}); err == nil {
		t.Fatal("expected error for run without session id")
	}
}

func TestRecorder_StoresWonEvent(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	evts := []types.Event{
		{Type: effects.EventFlagSet, Data: map[string]any{"flag": "doorUnlocked"}},
		{Type: effects.EventWon, Data: map[string]any{
			"session": "s1", "moves": 8, "hints": 1, "items": []string{"Golden Key"},
		}},
	}
	if errs := events.Dispatch(ctx, evts, []events.Handler{s.Recorder()}); len(errs) != 0 {
		t.Fatalf("Dispatch errors: %v", errs)
	}

	best, ok, err := s.Best(ctx)
	if err != nil || !ok {
		t.Fatalf("Best: ok=%v err=%v", ok, err)
	}
	if best.SessionID != "s1" || best.Moves != 8 || best.Hints != 1 {
		t.Errorf("recorded run = %+v", best)
	}
}

func TestRecorder_MissingSession(t *testing.T) {
	s := openTest(t)
	evts := []types.Event{{Type: effects.EventWon, Data: map[string]any{"moves": 8}}}
	if errs := events.Dispatch(context.Background(), evts, []events.Handler{s.Recorder()}); len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
}
