package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/nathoo/lockedstudy/engine/effects"
	"github.com/nathoo/lockedstudy/engine/events"
	"github.com/nathoo/lockedstudy/narrator"
	"github.com/nathoo/lockedstudy/types"
)

var testRoom = types.RoomDef{
	Title:   "Test Study",
	Version: "1.0",
	Name:    "The Locked Study",
	Intro:   "You wake up in a study.",
	Hints:   []string{"Look at the clock.", "Read the diary.", "Try the desk."},
}

func newTestEngine() *Engine {
	e := New(testRoom, 7)
	e.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return e
}

func submitAll(t *testing.T, e *Engine, inputs ...string) types.Reply {
	t.Helper()
	var r types.Reply
	for _, in := range inputs {
		r = e.Submit(context.Background(), in)
	}
	return r
}

func TestSubmit_Win(t *testing.T) {
	e := newTestEngine()
	r := submitAll(t, e, "set clock to midnight", "open desk", "open door")

	if !r.Win || r.Rejected {
		t.Fatalf("reply = %+v", r)
	}
	if !strings.HasSuffix(r.Narrative, "\n"+MsgEscaped) {
		t.Errorf("narrative = %q", r.Narrative)
	}
	if !e.Session.Won || !e.Session.RoomState.DoorUnlocked {
		t.Error("session not won")
	}
	if e.Session.MoveCount != 3 {
		t.Errorf("moves = %d, want 3", e.Session.MoveCount)
	}
	if got := e.LastTurn().Outcome.Rule; got != "open_door" {
		t.Errorf("last rule = %s", got)
	}
}

func TestSubmit_AfterWin(t *testing.T) {
	e := newTestEngine()
	submitAll(t, e, "set clock to midnight", "open desk", "open door")

	r := e.Submit(context.Background(), "examine clock")
	if !r.Rejected || r.Narrative != MsgAlreadyWon {
		t.Errorf("reply = %+v", r)
	}
	if e.Session.MoveCount != 3 {
		t.Errorf("moves = %d, post-win command should not count", e.Session.MoveCount)
	}
	if e.Session.RoomState.ClockExamined {
		t.Error("post-win command changed state")
	}
}

func TestSubmit_Empty(t *testing.T) {
	e := newTestEngine()
	for _, in := range []string{"", "   ", "\t"} {
		r := e.Submit(context.Background(), in)
		if !r.Rejected || r.Narrative != MsgEmpty {
			t.Errorf("Submit(%q) = %+v", in, r)
		}
	}
	if e.Session.MoveCount != 0 {
		t.Errorf("moves = %d, empty input is not a move", e.Session.MoveCount)
	}
}

func TestSubmit_RejectionCountsAsMove(t *testing.T) {
	e := newTestEngine()
	r := e.Submit(context.Background(), "open door")

	if !r.Rejected || r.ErrorMessage != r.Narrative {
		t.Errorf("reply = %+v", r)
	}
	if r.Narrative != "The door is locked. You need a golden key to unlock it." {
		t.Errorf("narrative = %q", r.Narrative)
	}
	if e.Session.MoveCount != 1 {
		t.Errorf("moves = %d, want 1", e.Session.MoveCount)
	}
	if e.Session.RoomState != (types.RoomState{}) {
		t.Error("rejection changed room state")
	}
}

func TestSubmit_FaultLeavesStateUntouched(t *testing.T) {
	e := newTestEngine()
	e.Session.Inventory = []types.InventoryItem{{Name: ""}}

	r := e.Submit(context.Background(), "examine clock")
	if !r.Rejected || r.Narrative != MsgFault {
		t.Fatalf("reply = %+v", r)
	}
	if e.Session.RoomState.ClockExamined {
		t.Error("faulted command changed state")
	}

	// The next command works once the session is sound again.
	e.Session.Inventory = nil
	r = e.Submit(context.Background(), "examine clock")
	if r.Rejected || !e.Session.RoomState.ClockExamined {
		t.Errorf("recovery reply = %+v", r)
	}
	if e.Session.MoveCount != 2 {
		t.Errorf("moves = %d, want 2", e.Session.MoveCount)
	}
}

func TestSubmit_Narrator(t *testing.T) {
	e := newTestEngine()
	var calls atomic.Int32
	e.Narrator = narrator.Func(func(_ context.Context, req narrator.Request) (string, error) {
		if calls.Add(1) == 1 {
			if req.RoomName != "The Locked Study" || req.RawText != "examine clock" {
				t.Errorf("request = %+v", req)
			}
			if !req.RoomState.ClockExamined {
				t.Error("narrator should see the committed state")
			}
		}
		return "Shadows gather around the ancient clock as it ticks.", nil
	})

	r := e.Submit(context.Background(), "examine clock")
	if r.Narrative != "Shadows gather around the ancient clock as it ticks." {
		t.Errorf("narrative = %q", r.Narrative)
	}

	// Rejections and the escape are never rewritten.
	e.Submit(context.Background(), "open door")
	submitAll(t, e, "set clock to midnight", "open desk")
	before := calls.Load()
	r = e.Submit(context.Background(), "open door")
	if calls.Load() != before {
		t.Error("narrator called for the winning move")
	}
	if !strings.HasSuffix(r.Narrative, MsgEscaped) {
		t.Errorf("win narrative = %q", r.Narrative)
	}
	if calls.Load() != 3 {
		t.Errorf("narrator calls = %d, want 3", calls.Load())
	}
}

func TestSubmit_NarratorFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		n    narrator.Func
	}{
		{"error", func(context.Context, narrator.Request) (string, error) { return "", errors.New("quota") }},
		{"too short", func(context.Context, narrator.Request) (string, error) { return "ok", nil }},
		{"panic", func(context.Context, narrator.Request) (string, error) { panic("boom") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			e.Narrator = tt.n
			r := e.Submit(context.Background(), "examine desk")
			want := "The desk is made of dark mahogany wood. It has a single drawer that appears to be locked."
			if r.Narrative != want || r.Rejected {
				t.Errorf("reply = %+v", r)
			}
			if !e.Session.RoomState.DeskExamined {
				t.Error("state lost on narrator failure")
			}
		})
	}
}

func TestSubmit_WonEventHandlers(t *testing.T) {
	e := newTestEngine()
	var got types.Event
	e.Handlers = []events.Handler{
		{EventType: effects.EventWon, Handle: func(_ context.Context, ev types.Event) error {
			got = ev
			return nil
		}},
		{Handle: func(context.Context, types.Event) error { return errors.New("disk full") }},
	}
	e.Hint()

	r := submitAll(t, e, "set clock to midnight", "open desk", "open door")
	if !r.Win {
		t.Fatalf("failing handler affected reply: %+v", r)
	}
	if got.Type != effects.EventWon {
		t.Fatalf("won handler not called")
	}
	if got.Data["session"] != "local" || got.Data["moves"] != 3 || got.Data["hints"] != 1 {
		t.Errorf("won data = %v", got.Data)
	}
}

func TestHint(t *testing.T) {
	e := newTestEngine()

	hint, ok := e.Hint()
	if !ok || !strings.HasPrefix(hint, "Hint: ") {
		t.Fatalf("Hint() = %q, %v", hint, ok)
	}
	found := false
	for _, h := range testRoom.Hints {
		if hint == "Hint: "+h {
			found = true
		}
	}
	if !found {
		t.Errorf("hint %q not from room", hint)
	}

	again, ok := e.Hint()
	if ok || again != MsgHintUsed {
		t.Errorf("second Hint() = %q, %v", again, ok)
	}
	if e.Session.HintsUsed != 1 || e.Session.MoveCount != 0 {
		t.Errorf("session = %+v", e.Session)
	}

	// Same seed, same hint.
	other := newTestEngine()
	if h, _ := other.Hint(); h != hint {
		t.Errorf("hint not deterministic: %q vs %q", h, hint)
	}
}

func TestHint_NoHints(t *testing.T) {
	e := New(types.RoomDef{Name: "Empty"}, 1)
	if h, ok := e.Hint(); ok || h != MsgNoHints {
		t.Errorf("Hint() = %q, %v", h, ok)
	}
	if e.Session.HintsUsed != 0 {
		t.Error("no hint given but counted")
	}
}

func TestRestart(t *testing.T) {
	e := newTestEngine()
	e.Hint()
	submitAll(t, e, "set clock to midnight", "open desk", "open door")

	e.Restart()
	s := e.Session
	if s.Won || s.MoveCount != 0 || s.HintsUsed != 0 || len(s.Inventory) != 0 {
		t.Errorf("session after restart = %+v", s)
	}
	if s.RoomState != (types.RoomState{}) {
		t.Error("room state not reset")
	}
	if s.HintSeed != 7 || s.HintRolls != 1 {
		t.Errorf("seed/rolls = %d/%d, want 7/1", s.HintSeed, s.HintRolls)
	}
	if _, ok := e.Hint(); !ok {
		t.Error("hint should be available again after restart")
	}
	if e.LastTurn().Input != "" {
		t.Error("last turn not cleared")
	}
}

func TestSaveLoad(t *testing.T) {
	e := newTestEngine()
	e.Hint()
	submitAll(t, e, "examine bookshelf", "set clock to midnight")

	data, err := e.Save()
	if err != nil {
		t.Fatal(err)
	}

	other := newTestEngine()
	sd, err := other.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	if sd.Moves != 2 || other.Session.MoveCount != 2 {
		t.Errorf("moves = %d/%d", sd.Moves, other.Session.MoveCount)
	}
	if other.Session.RoomState != e.Session.RoomState {
		t.Error("room state differs after load")
	}
	if other.RNG.Position() != e.RNG.Position() {
		t.Errorf("rng position = %d, want %d", other.RNG.Position(), e.RNG.Position())
	}

	// The loaded game carries on where the saved one stopped.
	r := submitAll(t, other, "open desk", "open door")
	if !r.Win || other.Session.MoveCount != 4 {
		t.Errorf("reply = %+v moves = %d", r, other.Session.MoveCount)
	}
}

func TestLoad_BadDataKeepsSession(t *testing.T) {
	e := newTestEngine()
	submitAll(t, e, "examine clock")

	if _, err := e.Load([]byte(`{"moves":-4}`)); err == nil {
		t.Fatal("expected error")
	}
	if e.Session.MoveCount != 1 || !e.Session.RoomState.ClockExamined {
		t.Errorf("session changed by failed load: %+v", e.Session)
	}
}

func TestSummary(t *testing.T) {
	e := newTestEngine()
	submitAll(t, e, "set clock to midnight", "open desk", "open door")

	sum := e.Summary()
	if sum.Room != "The Locked Study" || sum.Moves != 3 || !sum.Won {
		t.Errorf("summary = %+v", sum)
	}
	if len(sum.Items) != 1 || sum.Items[0].Name != "Golden Key" {
		t.Errorf("items = %v", sum.Items)
	}
}
