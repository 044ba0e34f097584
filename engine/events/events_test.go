package events

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/lockedstudy/types"
)

func TestDispatch_MatchesEventType(t *testing.T) {
	var got []string
	record := func(name string) func(context.Context, types.Event) error {
		return func(_ context.Context, e types.Event) error {
			got = append(got, name+":"+e.Type)
			return nil
		}
	}
	handlers := []Handler{
		{EventType: "won", Handle: record("a")},
		{EventType: "", Handle: record("all")},
		{EventType: "flag_set", Handle: record("b")},
	}
	evts := []types.Event{{Type: "flag_set"}, {Type: "won"}}

	if errs := Dispatch(context.Background(), evts, handlers); len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	want := "all:flag_set b:flag_set a:won all:won"
	if strings.Join(got, " ") != want {
		t.Errorf("order = %v, want %s", got, want)
	}
}

func TestDispatch_NoHandlers(t *testing.T) {
	if errs := Dispatch(context.Background(), []types.Event{{Type: "won"}}, nil); errs != nil {
		t.Errorf("errs = %v", errs)
	}
}

func TestDispatch_FailuresDoNotStopOthers(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	handlers := []Handler{
		{Handle: func(context.Context, types.Event) error { return boom }},
		{Handle: func(context.Context, types.Event) error { panic("bad handler") }},
		{Handle: func(context.Context, types.Event) error { calls++; return nil }},
	}

	errs := Dispatch(context.Background(), []types.Event{{Type: "won"}}, handlers)
	if calls != 1 {
		t.Errorf("last handler ran %d times, want 1", calls)
	}
	if len(errs) != 2 {
		t.Fatalf("errs = %v, want 2", errs)
	}
	if !errors.Is(errs[0], boom) {
		t.Errorf("errs[0] = %v, want wrapped boom", errs[0])
	}
	if !strings.Contains(errs[1].Error(), "panicked") {
		t.Errorf("errs[1] = %v", errs[1])
	}
}
