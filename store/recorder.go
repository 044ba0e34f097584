package store

import (
	"context"
	"fmt"

	"github.com/nathoo/lockedstudy/engine/effects"
	"github.com/nathoo/lockedstudy/engine/events"
	"github.com/nathoo/lockedstudy/types"
)

// Recorder returns an event handler that stores a run for every won event.
func (s *Store) Recorder() events.Handler {
	return events.Handler{
		EventType: effects.EventWon,
		Handle: func(ctx context.Context, e types.Event) error {
			run, err := runFromEvent(e)
			if err != nil {
				return err
			}
			_, err = s.RecordWin(ctx, run)
			return err
		},
	}
}

func runFromEvent(e types.Event) (Run, error) {
	session, ok := e.Data["session"].(string)
	if !ok {
		return Run{}, fmt.Errorf("store: won event has no session")
	}
	moves, _ := e.Data["moves"].(int)
	hints, _ := e.Data["hints"].(int)
	items, _ := e.Data["items"].([]string)
	return Run{SessionID: session, Moves: moves, Hints: hints, Items: items}, nil
}
