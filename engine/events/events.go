// Package events implements single-pass dispatch of committed events.
// Handlers observe; they cannot change the outcome or emit new events.
package events

import (
	"context"
	"fmt"

	"github.com/nathoo/lockedstudy/types"
)

// Handler reacts to events of one type. An empty EventType matches all.
type Handler struct {
	EventType string
	Handle    func(ctx context.Context, e types.Event) error
}

// Dispatch runs every matching handler for every event, in order. Single
// pass, no recursion. A failing or panicking handler does not stop the
// others; its error is returned.
func Dispatch(ctx context.Context, evts []types.Event, handlers []Handler) []error {
	var errs []error
	for _, event := range evts {
		for _, h := range handlers {
			if h.EventType != "" && h.EventType != event.Type {
				continue
			}
			if err := run(ctx, h, event); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

func run(ctx context.Context, h Handler, event types.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler for %s panicked: %v", event.Type, r)
		}
	}()
	if err := h.Handle(ctx, event); err != nil {
		return fmt.Errorf("handler for %s: %w", event.Type, err)
	}
	return nil
}
