// Package effects commits rule outcomes to a session.
// A commit is all-or-nothing: the outcome is applied to a copy, checked,
// and only then swapped into the live session.
package effects

import (
	"fmt"
	"strings"

	"github.com/nathoo/lockedstudy/engine/state"
	"github.com/nathoo/lockedstudy/types"
)

// Event types emitted by Commit.
const (
	EventFlagSet     = "flag_set"
	EventItemAdded   = "item_added"
	EventItemRemoved = "item_removed"
	EventWon         = "won"
)

// CommitError reports an outcome that could not be applied. The session
// is left exactly as it was.
type CommitError struct {
	Rule   string
	Reason string
}

func (e *CommitError) Error() string {
	if e.Rule == "" {
		return "commit failed: " + e.Reason
	}
	return fmt.Sprintf("commit of rule %s failed: %s", e.Rule, e.Reason)
}

// Commit applies an accepted outcome to the session and returns the events
// it produced. Rejected outcomes change nothing and emit nothing.
func Commit(s *types.Session, out types.Outcome) ([]types.Event, error) {
	if !out.Accepted {
		return nil, nil
	}
	if err := ValidateInventory(s.Inventory); err != nil {
		return nil, &CommitError{Rule: out.Rule, Reason: "current " + err.Error()}
	}

	next := state.Clone(s)
	var events []types.Event

	for _, f := range out.Delta {
		changed, err := state.SetFlag(&next.RoomState, f)
		if err != nil {
			return nil, &CommitError{Rule: out.Rule, Reason: err.Error()}
		}
		if changed {
			events = append(events, types.Event{
				Type: EventFlagSet,
				Data: map[string]any{"flag": string(f)},
			})
		}
	}

	if out.InventoryChanged {
		if err := ValidateInventory(out.Inventory); err != nil {
			return nil, &CommitError{Rule: out.Rule, Reason: "resulting " + err.Error()}
		}
		events = append(events, inventoryEvents(s.Inventory, out.Inventory)...)
		next.Inventory = state.CloneInventory(out.Inventory)
	}

	if out.Win && !next.Won {
		next.Won = true
		events = append(events, types.Event{
			Type: EventWon,
			Data: map[string]any{"items": itemNames(next.Inventory)},
		})
	}

	if !state.Monotonic(s.RoomState, next.RoomState) {
		return nil, &CommitError{Rule: out.Rule, Reason: "room flag would be cleared"}
	}

	*s = *next
	return events, nil
}

// ValidateInventory checks that every item has a name and that names are
// unique.
func ValidateInventory(inv []types.InventoryItem) error {
	seen := make(map[string]bool, len(inv))
	for i, item := range inv {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("inventory entry %d has no name", i)
		}
		if seen[item.Name] {
			return fmt.Errorf("inventory holds %q twice", item.Name)
		}
		seen[item.Name] = true
	}
	return nil
}

// inventoryEvents reports removals, then additions, in inventory order.
func inventoryEvents(before, after []types.InventoryItem) []types.Event {
	var events []types.Event
	for _, item := range before {
		if !containsName(after, item.Name) {
			events = append(events, types.Event{
				Type: EventItemRemoved,
				Data: map[string]any{"item": item.Name},
			})
		}
	}
	for _, item := range after {
		if !containsName(before, item.Name) {
			events = append(events, types.Event{
				Type: EventItemAdded,
				Data: map[string]any{"item": item.Name},
			})
		}
	}
	return events
}

func itemNames(inv []types.InventoryItem) []string {
	names := make([]string, len(inv))
	for i, item := range inv {
		names[i] = item.Name
	}
	return names
}

func containsName(inv []types.InventoryItem, name string) bool {
	for _, item := range inv {
		if item.Name == name {
			return true
		}
	}
	return false
}
