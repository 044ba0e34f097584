// Package rules implements the rule engine: an ordered table of guarded
// transitions evaluated first-match-wins against one action.
package rules

import (
	"fmt"
	"strings"

	"github.com/nathoo/lockedstudy/types"
)

// Handler decides the outcome of a matched action. Handlers are pure: they
// read the state and inventory they are given and return the changes.
type Handler func(a types.Action, rs types.RoomState, inv []types.InventoryItem) types.Outcome

// Rule is one row of the rule table.
type Rule struct {
	Name  string
	Match Matcher
	Apply Handler
}

// ValidObjects are the things in the room a player can address.
var ValidObjects = []string{"clock", "desk", "bookshelf", "diary", "painting", "safe", "door", "fireplace"}

// Apply evaluates the rule table against an action and returns the outcome
// of the first matching rule. The table ends in catch-all rules, so Apply
// always produces an outcome.
func Apply(a types.Action, rs types.RoomState, inv []types.InventoryItem) types.Outcome {
	for _, rule := range table {
		if !rule.Match(a) {
			continue
		}
		out := rule.Apply(a, rs, inv)
		out.Rule = rule.Name
		return out
	}
	out := fallbackGeneric(a, rs, inv)
	out.Rule = "fallback_generic"
	return out
}

// Names returns the rule names in evaluation order.
func Names() []string {
	names := make([]string, len(table))
	for i, r := range table {
		names[i] = r.Name
	}
	return names
}

// fallbackNoObject handles a recognized verb without anything to apply it to.
func fallbackNoObject(a types.Action, _ types.RoomState, _ []types.InventoryItem) types.Outcome {
	suggestions := make([]string, 0, 5)
	for _, obj := range ValidObjects[:5] {
		suggestions = append(suggestions, fmt.Sprintf("'%s %s'", a.Verb, obj))
	}
	return reject(fmt.Sprintf("What would you like to %s? Try: %s", a.Verb, strings.Join(suggestions, ", ")))
}

// fallbackUnknownObject handles a recognized noun that is not in the room.
func fallbackUnknownObject(a types.Action, _ types.RoomState, _ []types.InventoryItem) types.Outcome {
	return reject(fmt.Sprintf("You don't see %q here. Visible objects: %s. Try examining one of these.",
		string(a.Object), strings.Join(ValidObjects, ", ")))
}

func fallbackGeneric(types.Action, types.RoomState, []types.InventoryItem) types.Outcome {
	return reject("I didn't understand that. Try: 'examine [object]', 'open [object]', 'use [item] on [object]', or type /help for help.")
}

func isValidObject(o types.ObjectKind) bool {
	for _, v := range ValidObjects {
		if string(o) == v {
			return true
		}
	}
	return false
}
