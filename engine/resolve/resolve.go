// Package resolve maps item names and key references to inventory items.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/lockedstudy/types"
)

// Canonical carried items.
var (
	DeskKey   = types.InventoryItem{Name: "Desk Key", Icon: "🗝️"}
	GoldenKey = types.InventoryItem{Name: "Golden Key", Icon: "🔑"}
)

// Aliases lists the names each item answers to, most specific first.
var Aliases = map[types.ObjectKind][]string{
	types.ObjectDeskKey:   {"desk key"},
	types.ObjectGoldenKey: {"golden key"},
	types.ObjectDiary:     {"diary"},
	types.ObjectKey:       {"key"},
}

// AmbiguityError indicates multiple inventory items matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no inventory item matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("you don't have %q", e.Name)
}

// Item resolves a name against the inventory. An exact (case-insensitive)
// name match wins outright; otherwise the name must be contained in exactly
// one item name.
func Item(inv []types.InventoryItem, name string) (types.InventoryItem, error) {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	if nameLower == "" {
		return types.InventoryItem{}, &NotFoundError{Name: name}
	}

	for _, item := range inv {
		if strings.ToLower(item.Name) == nameLower {
			return item, nil
		}
	}

	var matches []types.InventoryItem
	for _, item := range inv {
		if strings.Contains(strings.ToLower(item.Name), nameLower) {
			matches = append(matches, item)
		}
	}

	switch len(matches) {
	case 0:
		return types.InventoryItem{}, &NotFoundError{Name: name}
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return types.InventoryItem{}, &AmbiguityError{Name: name, Candidates: names}
	}
}

// Has reports whether any item name contains any of the aliases,
// case-insensitively.
func Has(inv []types.InventoryItem, aliases ...string) bool {
	_, ok := find(inv, aliases)
	return ok
}

// HasKind reports whether the inventory holds an item of the given kind.
func HasKind(inv []types.InventoryItem, kind types.ObjectKind) bool {
	return Has(inv, Aliases[kind]...)
}

func find(inv []types.InventoryItem, aliases []string) (types.InventoryItem, bool) {
	for _, item := range inv {
		nameLower := strings.ToLower(item.Name)
		for _, alias := range aliases {
			if strings.Contains(nameLower, strings.ToLower(alias)) {
				return item, true
			}
		}
	}
	return types.InventoryItem{}, false
}

// Key picks the carried key an action refers to. A qualified reference
// ("desk key", "golden key") must name that key. An unqualified "key"
// resolves to the key the rule needs; it never falls back to a different
// key, so holding both keys is never ambiguous.
func Key(inv []types.InventoryItem, ref, need types.ObjectKind) (types.InventoryItem, error) {
	switch ref {
	case types.ObjectDeskKey, types.ObjectGoldenKey:
		if ref != need {
			return types.InventoryItem{}, &NotFoundError{Name: string(need)}
		}
	case types.ObjectKey, types.ObjectNone:
	default:
		return types.InventoryItem{}, &NotFoundError{Name: string(ref)}
	}
	item, ok := find(inv, Aliases[need])
	if !ok {
		return types.InventoryItem{}, &NotFoundError{Name: string(need)}
	}
	return item, nil
}

// Without returns a copy of inv with every item named name removed.
func Without(inv []types.InventoryItem, name string) []types.InventoryItem {
	out := make([]types.InventoryItem, 0, len(inv))
	for _, item := range inv {
		if item.Name != name {
			out = append(out, item)
		}
	}
	return out
}

// With returns a copy of inv with item appended, unless an item with the
// same name is already present.
func With(inv []types.InventoryItem, item types.InventoryItem) []types.InventoryItem {
	out := make([]types.InventoryItem, 0, len(inv)+1)
	out = append(out, inv...)
	for _, it := range inv {
		if it.Name == item.Name {
			return out
		}
	}
	return append(out, item)
}
