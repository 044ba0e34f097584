// Package state manages the session aggregate and its room flags.
// Flags are one-way: they can be set, never cleared, except by NewSession.
package state

import (
	"fmt"

	"github.com/nathoo/lockedstudy/types"
)

// Flags lists every room flag in canonical order.
var Flags = []types.Flag{
	types.FlagClockExamined,
	types.FlagClockOpened,
	types.FlagDeskExamined,
	types.FlagDeskUnlocked,
	types.FlagDeskOpened,
	types.FlagBookshelfExamined,
	types.FlagDiaryFound,
	types.FlagDiaryRead,
	types.FlagPaintingExamined,
	types.FlagPaintingRemoved,
	types.FlagSafeFound,
	types.FlagSafeOpened,
	types.FlagDoorExamined,
	types.FlagDoorUnlocked,
}

// NewSession creates a fresh session: all flags false, empty inventory,
// zero counters. The hint seed is kept so restarts stay reproducible.
func NewSession(hintSeed int64) *types.Session {
	return &types.Session{
		Inventory: []types.InventoryItem{},
		HintSeed:  hintSeed,
	}
}

// flagField returns a pointer to the field backing a flag.
func flagField(rs *types.RoomState, f types.Flag) (*bool, error) {
	switch f {
	case types.FlagClockExamined:
		return &rs.ClockExamined, nil
	case types.FlagClockOpened:
		return &rs.ClockOpened, nil
	case types.FlagDeskExamined:
		return &rs.DeskExamined, nil
	case types.FlagDeskUnlocked:
		return &rs.DeskUnlocked, nil
	case types.FlagDeskOpened:
		return &rs.DeskOpened, nil
	case types.FlagBookshelfExamined:
		return &rs.BookshelfExamined, nil
	case types.FlagDiaryFound:
		return &rs.DiaryFound, nil
	case types.FlagDiaryRead:
		return &rs.DiaryRead, nil
	case types.FlagPaintingExamined:
		return &rs.PaintingExamined, nil
	case types.FlagPaintingRemoved:
		return &rs.PaintingRemoved, nil
	case types.FlagSafeFound:
		return &rs.SafeFound, nil
	case types.FlagSafeOpened:
		return &rs.SafeOpened, nil
	case types.FlagDoorExamined:
		return &rs.DoorExamined, nil
	case types.FlagDoorUnlocked:
		return &rs.DoorUnlocked, nil
	default:
		return nil, fmt.Errorf("unknown room flag %q", f)
	}
}

// GetFlag returns the value of a flag. Unknown flags read as false.
func GetFlag(rs types.RoomState, f types.Flag) bool {
	p, err := flagField(&rs, f)
	if err != nil {
		return false
	}
	return *p
}

// SetFlag sets a flag to true. It reports whether the flag changed.
func SetFlag(rs *types.RoomState, f types.Flag) (bool, error) {
	p, err := flagField(rs, f)
	if err != nil {
		return false, err
	}
	if *p {
		return false, nil
	}
	*p = true
	return true, nil
}

// SetFlags returns the names of all flags currently set, in canonical order.
func SetFlags(rs types.RoomState) []types.Flag {
	var set []types.Flag
	for _, f := range Flags {
		if GetFlag(rs, f) {
			set = append(set, f)
		}
	}
	return set
}

// Monotonic reports whether every flag set in before is still set in after.
func Monotonic(before, after types.RoomState) bool {
	for _, f := range Flags {
		if GetFlag(before, f) && !GetFlag(after, f) {
			return false
		}
	}
	return true
}

// CloneInventory returns an independent copy of an inventory.
// A nil inventory clones to an empty one.
func CloneInventory(inv []types.InventoryItem) []types.InventoryItem {
	out := make([]types.InventoryItem, len(inv))
	copy(out, inv)
	return out
}

// Clone returns a deep copy of the session.
func Clone(s *types.Session) *types.Session {
	c := *s
	c.Inventory = CloneInventory(s.Inventory)
	return &c
}
