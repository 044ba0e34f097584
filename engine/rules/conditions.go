package rules

import (
	"github.com/nathoo/lockedstudy/engine/resolve"
	"github.com/nathoo/lockedstudy/types"
)

// SafeCode is the combination of the wall safe.
const SafeCode = "1200"

// IsMidnight reports whether a "set clock" action asks for midnight.
// Any mention of "12" counts, so "12:00" and "1200" both qualify.
func IsMidnight(a types.Action) bool {
	return a.Value == "1200" || a.Value == "12:00" ||
		mentions(a, "midnight") || mentions(a, "12")
}

// DiaryAvailable reports whether the player has come across the diary.
func DiaryAvailable(rs types.RoomState, inv []types.InventoryItem) bool {
	return rs.BookshelfExamined || rs.DiaryFound || resolve.Has(inv, "diary")
}

// HasDeskKey reports whether the desk key is carried.
func HasDeskKey(inv []types.InventoryItem) bool {
	return resolve.HasKind(inv, types.ObjectDeskKey)
}

// HasGoldenKey reports whether the golden key is carried.
func HasGoldenKey(inv []types.InventoryItem) bool {
	return resolve.HasKind(inv, types.ObjectGoldenKey)
}

// accept builds an accepted outcome that sets the given flags.
func accept(narrative string, delta ...types.Flag) types.Outcome {
	return types.Outcome{Accepted: true, Narrative: narrative, Delta: delta}
}

// reject builds a rejection. Rejections never carry state changes.
func reject(reason string) types.Outcome {
	return types.Outcome{Reason: reason}
}

// withInventory attaches a replacement inventory to an outcome.
func withInventory(o types.Outcome, inv []types.InventoryItem) types.Outcome {
	o.Inventory = inv
	o.InventoryChanged = true
	return o
}
