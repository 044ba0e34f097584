package rules

import (
	"github.com/nathoo/lockedstudy/engine/resolve"
	"github.com/nathoo/lockedstudy/types"
)

// table is evaluated top to bottom; the first matching rule wins.
// Specific rules precede the catch-alls at the end.
var table = []Rule{
	{"examine_clock", On(types.VerbExamine).Object(types.ObjectClock), examineClock},
	{"set_clock", On(types.VerbSet).Object(types.ObjectClock), setClock},
	{"open_clock", On(types.VerbOpen).Object(types.ObjectClock), openClock},
	{"examine_bookshelf", On(types.VerbExamine).Object(types.ObjectBookshelf), examineBookshelf},
	{"read_diary", On(types.VerbRead, types.VerbExamine, types.VerbOpen).Object(types.ObjectDiary), readDiary},
	{"examine_desk", On(types.VerbExamine).Object(types.ObjectDesk), examineDesk},
	{"open_desk", On(types.VerbOpen).Object(types.ObjectDesk), openDesk},
	{"use_key_on_desk", On(types.VerbUse).Object(types.ObjectKey, types.ObjectDeskKey).
		Target(types.ObjectDesk, types.ObjectNone).And(notGold), useKeyOnDesk},
	{"examine_painting", On(types.VerbExamine).Object(types.ObjectPainting), examinePainting},
	{"remove_painting", On(types.VerbRemove).Object(types.ObjectPainting), removePainting},
	{"examine_safe", On(types.VerbExamine).Object(types.ObjectSafe), examineSafe},
	{"open_safe", On(types.VerbOpen, types.VerbEnter).Object(types.ObjectSafe), openSafe},
	{"examine_door", On(types.VerbExamine).Object(types.ObjectDoor), examineDoor},
	{"open_door", On(types.VerbOpen).Object(types.ObjectDoor), openDoor},
	{"use_key_on_door", On(types.VerbUse).Object(types.ObjectGoldenKey, types.ObjectKey).
		Target(types.ObjectDoor), useKeyOnDoor},
	{"examine_fireplace", On(types.VerbExamine).Mentions("fireplace"), examineFireplace},

	{"enter_code", On(types.VerbEnter).Object(types.ObjectNone).And(hasValue), enterCode},
	{"use_wrong_key", On(types.VerbUse).Object(types.ObjectKey, types.ObjectDeskKey, types.ObjectGoldenKey), useWrongKey},

	{"fallback_no_object", On(verbs...).Object(types.ObjectNone), fallbackNoObject},
	{"fallback_unknown_object", Matcher(hasObject).And(func(a types.Action) bool { return !isValidObject(a.Object) }), fallbackUnknownObject},
	{"fallback_generic", func(types.Action) bool { return true }, fallbackGeneric},
}

var verbs = []types.VerbKind{
	types.VerbExamine, types.VerbOpen, types.VerbUse, types.VerbRead,
	types.VerbSet, types.VerbRemove, types.VerbTake, types.VerbEnter,
}

func hasValue(a types.Action) bool  { return a.Value != "" }
func hasObject(a types.Action) bool { return a.Object != types.ObjectNone }

// notGold keeps "use golden key" away from the desk lock.
func notGold(a types.Action) bool { return !mentions(a, "gold") }

// Clock.

func examineClock(_ types.Action, rs types.RoomState, _ []types.InventoryItem) types.Outcome {
	if !rs.ClockExamined {
		return accept("The grandfather clock stands tall, its pendulum swinging rhythmically. "+
			"The clock face shows the current time, and you notice it can be adjusted.",
			types.FlagClockExamined)
	}
	return accept("The clock continues its steady tick-tock, its hands pointing to the current time.")
}

func setClock(a types.Action, rs types.RoomState, inv []types.InventoryItem) types.Outcome {
	if !IsMidnight(a) {
		return reject("You adjust the clock, but nothing happens. Perhaps you need to set it to a specific time?")
	}
	if rs.ClockOpened {
		return accept("The clock is already set to midnight, its secret already revealed.")
	}
	out := accept("You carefully turn the clock hands to midnight (12:00). With a soft click, "+
		"a hidden compartment in the clock opens, revealing a small key!",
		types.FlagClockOpened, types.FlagClockExamined)
	return withInventory(out, resolve.With(inv, resolve.DeskKey))
}

func openClock(_ types.Action, rs types.RoomState, _ []types.InventoryItem) types.Outcome {
	switch {
	case !rs.ClockExamined:
		return reject("You should examine the clock more carefully first.")
	case !rs.ClockOpened:
		return reject("The clock appears to be locked or needs something specific to open it.")
	default:
		return accept("The clock compartment is already open and empty.")
	}
}

// Bookshelf and diary.

func examineBookshelf(_ types.Action, rs types.RoomState, _ []types.InventoryItem) types.Outcome {
	if !rs.BookshelfExamined {
		return accept("You scan the dusty bookshelf filled with old books. Among them, a leather-bound "+
			"diary catches your eye. You can now examine or read it.",
			types.FlagBookshelfExamined, types.FlagDiaryFound)
	}
	return accept("You've already examined the bookshelf. The leather diary is still visible among the books.")
}

func readDiary(_ types.Action, rs types.RoomState, inv []types.InventoryItem) types.Outcome {
	if !DiaryAvailable(rs, inv) {
		return reject("You don't see a diary here. Try examining the bookshelf first.")
	}
	if !rs.DiaryRead {
		return accept(`You carefully open the worn diary. Inside, written in elegant script: `+
			`"Time stands still at midnight. The old clock holds secrets for those who listen."`,
			types.FlagDiaryRead)
	}
	return accept(`The diary's cryptic message echoes in your mind: "Time stands still at midnight."`)
}

// Desk.

func examineDesk(_ types.Action, rs types.RoomState, _ []types.InventoryItem) types.Outcome {
	if !rs.DeskExamined {
		return accept("The desk is made of dark mahogany wood. It has a single drawer that appears to be locked.",
			types.FlagDeskExamined)
	}
	return accept("The locked desk sits silently in the corner, waiting for the right key.")
}

// unlockDesk trades the desk key for the golden key hidden in the drawer.
func unlockDesk(narrative string, inv []types.InventoryItem, deskKey types.InventoryItem) types.Outcome {
	next := resolve.With(resolve.Without(inv, deskKey.Name), resolve.GoldenKey)
	return withInventory(accept(narrative, types.FlagDeskOpened, types.FlagDeskUnlocked), next)
}

func openDesk(_ types.Action, rs types.RoomState, inv []types.InventoryItem) types.Outcome {
	if rs.DeskOpened {
		return accept("The desk drawer is already open and empty.")
	}
	deskKey, err := resolve.Key(inv, types.ObjectKey, types.ObjectDeskKey)
	if err != nil {
		return reject("The desk is locked. You need to find a key.")
	}
	return unlockDesk("You insert the desk key into the lock. It turns smoothly, and the drawer slides open. "+
		"Inside, you find a gleaming golden key!", inv, deskKey)
}

func useKeyOnDesk(a types.Action, rs types.RoomState, inv []types.InventoryItem) types.Outcome {
	deskKey, err := resolve.Key(inv, a.Object, types.ObjectDeskKey)
	if err == nil && !rs.DeskOpened {
		return unlockDesk("You use the desk key on the locked drawer. It opens smoothly, "+
			"revealing a golden key inside!", inv, deskKey)
	}
	if rs.DeskOpened {
		return accept("The desk is already open.")
	}
	return reject("You don't have a desk key. You need to find it first.")
}

// Painting and safe.

func examinePainting(_ types.Action, rs types.RoomState, _ []types.InventoryItem) types.Outcome {
	if !rs.PaintingExamined {
		return accept("The painting depicts a serene moonlit scene. You notice it's hanging loosely and could be removed.",
			types.FlagPaintingExamined)
	}
	return accept("The moon painting watches over the room.")
}

func removePainting(_ types.Action, rs types.RoomState, _ []types.InventoryItem) types.Outcome {
	if !rs.PaintingRemoved {
		return accept("You carefully lift the painting from the wall. Behind it, hidden in the shadows, "+
			"you discover a safe embedded in the wall!",
			types.FlagPaintingRemoved, types.FlagSafeFound)
	}
	return accept("The painting has already been removed, revealing the safe behind it.")
}

func examineSafe(_ types.Action, rs types.RoomState, _ []types.InventoryItem) types.Outcome {
	if !rs.SafeFound {
		return reject("You don't see a safe here. Try examining the painting.")
	}
	return accept("The safe is embedded in the wall. It has a numeric keypad awaiting a 4-digit code.")
}

func openSafe(a types.Action, rs types.RoomState, _ []types.InventoryItem) types.Outcome {
	switch {
	case !rs.SafeFound:
		return reject("You don't see a safe here. Try examining the painting first.")
	case a.Value == SafeCode && !rs.SafeOpened:
		return accept("You enter the code 1200. The safe clicks open, but it's empty inside. A red herring!",
			types.FlagSafeOpened)
	case a.Value == SafeCode:
		return accept("The safe is already open and empty.")
	case a.Value != "":
		return reject("The code doesn't work. The safe remains locked.")
	default:
		return reject(`The safe requires a 4-digit code. Try "open safe 1200" or "enter 1200".`)
	}
}

// enterCode treats a bare "enter 1200" as keying the code into the safe.
func enterCode(a types.Action, rs types.RoomState, inv []types.InventoryItem) types.Outcome {
	a.Object = types.ObjectSafe
	return openSafe(a, rs, inv)
}

// Door.

func examineDoor(_ types.Action, rs types.RoomState, _ []types.InventoryItem) types.Outcome {
	if !rs.DoorExamined {
		return accept("The exit door is solid and locked. A golden keyhole glints in the dim light.",
			types.FlagDoorExamined)
	}
	return accept("The locked door awaits the golden key.")
}

func escape(narrative string) types.Outcome {
	out := accept(narrative, types.FlagDoorUnlocked)
	out.Win = true
	return out
}

func openDoor(_ types.Action, rs types.RoomState, inv []types.InventoryItem) types.Outcome {
	if HasGoldenKey(inv) || rs.DoorUnlocked {
		return escape("You insert the golden key into the door lock. It turns with a satisfying click, " +
			"and the door swings open!")
	}
	return reject("The door is locked. You need a golden key to unlock it.")
}

func useKeyOnDoor(a types.Action, _ types.RoomState, inv []types.InventoryItem) types.Outcome {
	if _, err := resolve.Key(inv, a.Object, types.ObjectGoldenKey); err == nil {
		return escape("You use the golden key on the door. The lock clicks open, and freedom awaits!")
	}
	return reject("You don't have a golden key. You need to find it first.")
}

// Scenery and near misses.

func examineFireplace(types.Action, types.RoomState, []types.InventoryItem) types.Outcome {
	return accept("The stone fireplace is cold and hasn't been used in years. Ashes and dust fill the hearth. " +
		"Nothing useful here.")
}

func useWrongKey(types.Action, types.RoomState, []types.InventoryItem) types.Outcome {
	return reject("That key doesn't fit there. The desk drawer and the exit door are the only locks in the room.")
}
