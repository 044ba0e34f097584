// Package types defines the shared data structures for the Locked Study engine.
// This package contains only type definitions: no logic, no methods.
package types

// VerbKind is a recognized action word. The zero value means no verb.
type VerbKind string

const (
	VerbNone    VerbKind = ""
	VerbExamine VerbKind = "examine"
	VerbOpen    VerbKind = "open"
	VerbUse     VerbKind = "use"
	VerbRead    VerbKind = "read"
	VerbSet     VerbKind = "set"
	VerbRemove  VerbKind = "remove"
	VerbTake    VerbKind = "take"
	VerbEnter   VerbKind = "enter"
)

// ObjectKind is a recognized noun. The zero value means no object.
type ObjectKind string

const (
	ObjectNone      ObjectKind = ""
	ObjectDesk      ObjectKind = "desk"
	ObjectClock     ObjectKind = "clock"
	ObjectBookshelf ObjectKind = "bookshelf"
	ObjectDiary     ObjectKind = "diary"
	ObjectPainting  ObjectKind = "painting"
	ObjectSafe      ObjectKind = "safe"
	ObjectDoor      ObjectKind = "door"
	ObjectKey       ObjectKind = "key"

	// Qualified key variants, only produced by "use <item> on <target>".
	ObjectDeskKey   ObjectKind = "desk key"
	ObjectGoldenKey ObjectKind = "golden key"
)

// Action is the parsed representation of a player command.
type Action struct {
	Verb    VerbKind
	Object  ObjectKind // optional
	Target  ObjectKind // optional
	Value   string     // first relevant digit run, "" if none
	RawText string
}

// Flag names a single RoomState milestone. Values double as JSON keys.
type Flag string

const (
	FlagClockExamined     Flag = "clockExamined"
	FlagClockOpened       Flag = "clockOpened"
	FlagDeskExamined      Flag = "deskExamined"
	FlagDeskUnlocked      Flag = "deskUnlocked"
	FlagDeskOpened        Flag = "deskOpened"
	FlagBookshelfExamined Flag = "bookshelfExamined"
	FlagDiaryFound        Flag = "diaryFound"
	FlagDiaryRead         Flag = "diaryRead"
	FlagPaintingExamined  Flag = "paintingExamined"
	FlagPaintingRemoved   Flag = "paintingRemoved"
	FlagSafeFound         Flag = "safeFound"
	FlagSafeOpened        Flag = "safeOpened"
	FlagDoorExamined      Flag = "doorExamined"
	FlagDoorUnlocked      Flag = "doorUnlocked"
)

// RoomState holds the one-way discovery and unlock milestones of the room.
type RoomState struct {
	ClockExamined     bool `json:"clockExamined"`
	ClockOpened       bool `json:"clockOpened"`
	DeskExamined      bool `json:"deskExamined"`
	DeskUnlocked      bool `json:"deskUnlocked"`
	DeskOpened        bool `json:"deskOpened"`
	BookshelfExamined bool `json:"bookshelfExamined"`
	DiaryFound        bool `json:"diaryFound"`
	DiaryRead         bool `json:"diaryRead"`
	PaintingExamined  bool `json:"paintingExamined"`
	PaintingRemoved   bool `json:"paintingRemoved"`
	SafeFound         bool `json:"safeFound"`
	SafeOpened        bool `json:"safeOpened"`
	DoorExamined      bool `json:"doorExamined"`
	DoorUnlocked      bool `json:"doorUnlocked"`
}

// InventoryItem is a carried item. Uniqueness is by exact Name.
type InventoryItem struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Session is the complete mutable game state of one player.
type Session struct {
	RoomState RoomState
	Inventory []InventoryItem
	MoveCount int
	HintsUsed int
	Won       bool
	HintSeed  int64
	HintRolls int64 // RNG position, for save/load
}

// Outcome is the decision of the rule engine for one action.
// Accepted=false is a rejection carrying Reason; nothing changes.
type Outcome struct {
	Accepted bool
	Rule     string // name of the rule that fired

	Narrative string // accepted only
	Reason    string // rejected only

	Delta            []Flag          // flags to set (false→true only)
	Inventory        []InventoryItem // inventory after the action
	InventoryChanged bool            // true if Inventory replaces the current inventory
	Win              bool
}

// Reply is the result of one submitted command, as seen by a front end.
type Reply struct {
	Narrative    string `json:"narrative"`
	Win          bool   `json:"win"`
	Rejected     bool   `json:"rejected"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Event is emitted after an outcome has been committed.
type Event struct {
	Type string
	Data map[string]any
}

// RoomDef is the authored, immutable content of the room.
type RoomDef struct {
	Title   string
	Author  string
	Version string
	Name    string // e.g. "The Locked Study"
	Intro   string
	Hints   []string
	Help    []string
}
