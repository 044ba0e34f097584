// Package engine provides the Submit() orchestrator that wires together
// interpretation, rules, commit, events and narration into a single turn.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nathoo/lockedstudy/engine/effects"
	"github.com/nathoo/lockedstudy/engine/events"
	"github.com/nathoo/lockedstudy/engine/parser"
	"github.com/nathoo/lockedstudy/engine/rules"
	"github.com/nathoo/lockedstudy/engine/save"
	"github.com/nathoo/lockedstudy/engine/state"
	"github.com/nathoo/lockedstudy/narrator"
	"github.com/nathoo/lockedstudy/types"
)

// Messages produced by the engine itself rather than by a rule.
const (
	MsgEmpty      = "What do you want to do?"
	MsgFault      = "Something went wrong. Please try again."
	MsgAlreadyWon = "The door is already open. Type /restart to play again."
	MsgEscaped    = "The door creaks open! You've escaped!"
	MsgHintUsed   = "You've already used your hint for this game."
	MsgNoHints    = "There are no hints for this room."
)

// DefaultNarratorTimeout bounds the cosmetic rewrite of a narrative.
const DefaultNarratorTimeout = 8 * time.Second

// Engine holds the room definition and one player's session.
type Engine struct {
	ID      string
	Room    types.RoomDef
	Session *types.Session
	RNG     *RNG

	Narrator        narrator.Narrator // optional
	NarratorTimeout time.Duration
	Handlers        []events.Handler
	Logger          *slog.Logger

	last Turn
}

// Turn records how the last command was understood and decided.
type Turn struct {
	Input   string
	Action  types.Action
	Outcome types.Outcome
	Events  []types.Event
}

// Summary describes a session, typically shown on the win screen.
type Summary struct {
	Room      string
	Moves     int
	HintsUsed int
	Items     []types.InventoryItem
	Won       bool
}

// New creates an engine with a fresh session.
func New(room types.RoomDef, hintSeed int64) *Engine {
	return &Engine{
		ID:              "local",
		Room:            room,
		Session:         state.NewSession(hintSeed),
		RNG:             NewRNG(hintSeed),
		NarratorTimeout: DefaultNarratorTimeout,
	}
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Submit processes one player command and returns the reply.
func (e *Engine) Submit(ctx context.Context, input string) types.Reply {
	// 0. A won room is finished until restart.
	if e.Session.Won {
		return rejected(MsgAlreadyWon)
	}

	// 1. Empty input is not a move.
	if strings.TrimSpace(input) == "" {
		return rejected(MsgEmpty)
	}

	// 2. Interpret, decide and commit. Faults roll back to the pre-call state.
	turn, err := e.evaluate(input)
	e.last = turn

	// 3. Every evaluated command counts as a move.
	e.Session.MoveCount++

	if err != nil {
		e.logger().Error("command failed", "session", e.ID, "input", input, "err", err)
		return rejected(MsgFault)
	}

	e.logger().Debug("command",
		"session", e.ID,
		"verb", turn.Action.Verb,
		"object", turn.Action.Object,
		"target", turn.Action.Target,
		"value", turn.Action.Value,
		"rule", turn.Outcome.Rule,
		"accepted", turn.Outcome.Accepted)

	// 4. Rejections change nothing and are reported verbatim.
	if !turn.Outcome.Accepted {
		return rejected(turn.Outcome.Reason)
	}

	// 5. Dispatch committed events (single pass).
	e.dispatch(ctx, turn.Events)

	// 6. Winning ends the game; the escape is told as decided.
	if turn.Outcome.Win {
		return types.Reply{Narrative: turn.Outcome.Narrative + "\n" + MsgEscaped, Win: true}
	}

	// 7. Optional prose rewrite, strictly after the commit.
	return types.Reply{Narrative: e.narrate(ctx, input, turn.Outcome.Narrative)}
}

// evaluate runs interpreter, rule engine and commit, converting any panic
// into an error. Commit swaps state only on success, so a fault leaves the
// session untouched.
func (e *Engine) evaluate(input string) (turn Turn, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal fault: %v", r)
		}
	}()

	turn.Input = input
	turn.Action = parser.Interpret(input)
	turn.Outcome = rules.Apply(turn.Action, e.Session.RoomState, state.CloneInventory(e.Session.Inventory))
	turn.Events, err = effects.Commit(e.Session, turn.Outcome)
	return turn, err
}

func (e *Engine) dispatch(ctx context.Context, evts []types.Event) {
	for _, ev := range evts {
		if ev.Type == effects.EventWon {
			ev.Data["session"] = e.ID
			ev.Data["moves"] = e.Session.MoveCount
			ev.Data["hints"] = e.Session.HintsUsed
		}
	}
	for _, err := range events.Dispatch(ctx, evts, e.Handlers) {
		e.logger().Warn("event handler failed", "session", e.ID, "err", err)
	}
}

func (e *Engine) narrate(ctx context.Context, input, narrative string) string {
	if e.Narrator == nil {
		return narrative
	}
	text, err := narrator.Decorate(ctx, e.Narrator, narrator.Request{
		RawText:   input,
		Narrative: narrative,
		RoomState: e.Session.RoomState,
		Inventory: state.CloneInventory(e.Session.Inventory),
		RoomName:  e.Room.Name,
	}, e.NarratorTimeout)
	if err != nil && !errors.Is(err, narrator.ErrUnavailable) {
		e.logger().Warn("narrator fallback", "session", e.ID, "err", err)
	}
	return text
}

// LastTurn returns how the most recent command was handled.
func (e *Engine) LastTurn() Turn {
	return e.last
}

// Hint reveals one hint per game. The bool reports whether a hint was given.
func (e *Engine) Hint() (string, bool) {
	if e.Session.HintsUsed >= 1 {
		return MsgHintUsed, false
	}
	if len(e.Room.Hints) == 0 {
		return MsgNoHints, false
	}
	hint := e.Room.Hints[e.RNG.Pick(len(e.Room.Hints))]
	e.Session.HintsUsed++
	e.Session.HintRolls = e.RNG.Position()
	return "Hint: " + hint, true
}

// Restart reinitializes the session to its creation defaults. The hint RNG
// keeps advancing so a new game may draw a different hint.
func (e *Engine) Restart() {
	s := state.NewSession(e.Session.HintSeed)
	s.HintRolls = e.RNG.Position()
	e.Session = s
	e.last = Turn{}
}

// Save serializes the session.
func (e *Engine) Save() ([]byte, error) {
	return save.Save(e.Session, e.Room)
}

// Load replaces the session with a saved one. On error the current session
// is kept.
func (e *Engine) Load(data []byte) (*save.SaveData, error) {
	sd, err := save.Load(data)
	if err != nil {
		return nil, err
	}
	save.ApplySave(e.Session, sd)
	e.RNG = RestoreRNG(sd.HintSeed, sd.HintRolls)
	e.last = Turn{}
	return sd, nil
}

// Summary reports moves, hints and collected items.
func (e *Engine) Summary() Summary {
	return Summary{
		Room:      e.Room.Name,
		Moves:     e.Session.MoveCount,
		HintsUsed: e.Session.HintsUsed,
		Items:     state.CloneInventory(e.Session.Inventory),
		Won:       e.Session.Won,
	}
}

func rejected(reason string) types.Reply {
	return types.Reply{Narrative: reason, Rejected: true, ErrorMessage: reason}
}
