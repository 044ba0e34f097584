package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/lockedstudy/engine"
	"github.com/nathoo/lockedstudy/engine/parser"
	"github.com/nathoo/lockedstudy/engine/resolve"
	"github.com/nathoo/lockedstudy/engine/state"
	"github.com/nathoo/lockedstudy/narrator"
	"github.com/nathoo/lockedstudy/store"
	"github.com/nathoo/lockedstudy/transcript"
)

// Output is the result of one line of player input.
type Output struct {
	Lines    []string
	System   bool // meta-command output rather than game narrative
	Rejected bool
	Win      bool
	Quit     bool
}

// Game wraps an engine with the transcript and the meta-commands shared
// by the plain and full-screen front ends.
type Game struct {
	Engine  *engine.Engine
	Log     *transcript.Log
	Store   *store.Store // optional run records
	SaveDir string
	Trace   bool
	lastCmd string
}

// NewGame creates a Game with an empty transcript.
func NewGame(eng *engine.Engine, saveDir string) *Game {
	return &Game{Engine: eng, Log: transcript.New(), SaveDir: saveDir}
}

// Banner returns the title line, e.g. "Escape Room Adventure v1.0 by nathoo".
func (g *Game) Banner() string {
	room := g.Engine.Room
	line := room.Title
	if room.Version != "" {
		line += " v" + room.Version
	}
	if room.Author != "" {
		line += " by " + room.Author
	}
	return line
}

// Intro returns the opening scene and records it in the transcript.
func (g *Game) Intro() []string {
	g.Log.System(g.Engine.Room.Intro)
	return []string{g.Engine.Room.Name, "", g.Engine.Room.Intro}
}

// Play handles one line of input: a meta-command, "again", or a command
// for the engine.
func (g *Game) Play(ctx context.Context, input string) Output {
	input = strings.TrimSpace(input)

	if strings.HasPrefix(input, "/") {
		return g.meta(ctx, input)
	}

	// "again" / "g" repeats the last game command.
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if g.lastCmd == "" {
			return Output{Lines: []string{"Nothing to repeat."}, System: true}
		}
		input = g.lastCmd
	} else if input != "" {
		g.lastCmd = input
	}

	g.Log.Player(input)
	reply := g.Engine.Submit(ctx, input)
	g.Log.System(reply.Narrative)

	out := Output{
		Lines:    strings.Split(reply.Narrative, "\n"),
		Rejected: reply.Rejected,
		Win:      reply.Win,
	}
	if g.Trace {
		out.Lines = append(out.Lines, g.traceLines()...)
	}
	if reply.Win {
		out.Lines = append(out.Lines, "")
		out.Lines = append(out.Lines, g.winLines(ctx)...)
	}
	return out
}

func (g *Game) traceLines() []string {
	turn := g.Engine.LastTurn()
	a := turn.Action
	lines := []string{
		fmt.Sprintf("[trace] action: verb=%q object=%q target=%q value=%q", a.Verb, a.Object, a.Target, a.Value),
		fmt.Sprintf("[trace] rule: %s (accepted=%t)", turn.Outcome.Rule, turn.Outcome.Accepted),
	}
	for _, e := range turn.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
	return lines
}

// winLines is the end-of-game summary.
func (g *Game) winLines(ctx context.Context) []string {
	sum := g.Engine.Summary()
	names := make([]string, len(sum.Items))
	for i, item := range sum.Items {
		names[i] = item.Icon + " " + item.Name
	}
	lines := []string{
		fmt.Sprintf("🎉 You've successfully escaped %s!", sum.Room),
		fmt.Sprintf("Moves: %d", sum.Moves),
		fmt.Sprintf("Items collected: %d", len(sum.Items)),
	}
	if len(names) > 0 {
		lines = append(lines, "  "+strings.Join(names, ", "))
	}
	lines = append(lines, fmt.Sprintf("Hints used: %d", sum.HintsUsed))
	if g.Store != nil {
		if best, ok, err := g.Store.Best(ctx); err == nil && ok {
			lines = append(lines, fmt.Sprintf("Best escape so far: %d moves, %d hint(s).", best.Moves, best.Hints))
		}
	}
	return append(lines, "Type /restart to play again or /quit to exit.")
}

// meta dispatches meta-commands.
func (g *Game) meta(ctx context.Context, input string) Output {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	sys := func(lines ...string) Output { return Output{Lines: lines, System: true} }

	switch cmd {
	case "/quit", "/exit":
		return Output{Lines: []string{"Goodbye."}, System: true, Quit: true}
	case "/help":
		return sys(g.helpLines()...)
	case "/hint":
		text, ok := g.Engine.Hint()
		if ok {
			g.Log.Hint(text)
			return sys("💡 " + text)
		}
		return sys(text)
	case "/restart":
		g.Engine.Restart()
		g.Log.Reset()
		g.lastCmd = ""
		return Output{Lines: append([]string{"Game restarted.", ""}, g.Intro()...)}
	case "/inventory", "/i":
		if len(parts) > 1 {
			return sys(g.carrying(strings.Join(parts[1:], " ")))
		}
		return sys(g.inventoryLines()...)
	case "/save":
		return sys(g.save(arg))
	case "/load":
		return sys(g.load(arg))
	case "/state":
		return sys(g.stateLines()...)
	case "/trace":
		g.Trace = !g.Trace
		if g.Trace {
			return sys("Trace output enabled.")
		}
		return sys("Trace output disabled.")
	case "/export":
		return sys(g.export(arg))
	case "/best":
		return sys(g.bestLines(ctx)...)
	default:
		return sys(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
}

func (g *Game) helpLines() []string {
	lines := []string{
		"System:",
		"  /hint          - Reveal a hint (once per game)",
		"  /inventory (/i) [item] - List what you're carrying",
		"  /restart       - Start over",
		"  /save [name]   - Save game (default: quicksave)",
		"  /load [name]   - Load game (default: quicksave)",
		"  /export [file] - Write the transcript (.pdf or .txt)",
		"  /best          - Show the fastest recorded escapes",
		"  /state         - Debug: dump current state",
		"  /trace         - Toggle debug trace output",
		"  /quit          - Exit game",
		"",
		"Game commands:",
	}
	for _, h := range g.Engine.Room.Help {
		lines = append(lines, "  "+h)
	}
	lines = append(lines, "  again (g) - Repeat your last command", "", "Understood verbs:")
	for _, v := range parser.Verbs() {
		lines = append(lines, fmt.Sprintf("  %s: %s", v, strings.Join(parser.Synonyms(v), ", ")))
	}
	return lines
}

func (g *Game) inventoryLines() []string {
	inv := g.Engine.Session.Inventory
	if len(inv) == 0 {
		return []string{"Your inventory is empty."}
	}
	lines := []string{"You are carrying:"}
	for _, item := range inv {
		lines = append(lines, fmt.Sprintf("  %s %s", item.Icon, item.Name))
	}
	return lines
}

// carrying looks one item up by (partial) name.
func (g *Game) carrying(name string) string {
	item, err := resolve.Item(g.Engine.Session.Inventory, name)
	if err != nil {
		return "You can't check that: " + err.Error() + "."
	}
	return fmt.Sprintf("You are carrying the %s %s.", item.Icon, item.Name)
}

func (g *Game) stateLines() []string {
	s := g.Engine.Session
	lines := []string{
		fmt.Sprintf("Session: %s", g.Engine.ID),
		fmt.Sprintf("Moves: %d", s.MoveCount),
		fmt.Sprintf("Hints used: %d", s.HintsUsed),
		fmt.Sprintf("Won: %t", s.Won),
		narrator.InventoryLine(s.Inventory),
	}
	var set []string
	for _, f := range state.SetFlags(s.RoomState) {
		set = append(set, string(f))
	}
	if len(set) > 0 {
		lines = append(lines, "Flags: "+strings.Join(set, ", "))
	}
	return lines
}

func (g *Game) save(name string) string {
	if name == "" {
		name = "quicksave"
	}

	data, err := g.Engine.Save()
	if err != nil {
		return fmt.Sprintf("Save failed: %v", err)
	}
	if err := os.MkdirAll(g.SaveDir, 0o755); err != nil {
		return fmt.Sprintf("Save failed: %v", err)
	}
	path := filepath.Join(g.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Sprintf("Save failed: %v", err)
	}
	return fmt.Sprintf("Game saved to %s.", name)
}

func (g *Game) load(name string) string {
	if name == "" {
		name = "quicksave"
	}

	data, err := os.ReadFile(filepath.Join(g.SaveDir, name+".json"))
	if err != nil {
		return fmt.Sprintf("Load failed: %v", err)
	}
	sd, err := g.Engine.Load(data)
	if err != nil {
		return fmt.Sprintf("Load failed: %v", err)
	}
	g.lastCmd = ""
	return fmt.Sprintf("Game loaded from %s (move %d).", name, sd.Moves)
}

func (g *Game) export(path string) string {
	if path == "" {
		path = "transcript.pdf"
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Sprintf("Export failed: %v", err)
	}
	defer f.Close()

	title := g.Engine.Room.Name
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		err = transcript.WriteText(f, title, g.Log.Entries())
	} else {
		err = transcript.WritePDF(f, title, g.Log.Entries())
	}
	if err != nil {
		return fmt.Sprintf("Export failed: %v", err)
	}
	return fmt.Sprintf("Transcript written to %s.", path)
}

func (g *Game) bestLines(ctx context.Context) []string {
	if g.Store == nil {
		return []string{"Run records are disabled. Set LOCKEDSTUDY_DB to enable them."}
	}
	runs, err := g.Store.Recent(ctx, 5)
	if err != nil {
		return []string{fmt.Sprintf("Could not read run records: %v", err)}
	}
	if len(runs) == 0 {
		return []string{"No escapes recorded yet."}
	}
	lines := []string{"Recent escapes:"}
	for _, r := range runs {
		lines = append(lines, fmt.Sprintf("  %s  %d moves, %d hint(s)", r.FinishedAt.Format("2006-01-02 15:04"), r.Moves, r.Hints))
	}
	if best, ok, err := g.Store.Best(ctx); err == nil && ok {
		lines = append(lines, fmt.Sprintf("Best: %d moves, %d hint(s).", best.Moves, best.Hints))
	}
	return lines
}
