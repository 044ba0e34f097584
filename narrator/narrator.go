// Package narrator rewrites an already-decided outcome into atmospheric
// prose using an external text-generation service. It is decoration only:
// every failure falls back to the engine's own narrative.
package narrator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nathoo/lockedstudy/types"
)

// ErrUnavailable is returned by backends that are not configured.
var ErrUnavailable = errors.New("narrator unavailable")

// minLength is the shortest rewrite accepted; anything shorter is noise.
const minLength = 10

// Request carries everything a backend may use to phrase an outcome.
type Request struct {
	RawText   string
	Narrative string
	RoomState types.RoomState
	Inventory []types.InventoryItem
	RoomName  string
}

// Narrator rewrites a decided narrative. Implementations must not change
// what happened, only how it is told.
type Narrator interface {
	Narrate(ctx context.Context, req Request) (string, error)
}

// Func adapts a plain function to the Narrator interface.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Narrate(ctx context.Context, req Request) (string, error) {
	if f == nil {
		return "", ErrUnavailable
	}
	return f(ctx, req)
}

// Decorate asks n to rewrite req.Narrative within timeout. It always
// returns usable text: on a nil narrator, an error, a timeout, or a reply
// shorter than minLength it returns req.Narrative unchanged, together with
// the reason for falling back.
func Decorate(ctx context.Context, n Narrator, req Request, timeout time.Duration) (string, error) {
	if n == nil {
		return req.Narrative, ErrUnavailable
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("narrator panicked: %v", r)}
			}
		}()
		text, err := n.Narrate(ctx, req)
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return req.Narrative, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return req.Narrative, r.err
		}
		text := Clean(r.text)
		if len(text) < minLength {
			return req.Narrative, fmt.Errorf("narrator reply too short (%d chars)", len(text))
		}
		return text, nil
	}
}

var instBlock = regexp.MustCompile(`(?s)\[INST\].*?\[/INST\]`)

// Clean strips prompt artifacts and keeps the first paragraph.
func Clean(text string) string {
	text = strings.TrimSpace(instBlock.ReplaceAllString(text, ""))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// Prompt builds the narrator instructions for a request.
func Prompt(req Request) string {
	rs := req.RoomState
	var b strings.Builder
	fmt.Fprintf(&b, "You are the narrator for a text-based escape room game. The player is in %q.\n\n", req.RoomName)
	b.WriteString("Current room state:\n")
	for _, row := range []struct {
		label string
		value bool
	}{
		{"Clock examined", rs.ClockExamined},
		{"Clock opened", rs.ClockOpened},
		{"Desk examined", rs.DeskExamined},
		{"Desk unlocked", rs.DeskUnlocked},
		{"Desk opened", rs.DeskOpened},
		{"Bookshelf examined", rs.BookshelfExamined},
		{"Diary found", rs.DiaryFound},
		{"Diary read", rs.DiaryRead},
		{"Painting examined", rs.PaintingExamined},
		{"Painting removed", rs.PaintingRemoved},
		{"Safe found", rs.SafeFound},
		{"Safe opened", rs.SafeOpened},
		{"Door examined", rs.DoorExamined},
		{"Door unlocked", rs.DoorUnlocked},
	} {
		fmt.Fprintf(&b, "- %s: %t\n", row.label, row.value)
	}
	b.WriteString(InventoryLine(req.Inventory))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "The player just executed: %q\n\n", req.RawText)
	fmt.Fprintf(&b, "Base description (what happened): %q\n\n", req.Narrative)
	b.WriteString("YOUR TASK: Write a mysterious, atmospheric 2-3 sentence description based on the base description above.\n")
	b.WriteString("- DO NOT make game logic decisions - the game has already decided what happened\n")
	b.WriteString("- DO enhance the description with atmosphere, mystery, and engaging prose\n")
	b.WriteString("- Match the tone of an escape room adventure\n")
	b.WriteString("- Be creative but stay true to what actually happened\n")
	b.WriteString("- Keep it concise (2-3 sentences max)")
	return b.String()
}

// InventoryLine renders an inventory for prompts and status output.
func InventoryLine(inv []types.InventoryItem) string {
	if len(inv) == 0 {
		return "Inventory: Empty"
	}
	names := make([]string, len(inv))
	for i, item := range inv {
		names[i] = item.Name
	}
	return "Inventory: " + strings.Join(names, ", ")
}
