// Package cli provides the plain terminal front end and the meta-command
// dispatch shared with the full-screen UI.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// CLI handles line-based interaction with the player.
type CLI struct {
	Game      *Game
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI on stdin/stdout.
func New(g *Game) *CLI {
	return &CLI{Game: g, In: os.Stdin, Out: os.Stdout}
}

// Run shows the intro, then loops: prompt, input, dispatch, output. It
// returns when input ends, on /quit, or when ctx is cancelled.
func (c *CLI) Run(ctx context.Context) {
	for _, line := range c.Game.Intro() {
		c.printLine(line)
	}
	c.printLine("")

	scanner := bufio.NewScanner(c.In)
	for ctx.Err() == nil {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		out := c.Game.Play(ctx, input)
		c.printOutput(out)
		if out.Quit {
			return
		}
	}
}

func (c *CLI) printOutput(out Output) {
	for _, line := range out.Lines {
		if out.System && line != "" {
			c.printSystem(line)
			continue
		}
		c.printLine(line)
	}
	c.printLine("")
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
