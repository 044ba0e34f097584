// Package tui provides a Bubble Tea terminal UI for the escape room.
package tui

// recall walks back through the commands typed in this run. The line being
// edited when browsing starts is kept as a draft and comes back once the
// player walks past the newest command.
type recall struct {
	cmds  []string
	limit int
	pos   int // len(cmds) when not browsing
	draft string
}

func newRecall(limit int) *recall {
	return &recall{limit: limit}
}

// add stores a submitted command and stops browsing. Repeating the previous
// command does not add a new entry.
func (r *recall) add(cmd string) {
	if n := len(r.cmds); n == 0 || r.cmds[n-1] != cmd {
		r.cmds = append(r.cmds, cmd)
		if len(r.cmds) > r.limit {
			r.cmds = r.cmds[len(r.cmds)-r.limit:]
		}
	}
	r.pos = len(r.cmds)
	r.draft = ""
}

// older steps back one command. current is the input line at the time of
// the key press; it becomes the draft when browsing starts.
func (r *recall) older(current string) (string, bool) {
	if len(r.cmds) == 0 {
		return "", false
	}
	if r.pos >= len(r.cmds) {
		r.draft = current
		r.pos = len(r.cmds)
	}
	if r.pos > 0 {
		r.pos--
	}
	return r.cmds[r.pos], true
}

// newer steps forward one command, ending on the draft.
func (r *recall) newer() (string, bool) {
	if r.pos >= len(r.cmds) {
		return "", false
	}
	r.pos++
	if r.pos == len(r.cmds) {
		return r.draft, true
	}
	return r.cmds[r.pos], true
}
