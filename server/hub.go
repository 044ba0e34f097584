// Package server exposes game sessions over HTTP and WebSocket. Each
// session owns its own engine; commands for one session are strictly
// sequential.
package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/lockedstudy/engine"
	"github.com/nathoo/lockedstudy/engine/events"
	"github.com/nathoo/lockedstudy/narrator"
	"github.com/nathoo/lockedstudy/transcript"
	"github.com/nathoo/lockedstudy/types"
)

var (
	// ErrBusy is returned when a session's previous command is still running.
	ErrBusy = errors.New("session busy")
	// ErrUnknownSession is returned for an id the hub does not hold.
	ErrUnknownSession = errors.New("unknown session")
)

// MsgBusy is shown to a player who submits while a command is in flight.
const MsgBusy = "Still thinking…"

// Options configures every engine the hub creates.
type Options struct {
	Room            types.RoomDef
	Narrator        narrator.Narrator
	NarratorTimeout time.Duration
	Handlers        []events.Handler
	Logger          *slog.Logger
	Seed            func() int64 // hint seed per session; defaults to the clock
}

// Session describes a newly created session.
type Session struct {
	ID    string `json:"session"`
	Room  string `json:"room"`
	Intro string `json:"narrative"`
}

// State is a read-only view of a session.
type State struct {
	ID        string                `json:"session"`
	Room      string                `json:"room"`
	Moves     int                   `json:"moves"`
	HintsUsed int                   `json:"hintsUsed"`
	Won       bool                  `json:"won"`
	Inventory []types.InventoryItem `json:"inventory"`
}

type entry struct {
	busy   bool
	engine *engine.Engine
	log    *transcript.Log
}

// Hub owns all live sessions.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*entry
	opts     Options
}

// NewHub creates an empty hub.
func NewHub(opts Options) *Hub {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Seed == nil {
		opts.Seed = func() int64 { return time.Now().UnixNano() }
	}
	return &Hub{sessions: make(map[string]*entry), opts: opts}
}

// Create starts a new session and records its intro in the transcript.
func (h *Hub) Create() Session {
	id := uuid.NewString()

	eng := engine.New(h.opts.Room, h.opts.Seed())
	eng.ID = id
	eng.Narrator = h.opts.Narrator
	if h.opts.NarratorTimeout > 0 {
		eng.NarratorTimeout = h.opts.NarratorTimeout
	}
	eng.Handlers = h.opts.Handlers
	eng.Logger = h.opts.Logger

	log := transcript.New()
	log.System(h.opts.Room.Intro)

	h.mu.Lock()
	h.sessions[id] = &entry{engine: eng, log: log}
	h.mu.Unlock()

	h.opts.Logger.Info("session created", "session", id)
	return Session{ID: id, Room: h.opts.Room.Name, Intro: h.opts.Room.Intro}
}

// Remove forgets a session.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

// Len reports the number of live sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// SubmitCommand runs one command for a session.
func (h *Hub) SubmitCommand(ctx context.Context, id, text string) (types.Reply, error) {
	var reply types.Reply
	err := h.with(id, func(e *entry) {
		e.log.Player(text)
		reply = e.engine.Submit(ctx, text)
		e.log.System(reply.Narrative)
	})
	return reply, err
}

// Hint reveals the session's hint. The bool reports whether a hint was given.
func (h *Hub) Hint(id string) (string, bool, error) {
	var (
		text string
		ok   bool
	)
	err := h.with(id, func(e *entry) {
		text, ok = e.engine.Hint()
		if ok {
			e.log.Hint(text)
		} else {
			e.log.System(text)
		}
	})
	return text, ok, err
}

// Restart resets a session and its transcript, returning the intro.
func (h *Hub) Restart(id string) (string, error) {
	var intro string
	err := h.with(id, func(e *entry) {
		e.engine.Restart()
		e.log.Reset()
		intro = e.engine.Room.Intro
		e.log.System(intro)
	})
	return intro, err
}

// State returns a snapshot of a session.
func (h *Hub) State(id string) (State, error) {
	var st State
	err := h.with(id, func(e *entry) {
		sum := e.engine.Summary()
		st = State{
			ID:        id,
			Room:      sum.Room,
			Moves:     sum.Moves,
			HintsUsed: sum.HintsUsed,
			Won:       sum.Won,
			Inventory: sum.Items,
		}
	})
	return st, err
}

// Transcript returns a copy of a session's message log.
func (h *Hub) Transcript(id string) ([]transcript.Entry, error) {
	var entries []transcript.Entry
	err := h.with(id, func(e *entry) {
		entries = e.log.Entries()
	})
	return entries, err
}

// with marks the entry busy for the duration of fn. A second caller for
// the same session gets ErrBusy instead of waiting.
func (h *Hub) with(id string, fn func(*entry)) error {
	h.mu.Lock()
	e, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return ErrUnknownSession
	}
	if e.busy {
		h.mu.Unlock()
		return ErrBusy
	}
	e.busy = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		e.busy = false
		h.mu.Unlock()
	}()
	fn(e)
	return nil
}
