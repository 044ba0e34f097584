package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Frame types.
const (
	FrameCommand = "command"
	FrameHint    = "hint"
	FrameRestart = "restart"
	FrameSession = "session"
	FrameReply   = "reply"
	FrameError   = "error"
)

type clientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type serverMessage struct {
	Type         string `json:"type"`
	Session      string `json:"session,omitempty"`
	Narrative    string `json:"narrative,omitempty"`
	Win          bool   `json:"win,omitempty"`
	Rejected     bool   `json:"rejected,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsHandler serves /ws?session=<id>. Without a session parameter a new
// session is created and announced in the first frame.
func wsHandler(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("session")
		if id != "" {
			if _, err := hub.State(id); errors.Is(err, ErrUnknownSession) {
				http.Error(w, "unknown session", http.StatusNotFound)
				return
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "session", id, "err", err)
			return
		}
		defer conn.Close()

		if id == "" {
			s := hub.Create()
			id = s.ID
			if err := conn.WriteJSON(serverMessage{Type: FrameSession, Session: s.ID, Narrative: s.Intro}); err != nil {
				return
			}
		}

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("websocket read failed", "session", id, "err", err)
				}
				return
			}

			var msg clientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				logger.Debug("discarding malformed frame", "session", id, "err", err)
				if conn.WriteJSON(serverMessage{Type: FrameError, ErrorMessage: "malformed frame"}) != nil {
					return
				}
				continue
			}

			if err := conn.WriteJSON(handleFrame(r, hub, id, msg)); err != nil {
				return
			}
		}
	}
}

func handleFrame(r *http.Request, hub *Hub, id string, msg clientMessage) serverMessage {
	out := serverMessage{Type: FrameReply, Session: id}
	var err error
	switch msg.Type {
	case FrameCommand:
		reply, e := hub.SubmitCommand(r.Context(), id, msg.Text)
		err = e
		out.Narrative = reply.Narrative
		out.Win = reply.Win
		out.Rejected = reply.Rejected
		out.ErrorMessage = reply.ErrorMessage
	case FrameHint:
		text, ok, e := hub.Hint(id)
		err = e
		out.Narrative = text
		out.Rejected = !ok
	case FrameRestart:
		out.Narrative, err = hub.Restart(id)
	default:
		return serverMessage{Type: FrameError, Session: id, ErrorMessage: "unknown frame type " + msg.Type}
	}

	switch {
	case errors.Is(err, ErrBusy):
		return serverMessage{Type: FrameError, Session: id, ErrorMessage: MsgBusy}
	case err != nil:
		return serverMessage{Type: FrameError, Session: id, ErrorMessage: err.Error()}
	}
	return out
}
