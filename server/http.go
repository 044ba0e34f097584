package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nathoo/lockedstudy/transcript"
	"github.com/nathoo/lockedstudy/types"
)

// maxCommandBytes bounds a command request body.
const maxCommandBytes = 4 << 10

type commandRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler returns the HTTP API and the WebSocket endpoint for hub.
func NewHandler(hub *Hub, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/sessions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, hub.Create())
	})

	mux.HandleFunc("GET /api/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		st, err := hub.State(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	})

	mux.HandleFunc("DELETE /api/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		hub.Remove(r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /api/sessions/{id}/commands", func(w http.ResponseWriter, r *http.Request) {
		var req commandRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxCommandBytes)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid command body"})
			return
		}
		reply, err := hub.SubmitCommand(r.Context(), r.PathValue("id"), req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reply)
	})

	mux.HandleFunc("POST /api/sessions/{id}/hint", func(w http.ResponseWriter, r *http.Request) {
		text, ok, err := hub.Hint(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, types.Reply{Narrative: text, Rejected: !ok})
	})

	mux.HandleFunc("POST /api/sessions/{id}/restart", func(w http.ResponseWriter, r *http.Request) {
		intro, err := hub.Restart(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, types.Reply{Narrative: intro})
	})

	mux.HandleFunc("GET /api/sessions/{id}/transcript.pdf", func(w http.ResponseWriter, r *http.Request) {
		entries, err := hub.Transcript(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="transcript.pdf"`)
		if err := transcript.WritePDF(w, hub.opts.Room.Name, entries); err != nil {
			logger.Error("transcript export failed", "session", r.PathValue("id"), "err", err)
		}
	})

	mux.HandleFunc("GET /ws", wsHandler(hub, logger))

	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownSession):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrBusy):
		writeJSON(w, http.StatusConflict, errorResponse{Error: MsgBusy})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: strings.TrimSpace(err.Error())})
	}
}
