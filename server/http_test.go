package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/nathoo/lockedstudy/types"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	hub := testHub(Options{})
	srv := httptest.NewServer(NewHandler(hub, slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(srv.Close)
	return srv, hub
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func createSession(t *testing.T, srv *httptest.Server) Session {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var s Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestHTTP_WinPath(t *testing.T) {
	srv, _ := newTestServer(t)
	s := createSession(t, srv)

	var last types.Reply
	for _, cmd := range []string{"set clock to midnight", "open desk", "open door"} {
		resp := postJSON(t, srv.URL+"/api/sessions/"+s.ID+"/commands", commandRequest{Text: cmd})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%q status = %d", cmd, resp.StatusCode)
		}
		last = types.Reply{}
		if err := json.NewDecoder(resp.Body).Decode(&last); err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}
	if !last.Win {
		t.Errorf("final reply = %+v, want win", last)
	}

	resp, err := http.Get(srv.URL + "/api/sessions/" + s.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var st State
	json.NewDecoder(resp.Body).Decode(&st)
	if !st.Won || st.Moves != 3 {
		t.Errorf("state = %+v", st)
	}
}

func TestHTTP_Errors(t *testing.T) {
	srv, _ := newTestServer(t)
	s := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/missing/commands", commandRequest{Text: "look"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session status = %d", resp.StatusCode)
	}

	resp, err := http.Post(srv.URL+"/api/sessions/"+s.ID+"/commands", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body status = %d", resp.StatusCode)
	}
}

func TestHTTP_RejectedReplyIsOK(t *testing.T) {
	srv, _ := newTestServer(t)
	s := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/api/sessions/"+s.ID+"/commands", commandRequest{Text: "open door"})
	defer resp.Body.Close()
	var reply types.Reply
	json.NewDecoder(resp.Body).Decode(&reply)
	if resp.StatusCode != http.StatusOK || !reply.Rejected {
		t.Errorf("status=%d reply=%+v", resp.StatusCode, reply)
	}
	if reply.ErrorMessage != "The door is locked. You need a golden key to unlock it." {
		t.Errorf("ErrorMessage = %q", reply.ErrorMessage)
	}
}

func TestHTTP_TranscriptPDF(t *testing.T) {
	srv, _ := newTestServer(t)
	s := createSession(t, srv)
	postJSON(t, srv.URL+"/api/sessions/"+s.ID+"/commands", commandRequest{Text: "examine desk"}).Body.Close()

	resp, err := http.Get(srv.URL + "/api/sessions/" + s.ID + "/transcript.pdf")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func TestWebSocket_NewSession(t *testing.T) {
	srv, hub := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	var hello serverMessage
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatal(err)
	}
	if hello.Type != FrameSession || hello.Session == "" || hello.Narrative != testRoom().Intro {
		t.Fatalf("hello = %+v", hello)
	}
	if hub.Len() != 1 {
		t.Errorf("hub.Len = %d", hub.Len())
	}

	tests := []struct {
		msg      clientMessage
		wantType string
		check    func(serverMessage) bool
	}{
		{clientMessage{Type: FrameCommand, Text: "examine clock"}, FrameReply,
			func(m serverMessage) bool { return !m.Rejected && m.Narrative != "" }},
		{clientMessage{Type: FrameCommand, Text: "open door"}, FrameReply,
			func(m serverMessage) bool { return m.Rejected }},
		{clientMessage{Type: FrameHint}, FrameReply,
			func(m serverMessage) bool { return strings.HasPrefix(m.Narrative, "Hint: ") }},
		{clientMessage{Type: FrameRestart}, FrameReply,
			func(m serverMessage) bool { return m.Narrative == testRoom().Intro }},
		{clientMessage{Type: "dance"}, FrameError,
			func(m serverMessage) bool { return strings.Contains(m.ErrorMessage, "dance") }},
	}
	for _, tt := range tests {
		if err := conn.WriteJSON(tt.msg); err != nil {
			t.Fatal(err)
		}
		var got serverMessage
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatal(err)
		}
		if got.Type != tt.wantType || !tt.check(got) {
			t.Errorf("%+v -> %+v", tt.msg, got)
		}
	}
}

func TestWebSocket_ExistingSession(t *testing.T) {
	srv, _ := newTestServer(t)
	s := createSession(t, srv)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?session="+s.ID), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(clientMessage{Type: FrameCommand, Text: "set clock to midnight"}); err != nil {
		t.Fatal(err)
	}
	var got serverMessage
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.Session != s.ID || got.Rejected {
		t.Errorf("reply = %+v", got)
	}
}

func TestWebSocket_UnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?session=missing"), nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v", resp)
	}
}
