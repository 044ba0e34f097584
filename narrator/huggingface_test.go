package narrator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeGenerated(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{"list", `[{"generated_text":"The room grows cold."}]`, "The room grows cold.", false},
		{"empty list", `[]`, "", false},
		{"object", `{"generated_text":"Candles flicker."}`, "Candles flicker.", false},
		{"string", `"A bare reply."`, "A bare reply.", false},
		{"error object", `{"error":"model loading"}`, "", true},
		{"garbage", `<html>`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeGenerated([]byte(tt.data))
			if got != tt.want || (err != nil) != tt.wantErr {
				t.Errorf("decodeGenerated = %q, %v", got, err)
			}
		})
	}
}

func TestNewHuggingFace_NoToken(t *testing.T) {
	if _, err := NewHuggingFace("", ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	hf, err := NewHuggingFace("tok", "")
	if err != nil || hf.URL != DefaultHuggingFaceURL {
		t.Errorf("default url: %v %v", hf, err)
	}
}

func TestHuggingFace_Narrate(t *testing.T) {
	var got hfRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"generated_text":"The golden key gleams in the gloom."}]`))
	}))
	defer srv.Close()

	hf, err := NewHuggingFace("secret", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	text, err := hf.Narrate(context.Background(), Request{RawText: "open desk", Narrative: base, RoomName: "The Locked Study"})
	if err != nil {
		t.Fatal(err)
	}
	if text != "The golden key gleams in the gloom." {
		t.Errorf("text = %q", text)
	}
	if !strings.HasPrefix(got.Inputs, "<s>[INST] ") || !strings.HasSuffix(got.Inputs, " [/INST]") {
		t.Errorf("inputs = %q", got.Inputs)
	}
	if got.Parameters.MaxNewTokens != 150 || got.Parameters.ReturnFullText {
		t.Errorf("parameters = %+v", got.Parameters)
	}
}

func TestHuggingFace_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	hf, _ := NewHuggingFace("secret", srv.URL)
	_, err := hf.Narrate(context.Background(), Request{Narrative: base})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("err = %v", err)
	}

	// Through Decorate the failure becomes the plain narrative.
	text, _ := Decorate(context.Background(), hf, Request{Narrative: base}, 0)
	if text != base {
		t.Errorf("text = %q", text)
	}
}

func TestNewGemini_NoKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
