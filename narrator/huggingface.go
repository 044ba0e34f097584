package narrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultHuggingFaceURL is the hosted inference endpoint used by default.
const DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.2"

// HuggingFace rewrites narratives through a Hugging Face inference endpoint.
type HuggingFace struct {
	Token      string
	URL        string
	HTTPClient *http.Client
}

// NewHuggingFace creates a client for the given endpoint.
func NewHuggingFace(token, url string) (*HuggingFace, error) {
	if token == "" {
		return nil, fmt.Errorf("huggingface: %w: no API token", ErrUnavailable)
	}
	if url == "" {
		url = DefaultHuggingFaceURL
	}
	return &HuggingFace{
		Token:      token,
		URL:        url,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	TopP           float64 `json:"top_p"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfGenerated struct {
	GeneratedText string `json:"generated_text"`
}

// Narrate implements Narrator.
func (h *HuggingFace) Narrate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: "<s>[INST] " + Prompt(req) + " [/INST]",
		Parameters: hfParameters{
			MaxNewTokens: 150,
			Temperature:  0.7,
			TopP:         0.9,
		},
	})
	if err != nil {
		return "", fmt.Errorf("huggingface: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("huggingface: building request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+h.Token)
	httpReq.Header.Set("Content-Type", "application/json")

	client := h.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("huggingface: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("huggingface: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("huggingface: status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	return decodeGenerated(data)
}

// decodeGenerated accepts the three response shapes the endpoint uses:
// a list of generations, a single generation, or a bare string.
func decodeGenerated(data []byte) (string, error) {
	var list []hfGenerated
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			return list[0].GeneratedText, nil
		}
		return "", nil
	}
	var one hfGenerated
	if err := json.Unmarshal(data, &one); err == nil && one.GeneratedText != "" {
		return one.GeneratedText, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	return "", fmt.Errorf("huggingface: unexpected response: %.80s", data)
}
