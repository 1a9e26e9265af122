// Package chatbot relays assistant conversations to the Gemini API. The
// model is an opaque external collaborator: it gets a message plus a
// bounded history and returns text or fails.
package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	// MaxHistory bounds how many prior turns are replayed to the model.
	MaxHistory = 10

	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-1.5-flash"
)

// NotConfiguredErr means no API key is set; the chat endpoints report this
// instead of calling out.
var NotConfiguredErr = errors.New("chat model not configured")

// Turn is one message in a conversation. Role is "user" or "assistant".
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client produces an assistant reply for a message given the prior turns.
type Client interface {
	// Configured reports whether the client can reach a model at all.
	Configured() bool
	Message(ctx context.Context, history []Turn, userMessage string) (string, error)
}

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type GeminiOption func(*GeminiClient)

// WithBaseURL overrides the API host (primarily for testing).
func WithBaseURL(url string) GeminiOption {
	return func(c *GeminiClient) {
		c.baseURL = url
	}
}

// WithModel selects the model name.
func WithModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		c.model = model
	}
}

func NewGeminiClient(apiKey string, timeout time.Duration, options ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

var _ Client = (*GeminiClient)(nil)

// Configured reports whether an API key is present.
func (c *GeminiClient) Configured() bool {
	return c.apiKey != ""
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		TopP            float64 `json:"topP"`
		TopK            int     `json:"topK"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) Message(ctx context.Context, history []Turn, userMessage string) (string, error) {
	if !c.Configured() {
		return "", NotConfiguredErr
	}

	req := geminiRequest{}
	req.GenerationConfig.Temperature = 0.7
	req.GenerationConfig.TopP = 0.95
	req.GenerationConfig.TopK = 40
	req.GenerationConfig.MaxOutputTokens = 1024

	for _, turn := range history {
		role := "user"
		if turn.Role != "user" {
			role = "model"
		}
		req.Contents = append(req.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: turn.Content}},
		})
	}
	req.Contents = append(req.Contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: userMessage}},
	})

	body, err := json.Marshal(req)
	if err != nil {
		return "", errors.Wrap(err, "[GeminiClient.Message] encode request")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "[GeminiClient.Message] build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "[GeminiClient.Message] call model")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errors.Errorf("[GeminiClient.Message] model returned %d: %s", resp.StatusCode, payload)
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.Wrap(err, "[GeminiClient.Message] decode response")
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("[GeminiClient.Message] empty model response")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}
