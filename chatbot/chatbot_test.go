package chatbot_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scholarhub/portal/chatbot"
	"github.com/stretchr/testify/require"
)

func TestGeminiClientMessage(t *testing.T) {
	var captured struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Here are some scholarships."}]}}]}`)
	}))
	defer server.Close()

	client := chatbot.NewGeminiClient("test-key", 5*time.Second, chatbot.WithBaseURL(server.URL))

	history := []chatbot.Turn{
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello!"},
	}
	reply, err := client.Message(context.Background(), history, "Any STEM scholarships?")
	require.NoError(t, err)
	require.Equal(t, "Here are some scholarships.", reply)

	// History replayed with assistant turns mapped to the model role,
	// new message appended last.
	require.Len(t, captured.Contents, 3)
	require.Equal(t, "user", captured.Contents[0].Role)
	require.Equal(t, "model", captured.Contents[1].Role)
	require.Equal(t, "Any STEM scholarships?", captured.Contents[2].Parts[0].Text)
}

func TestGeminiClientNotConfigured(t *testing.T) {
	client := chatbot.NewGeminiClient("", time.Second)

	_, err := client.Message(context.Background(), nil, "hello")
	require.ErrorIs(t, err, chatbot.NotConfiguredErr)
}

func TestGeminiClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := chatbot.NewGeminiClient("test-key", time.Second, chatbot.WithBaseURL(server.URL))

	_, err := client.Message(context.Background(), nil, "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestHistoryRepoCap(t *testing.T) {
	repo := chatbot.NewHistoryRepo()

	for i := 0; i < 8; i++ {
		repo.Append("tok",
			chatbot.Turn{Role: "user", Content: fmt.Sprintf("q%d", i)},
			chatbot.Turn{Role: "assistant", Content: fmt.Sprintf("a%d", i)},
		)
	}

	history := repo.Get("tok")
	require.Len(t, history, chatbot.MaxHistory)
	// Only the most recent turns survive.
	require.Equal(t, "q3", history[0].Content)
	require.Equal(t, "a7", history[len(history)-1].Content)
}

func TestHistoryRepoReset(t *testing.T) {
	repo := chatbot.NewHistoryRepo()
	repo.Append("tok", chatbot.Turn{Role: "user", Content: "q"})
	repo.Reset("tok")
	require.Empty(t, repo.Get("tok"))

	// Reset is safe for unknown tokens.
	repo.Reset("other")
}
