package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
}

func TestTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "KEY", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(geminiReply("```json\n{\"primary\": \"Chicken Curry\", \"variations\": [\"Kodi Kura\", \" \"]}\n```"))
	}))
	defer server.Close()

	g := NewGeminiClient(server.URL, "KEY", "test-model", nil)
	tr, err := g.Translate(context.Background(), "కోడి కూర")
	require.NoError(t, err)
	assert.Equal(t, "chicken curry", tr.Primary)
	assert.Equal(t, []string{"kodi kura"}, tr.Variations)
}

func TestCorrectSpelling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiReply(" \"Biryani\"\n"))
	}))
	defer server.Close()

	g := NewGeminiClient(server.URL, "KEY", "test-model", nil)
	out, err := g.CorrectSpelling(context.Background(), "biriyani", []string{"biryani", "idli"})
	require.NoError(t, err)
	assert.Equal(t, "biryani", out)
}

func TestAssistErrors(t *testing.T) {
	tests := []struct {
		name          string
		handler       func(w http.ResponseWriter, r *http.Request)
		errorContains string
	}{
		{
			name: "Server Error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("boom"))
			},
			errorContains: "status 500",
		},
		{
			name: "Empty Candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"candidates": []}`))
			},
			errorContains: "empty assist response",
		},
		{
			name: "Non JSON Translation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(geminiReply("chicken curry"))
			},
			errorContains: "decode translation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.handler))
			defer server.Close()

			g := NewGeminiClient(server.URL, "KEY", "m", nil)
			_, err := g.Translate(context.Background(), "kodi kura")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestNotConfigured(t *testing.T) {
	g := NewGeminiClient("", "", "", nil)
	_, err := g.CorrectSpelling(context.Background(), "idly", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
