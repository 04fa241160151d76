// Package assist calls a hosted language model to translate regional food
// names and correct misspelled dish names.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/search"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var ErrNotConfigured = errors.New("assist client not configured")

// GeminiClient implements search.Assistant over the generateContent API
type GeminiClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *zap.Logger
}

var _ search.Assistant = (*GeminiClient)(nil)

// NewGeminiClient creates a client. An empty apiKey yields a client whose
// calls fail fast with ErrNotConfigured.
func NewGeminiClient(baseURL, apiKey, model string, logger *zap.Logger) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		logger:     logger,
	}
}

// CorrectSpelling maps a possibly misspelled dish phrase onto the menu vocabulary
func (g *GeminiClient) CorrectSpelling(ctx context.Context, text string, vocabulary []string) (string, error) {
	prompt := buildSpellingPrompt(text, vocabulary)
	out, err := g.generate(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	out = strings.Trim(strings.TrimSpace(out), `"'`)
	if out == "" {
		return text, nil
	}
	return strings.ToLower(out), nil
}

// Translate renders a regional-language food phrase in English with alternative spellings
func (g *GeminiClient) Translate(ctx context.Context, text string) (search.Translation, error) {
	out, err := g.generate(ctx, buildTranslatePrompt(text), true)
	if err != nil {
		return search.Translation{}, err
	}

	var parsed struct {
		Primary    string   `json:"primary"`
		Variations []string `json:"variations"`
	}
	if err := json.Unmarshal([]byte(stripFence(out)), &parsed); err != nil {
		return search.Translation{}, fmt.Errorf("failed to decode translation: %w", err)
	}
	if parsed.Primary == "" {
		return search.Translation{}, errors.New("empty translation")
	}
	return search.Translation{
		Primary:    strings.ToLower(strings.TrimSpace(parsed.Primary)),
		Variations: lowerAll(parsed.Variations),
	}, nil
}

func (g *GeminiClient) generate(ctx context.Context, prompt string, jsonOut bool) (string, error) {
	if g.apiKey == "" {
		return "", ErrNotConfigured
	}

	generation := map[string]any{
		"temperature":     0.1,
		"maxOutputTokens": 256,
	}
	if jsonOut {
		generation["responseMimeType"] = "application/json"
	}
	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": generation,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assist request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	g.logger.Debug("assist call",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assist api returned status %d: %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty assist response")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

func buildSpellingPrompt(text string, vocabulary []string) string {
	var b strings.Builder
	b.WriteString("You correct misspelled food names for an Indian restaurant menu.\n")
	b.WriteString("Known menu words: ")
	b.WriteString(strings.Join(vocabulary, ", "))
	b.WriteString("\nReturn only the corrected phrase in lowercase, nothing else. ")
	b.WriteString("If the phrase is already correct, return it unchanged.\n")
	b.WriteString("Phrase: ")
	b.WriteString(text)
	return b.String()
}

func buildTranslatePrompt(text string) string {
	return "Translate this food search phrase from any Indian language or romanized form into English dish words. " +
		`Respond with JSON {"primary": "<english phrase>", "variations": ["<common alternative spellings or regional names>"]}. ` +
		"Phrase: " + text
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
