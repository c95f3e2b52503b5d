// Package ai turns report figures into a short narrative through an LLM.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Summarizer generates a narrative summary for a prompt and its JSON context.
type Summarizer interface {
	GenerateSummary(ctx context.Context, prompt, contextJSON string) (string, error)
}

// BuildPrompt appends the report data and the answer format to prompt.
func BuildPrompt(prompt, contextJSON string) string {
	return prompt + ". Here is the relevant data in JSON format: " + contextJSON +
		". Keep your response concise, insightful, and directly address the prompt. " +
		"Format the key points as a bulleted list using '•'."
}

// CleanResponse swaps markdown asterisks for the bullet character.
func CleanResponse(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "*", "•"))
}

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewGeminiClient creates a client. baseURL is the API root, without the version path.
func NewGeminiClient(apiKey, model, baseURL string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// HTTPError is a non-2xx answer from the model API.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("gemini request failed with status %d", e.Status)
}

// GenerateSummary sends one generateContent request and returns the cleaned text.
func (g *GeminiClient) GenerateSummary(ctx context.Context, prompt, contextJSON string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: BuildPrompt(prompt, contextJSON)}}}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", &HTTPError{Status: res.StatusCode, Body: string(raw)}
	}

	var out generateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	var sb strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text")
	}
	return CleanResponse(sb.String()), nil
}
