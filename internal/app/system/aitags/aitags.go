// internal/app/system/aitags/aitags.go
//
// Package aitags asks Gemini for search keywords describing a lost or
// found item. Tagging is best effort: any failure returns an empty tag
// list so post creation never depends on the AI service being up.
package aitags

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/campusfind/campusfind/internal/app/system/timeouts"
)

// DefaultBaseURL is the Gemini API endpoint. Tests point BaseURL at an
// httptest server.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Model is the Gemini model used for keyword extraction.
const Model = "gemini-3-flash-preview"

const promptTemplate = `Analyze the following text describing a lost or found item: %q.

Your Task:
1. Extract 5-7 distinct keywords (colors, object type, brand, key features).
2. If the text is in Roman Urdu (e.g., "kala bag"), translate keywords to English (e.g., "black bag").
3. Return ONLY a comma-separated list of keywords. No explanations.`

// Config holds Gemini settings. An empty APIKey disables tagging.
type Config struct {
	APIKey  string
	BaseURL string
}

// Client generates search tags for item descriptions.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// New creates a Client with the upstream timeout budget.
func New(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeouts.Upstream()},
		log:  log,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.cfg.APIKey != "" }

// Gemini generateContent request/response shapes, trimmed to the
// fields this client uses.
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

// Keywords extracts search tags from the item text. Failures of any
// kind (service down, bad response, disabled client) return an empty
// slice and never an error the caller must handle.
func (c *Client) Keywords(ctx context.Context, text string) []string {
	if !c.Enabled() || strings.TrimSpace(text) == "" {
		return nil
	}

	raw, err := c.generate(ctx, fmt.Sprintf(promptTemplate, text))
	if err != nil {
		if c.log != nil {
			c.log.Warn("keyword generation failed", zap.Error(err))
		}
		return nil
	}
	return splitKeywords(raw)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// splitKeywords turns the model's comma-separated reply into a clean
// tag list.
func splitKeywords(raw string) []string {
	raw = strings.ReplaceAll(raw, "\n", "")
	var tags []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			tags = append(tags, strings.ToLower(k))
		}
	}
	return tags
}
