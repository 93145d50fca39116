// internal/langsvc/langsvc.go
// Package langsvc provides clients for the language detection and translation
// services consumed during dataset augmentation.
package langsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shieldops/shieldeval/internal/appconfig"
	"github.com/shieldops/shieldeval/internal/logging"
)

// Detector identifies the language of a text sample.
type Detector interface {
	DetectLanguage(ctx context.Context, text string) (string, error)
}

// Translator produces a machine translation of text from source into target.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Language string `json:"language"`
}

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	Text string `json:"text"`
}

// HTTPClient implements Detector and Translator against HTTP services.
type HTTPClient struct {
	client       *http.Client
	detectURL    string
	translateURL string
	apiKey       string
	debug        bool
}

// NewHTTPClient constructs an HTTPClient from the application configuration.
func NewHTTPClient(cfg *appconfig.Config) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		detectURL:    cfg.DetectURL,
		translateURL: cfg.TranslateURL,
		apiKey:       cfg.APIKey,
		debug:        cfg.Debug,
	}
}

// DetectLanguage returns the ISO language code the detection service assigns
// to text.
func (c *HTTPClient) DetectLanguage(ctx context.Context, text string) (string, error) {
	var parsed detectResponse
	if err := c.post(ctx, c.detectURL, detectRequest{Text: text}, &parsed); err != nil {
		return "", fmt.Errorf("language detection failed: %w", err)
	}
	language := strings.TrimSpace(parsed.Language)
	if language == "" {
		return "", fmt.Errorf("language detection failed: service returned an empty language code")
	}
	return language, nil
}

// Translate returns the machine translation of text from source into target.
func (c *HTTPClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	var parsed translateResponse
	req := translateRequest{Text: text, Source: source, Target: target}
	if err := c.post(ctx, c.translateURL, req, &parsed); err != nil {
		return "", fmt.Errorf("translation %s->%s failed: %w", source, target, err)
	}
	return parsed.Text, nil
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if c.debug {
		logging.LogRequest("EVAL->LANG", endpoint, "", body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if c.debug {
		logging.LogRequest("LANG->EVAL", endpoint, "", raw)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s: %s", endpoint, resp.Status, strings.TrimSpace(string(raw)))
	}
	return json.Unmarshal(raw, out)
}
