// internal/langsvc/langsvc_test.go
package langsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shieldops/shieldeval/internal/appconfig"
)

func newTestClient(detectURL, translateURL string) *HTTPClient {
	cfg := appconfig.Default()
	cfg.DetectURL = detectURL
	cfg.TranslateURL = translateURL
	cfg.APIKey = "secret"
	return NewHTTPClient(&cfg)
}

// TestDetectLanguage checks the request payload and returned code.
func TestDetectLanguage(t *testing.T) {
	var gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotText = req.Text
		_, _ = w.Write([]byte(`{"language": "fr"}`))
	}))
	defer server.Close()

	language, err := newTestClient(server.URL, "").DetectLanguage(context.Background(), "bonjour")
	if err != nil {
		t.Fatalf("DetectLanguage() failed: %v", err)
	}
	if language != "fr" {
		t.Fatalf("expected fr, got %q", language)
	}
	if gotText != "bonjour" {
		t.Fatalf("expected text to be sent, got %q", gotText)
	}
}

// TestDetectLanguageEmptyCode rejects a blank detection result.
func TestDetectLanguageEmptyCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"language": "  "}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL, "").DetectLanguage(context.Background(), "hello"); err == nil {
		t.Fatal("DetectLanguage() should have rejected an empty code")
	}
}

// TestTranslate checks source and target forwarding.
func TestTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text   string `json:"text"`
			Source string `json:"source"`
			Target string `json:"target"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Source != "en" || req.Target != "de" {
			t.Errorf("unexpected pair %s->%s", req.Source, req.Target)
		}
		_, _ = w.Write([]byte(`{"text": "hallo"}`))
	}))
	defer server.Close()

	translated, err := newTestClient("", server.URL).Translate(context.Background(), "hello", "en", "de")
	if err != nil {
		t.Fatalf("Translate() failed: %v", err)
	}
	if translated != "hallo" {
		t.Fatalf("expected hallo, got %q", translated)
	}
}

// TestTranslateServerError propagates non-success statuses.
func TestTranslateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported pair", http.StatusBadRequest)
	}))
	defer server.Close()

	if _, err := newTestClient("", server.URL).Translate(context.Background(), "hello", "en", "xx"); err == nil {
		t.Fatal("Translate() should have failed on a 400")
	}
}
