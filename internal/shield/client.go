// internal/shield/client.go
// Package shield wraps the remote jailbreak/XPIA classification endpoint.
package shield

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/shieldops/shieldeval/internal/appconfig"
	"github.com/shieldops/shieldeval/internal/logging"
)

// Request is the classification request payload. Model is only sent when the
// configuration names one.
type Request struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// Classification is one category's verdict.
type Classification struct {
	PredictedClass int       `json:"class"`
	Scores         []float64 `json:"scores"`
}

// Response is the versioned response schema. XPIA is optional; older endpoint
// revisions omit it.
type Response struct {
	Jailbreak Classification  `json:"jailbreak"`
	XPIA      *Classification `json:"xpia,omitempty"`
}

// Verdict is the part of a response consumed downstream: the jailbreak
// category's predicted class and its first confidence score.
type Verdict struct {
	PredictedClass int
	Score          float64
}

// ClassificationError reports an unreachable endpoint, a non-success status,
// or a response that fails schema validation.
type ClassificationError struct {
	Endpoint string
	Status   string
	Err      error
}

func (e *ClassificationError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("classification request to %s failed: %s: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("classification request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// responseSchemaJSON validates the wire payload before it is trusted:
// jailbreak is required, xpia optional, classes are 0 or 1, and every score
// sits in [0,1].
const responseSchemaJSON = `{
  "type": "object",
  "required": ["jailbreak"],
  "properties": {
    "jailbreak": {"$ref": "#/definitions/classification"},
    "xpia": {"$ref": "#/definitions/classification"}
  },
  "definitions": {
    "classification": {
      "type": "object",
      "required": ["class", "scores"],
      "properties": {
        "class": {"type": "integer", "enum": [0, 1]},
        "scores": {
          "type": "array",
          "minItems": 1,
          "items": {"type": "number", "minimum": 0, "maximum": 1}
        }
      }
    }
  }
}`

var responseSchema = gojsonschema.NewStringLoader(responseSchemaJSON)

// Client performs classification calls against the configured shield endpoint.
// It issues exactly one outbound request per Classify call and never retries.
type Client struct {
	client   *http.Client
	endpoint string
	apiKey   string
	model    string
	debug    bool
}

// New constructs a Client configured with the application's request timeout.
func New(cfg *appconfig.Config) *Client {
	return &Client{
		client: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		endpoint: cfg.Endpoint(),
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		debug:    cfg.Debug,
	}
}

// Classify sends text to the shield endpoint and returns the jailbreak
// verdict. The text may be empty. Errors are ClassificationError values and
// are never swallowed here.
func (c *Client) Classify(ctx context.Context, text string) (Verdict, error) {
	body, err := json.Marshal(Request{Text: text, Model: c.model})
	if err != nil {
		return Verdict{}, &ClassificationError{Endpoint: c.endpoint, Err: err}
	}
	if c.debug {
		logging.LogRequest("EVAL->SHIELD", c.endpoint, c.model, body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Verdict{}, &ClassificationError{Endpoint: c.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Verdict{}, &ClassificationError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Verdict{}, &ClassificationError{Endpoint: c.endpoint, Status: resp.Status, Err: err}
	}
	if c.debug {
		logging.LogRequest("SHIELD->EVAL", c.endpoint, c.model, raw)
	}

	if resp.StatusCode != http.StatusOK {
		return Verdict{}, &ClassificationError{
			Endpoint: c.endpoint,
			Status:   resp.Status,
			Err:      fmt.Errorf("%s", strings.TrimSpace(string(raw))),
		}
	}

	parsed, err := parseResponse(raw)
	if err != nil {
		return Verdict{}, &ClassificationError{Endpoint: c.endpoint, Status: resp.Status, Err: err}
	}

	return Verdict{
		PredictedClass: parsed.Jailbreak.PredictedClass,
		Score:          parsed.Jailbreak.Scores[0],
	}, nil
}

// parseResponse validates the payload against the response schema and decodes it.
func parseResponse(raw []byte) (Response, error) {
	result, err := gojsonschema.Validate(responseSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Response{}, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return Response{}, fmt.Errorf("response failed validation: %s", strings.Join(details, "; "))
	}

	var parsed Response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return parsed, nil
}
