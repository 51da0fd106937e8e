package nlparser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/calorietrack/backend/internal/domain"
)

// Client talks to the natural-language command service. It is stateless
// and safe for concurrent use; each Parse call is a single request with
// no retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient creates a client for the NL command service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second // the parser runs an LLM call, be generous
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// SetDebug enables verbose request/response logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// nlRequest is the wire format of a parse request.
type nlRequest struct {
	Text string `json:"text"`
}

// Parse sends free text to the NL service and decodes the structured
// command. Non-2xx responses preserve the raw body for diagnostics.
func (c *Client) Parse(ctx context.Context, text string) (*domain.NLCommandResponse, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty command text", domain.ErrInvalidInput)
	}

	payload, err := json.Marshal(nlRequest{Text: trimmed})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncode, err)
	}

	reqURL := fmt.Sprintf("%s/nl-command", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.debug {
		log.Printf("[NL] Parse text=%q", trimmed)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.debug {
			log.Printf("[NL] Parse -> %d: %s", resp.StatusCode, string(body))
		}
		return nil, &domain.StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var parsed domain.NLCommandResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if parsed.Intent == "" {
		return nil, fmt.Errorf("%w: response missing intent", domain.ErrDecode)
	}
	if parsed.MissingFields == nil {
		parsed.MissingFields = []string{}
	}

	if c.debug {
		log.Printf("[NL] Parse -> intent=%q items=%d", parsed.Intent, len(parsed.Entities.Items))
	}
	return &parsed, nil
}
