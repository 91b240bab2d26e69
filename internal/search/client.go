// Package search adapts a search-grounded text generation gateway into the
// catalog, rate and vision providers. Every answer arrives as free text and
// is read with textparse.
package search

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/lemonexport/quote-engine/internal/textparse"
)

// DefaultSourceRef is cited when the gateway returns no grounding source.
const DefaultSourceRef = "https://www.dongchedi.com"

const defaultTimeout = 30 * time.Second

var (
	ErrNotConfigured = errors.New("search: gateway URL not configured")
	ErrStatus        = errors.New("search: gateway returned an error status")
)

// Options tunes the client. Zero values pick sensible defaults.
type Options struct {
	APIKey string
	// RPS caps outbound requests per second; 0 disables throttling.
	RPS     float64
	Burst   int
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
	// Bands bound the figures accepted from answers; zero means the
	// textparse defaults.
	PriceBand textparse.Band
	RateBand  textparse.Band
}

// Client calls POST {base}/v1/generate.
type Client struct {
	baseURL   string
	apiKey    string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
	priceBand textparse.Band
	rateBand  textparse.Band
}

// NewClient creates a gateway client for baseURL.
func NewClient(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	var lim *rate.Limiter
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	priceBand, rateBand := opts.PriceBand, opts.RateBand
	if priceBand.Max.IsZero() {
		priceBand = textparse.DefaultPriceBand()
	}
	if rateBand.Max.IsZero() {
		rateBand = textparse.DefaultRateBand()
	}
	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:    opts.APIKey,
		http:      hc,
		limiter:   lim,
		logger:    logger,
		priceBand: priceBand,
		rateBand:  rateBand,
	}
}

// InlineImage is a base64-encoded image attached to a prompt.
type InlineImage struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Request is the gateway request body.
type Request struct {
	Prompt      string        `json:"prompt"`
	Search      bool          `json:"search"`
	Temperature *float64      `json:"temperature,omitempty"`
	Images      []InlineImage `json:"images,omitempty"`
}

// Response is the gateway reply: generated text plus the URLs it cited.
type Response struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources"`
}

// Generate sends one prompt and returns the gateway's answer.
func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	if c.baseURL == "" {
		return Response{}, ErrNotConfigured
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Response{}, fmt.Errorf("search: throttle: %w", err)
		}
	}

	endpoint, err := url.JoinPath(c.baseURL, "v1", "generate")
	if err != nil {
		return Response{}, fmt.Errorf("search: endpoint: %w", err)
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("search: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("search: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("search: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Response{}, fmt.Errorf("%w: %d: %s", ErrStatus, resp.StatusCode, drainError(resp.Body))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("search: decode response: %w", err)
	}
	c.logger.Debug("search gateway answered",
		"elapsed", time.Since(started),
		"chars", len(out.Text),
		"sources", len(out.Sources),
	)
	return out, nil
}

func (c *Client) ask(ctx context.Context, prompt string, temperature *float64) (Response, error) {
	return c.Generate(ctx, Request{Prompt: prompt, Search: true, Temperature: temperature})
}

func encodeImage(mime string, data []byte) InlineImage {
	if mime == "" {
		mime = "image/jpeg"
	}
	return InlineImage{MIMEType: mime, Data: base64.StdEncoding.EncodeToString(data)}
}

func drainError(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
