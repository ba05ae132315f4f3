// Package webhook provides the webhook node handler, which performs an
// outbound HTTP request as a workflow step.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/automaton-hq/automaton/pkg/template"
)

const (
	defaultMethod  = http.MethodPost
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// Config defines the webhook node configuration.
type Config struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
	Timeout int               `json:"timeout"`
}

// Handler calls the configured URL and records the response in its output.
type Handler struct {
	config Config
	client *http.Client
}

// NewHandler creates a webhook handler from the node config.
func NewHandler(config map[string]any) (*Handler, error) {
	cfg := Config{
		Method:  defaultMethod,
		Headers: make(map[string]string),
	}

	url, ok := config["url"].(string)
	if !ok || url == "" {
		return nil, errors.New("missing required field 'url'")
	}

	cfg.URL = url

	if method, ok := config["method"].(string); ok && method != "" {
		cfg.Method = strings.ToUpper(method)
	}

	if headers, ok := config["headers"].(map[string]any); ok {
		for k, v := range headers {
			if strVal, ok := v.(string); ok {
				cfg.Headers[k] = strVal
			}
		}
	}

	if body, ok := config["body"].(string); ok {
		cfg.Body = body
	}

	timeout := defaultTimeout
	if seconds, ok := config["timeout"].(float64); ok && seconds > 0 {
		timeout = time.Duration(seconds) * time.Second
	}

	return &Handler{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Handle renders the URL and body against the context, performs the request
// and returns the status code and decoded response.
func (h *Handler) Handle(ctx context.Context, input map[string]any) (map[string]any, error) {
	url, err := template.Render(h.config.URL, input)
	if err != nil {
		return nil, fmt.Errorf("failed to render URL template: %w", err)
	}

	body, err := template.Render(h.config.Body, input)
	if err != nil {
		return nil, fmt.Errorf("failed to render body template: %w", err)
	}

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, h.config.Method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range h.config.Headers {
		req.Header.Set(key, value)
	}

	if body != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook call failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	output := map[string]any{
		"webhook_called": true,
		"url":            url,
		"status_code":    resp.StatusCode,
	}

	var decoded any
	if json.Unmarshal(respBody, &decoded) == nil {
		output["response"] = decoded
	} else {
		output["response"] = string(respBody)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return output, fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}

	return output, nil
}
