// Package api talks to the backend's plain HTTP endpoints.
package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/docchat/internal/workspace"
)

const (
	chatPath     = "/api/chat"
	documentPath = "/api/document"
	loginPath    = "/login"

	maxBodySize = 10 << 20
)

// ErrUnexpectedStatus is returned for any non-2xx response
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// chatLine matches `[timestamp] author: text`
var chatLine = regexp.MustCompile(`^\[(.*?)\] (.*?): (.*)$`)

// LoginRequest is the POST /login body
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse is whatever JSON object the backend answers with
type LoginResponse map[string]any

// Client calls the backend over HTTP
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates an API client for baseURL (e.g. http://localhost:4000)
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// FetchChatRaw returns the newline-delimited chat history as served
func (c *Client) FetchChatRaw(ctx context.Context) (string, error) {
	body, err := c.get(ctx, chatPath)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchChat fetches and parses the chat history
func (c *Client) FetchChat(ctx context.Context) ([]workspace.ChatMessage, error) {
	raw, err := c.FetchChatRaw(ctx)
	if err != nil {
		return nil, err
	}
	return ParseChat(raw), nil
}

// FetchDocument returns the raw document body
func (c *Client) FetchDocument(ctx context.Context) (string, error) {
	body, err := c.get(ctx, documentPath)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Login posts the credentials and decodes the JSON answer
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Error().Err(err).Msg("[api] login request failed")
		return nil, fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Str("username", req.Username).Msg("[api] login rejected")
		return nil, fmt.Errorf("login: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out LoginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	c.log.Info().Str("username", req.Username).Msg("[api] login successful")
	return out, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("[api] request failed")
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("[api] unexpected status")
		return nil, fmt.Errorf("get %s: %w: %d", path, ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}

// ParseChat turns `[timestamp] author: text` lines into messages. Lines that
// do not match are skipped.
func ParseChat(raw string) []workspace.ChatMessage {
	messages := []workspace.ChatMessage{}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), maxBodySize)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		match := chatLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		messages = append(messages, workspace.ChatMessage{
			Timestamp: match[1],
			Author:    match[2],
			Text:      match[3],
		})
	}
	return messages
}
