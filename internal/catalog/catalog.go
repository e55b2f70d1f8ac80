// Package catalog is the HTTP client for the remote trash-point catalog.
//
// The catalog speaks JSON over HTTP with a success-flag envelope:
//
//	POST {base}/trash-points  {title, photoBase64, latitude, longitude, collectionType}
//	GET  {base}/trash-points  → {success: true, data: [...]}
//
// Failures are split into two kinds the UI treats differently: a
// TransportError (unreachable server or non-2xx status) and a RejectedError
// (reachable server answered 2xx but success != true). Both are retryable by
// re-invoking the same call; the client itself never retries.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Submission is the creation payload for POST /trash-points.
type Submission struct {
	Title          string  `json:"title"`
	PhotoBase64    string  `json:"photoBase64"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	CollectionType string  `json:"collectionType"`
}

// Record is a previously accepted point as the catalog returns it.
// Records are read-only to this app and never linked back to the draft that
// produced them.
type Record struct {
	ID             string `json:"_id"`
	Title          string `json:"title"`
	PhotoURL       string `json:"photoURL,omitempty"`
	CollectionType string `json:"collectionType"`
}

// Creator and Lister are the two catalog capabilities the screens consume.
// They are split so tests (and the CLI) can fake one without the other.
type Creator interface {
	Create(ctx context.Context, sub Submission) error
}

type Lister interface {
	List(ctx context.Context) ([]Record, error)
}

// TransportError is a network-level failure: the server was unreachable
// (Status == 0) or answered with a non-2xx status.
type TransportError struct {
	Status int
	Body   string
	cause  error
}

func (e *TransportError) Error() string {
	if msg := strings.TrimSpace(e.Body); msg != "" {
		return msg
	}
	if e.Status > 0 {
		return fmt.Sprintf("erro HTTP: status %d", e.Status)
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return "falha de rede"
}

func (e *TransportError) Unwrap() error { return e.cause }

// RejectedError is an application-level rejection: the server answered 2xx
// but the envelope's success flag was false or absent.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	if strings.TrimSpace(e.Reason) != "" {
		return e.Reason
	}
	return "erro desconhecido ao salvar"
}

// envelope is the catalog's response wrapper. Error is kept raw because the
// server contract does not guarantee it is a string; a non-string error is
// reported as an opaque unexpected-shape reason instead of a decode failure.
type envelope struct {
	Success bool            `json:"success"`
	Error   json.RawMessage `json:"error,omitempty"`
	Data    []Record        `json:"data,omitempty"`
}

func (e envelope) errorText() string {
	if len(e.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Error, &s); err == nil {
		return s
	}
	return "resposta do servidor em formato inesperado"
}

const defaultTimeout = 15 * time.Second

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

func (c *Client) endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + "/trash-points"
}

// Create submits one report. A nil return means the catalog accepted it.
func (c *Client) Create(ctx context.Context, sub Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &TransportError{cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Status: resp.StatusCode, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Status: resp.StatusCode, Body: errorTextFromBody(raw, resp.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &RejectedError{Reason: "resposta do servidor em formato inesperado"}
	}
	if !env.Success {
		return &RejectedError{Reason: env.errorText()}
	}
	return nil
}

// List fetches the current set of records, in the catalog's order.
// An accepted response with no records yields an empty (non-nil) slice so
// callers can tell "empty catalog" apart from a failed fetch.
func (c *Client) List(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &TransportError{cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Status: resp.StatusCode, Body: errorTextFromBody(raw, resp.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &RejectedError{Reason: "resposta do servidor em formato inesperado"}
	}
	if !env.Success {
		return nil, &RejectedError{Reason: env.errorText()}
	}
	if env.Data == nil {
		return []Record{}, nil
	}
	return env.Data, nil
}

// errorTextFromBody extracts the most useful message from a non-2xx body:
// a JSON {"error": "..."} string, then the raw body, then nothing (the
// TransportError falls back to a status-coded message).
func errorTextFromBody(raw []byte, status int) string {
	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Error) > 0 {
		var s string
		if err := json.Unmarshal(env.Error, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return strings.TrimSpace(string(raw))
}
