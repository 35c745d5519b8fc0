package completion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

var (
	ErrInvalidJSON   = errors.New("invalid JSON response")
	ErrInvalidFormat = errors.New("invalid response format")
)

// StatusError reports a non-200 answer from the completion endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d - %s", e.Code, e.Body)
}

// NewHTTPClient returns the client handed to OpenAI-compatible chat models. It
// bounds dialing by connectTimeout and the whole exchange by timeout, and turns
// non-200 or malformed chat completion answers into StatusError,
// ErrInvalidJSON or ErrInvalidFormat.
func NewHTTPClient(connectTimeout, timeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connectTimeout}).DialContext

	return &http.Client{
		Timeout:   timeout,
		Transport: &checkedTransport{next: transport},
	}
}

type checkedTransport struct {
	next http.RoundTripper
}

type completionEnvelope struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (t *checkedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	payload, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	if strings.HasSuffix(req.URL.Path, "/chat/completions") {
		var envelope completionEnvelope
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return nil, ErrInvalidJSON
		}
		if len(envelope.Choices) == 0 || envelope.Choices[0].Message == nil || envelope.Choices[0].Message.Content == nil {
			return nil, ErrInvalidFormat
		}
	}

	resp.Body = io.NopCloser(bytes.NewReader(payload))
	resp.ContentLength = int64(len(payload))
	return resp, nil
}
