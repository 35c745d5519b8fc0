package completion

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestHTTPClientPassesValidCompletion(t *testing.T) {
	base := serve(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"Please rest."}}]}`)

	resp, err := NewHTTPClient(time.Second, 5*time.Second).Post(base+"/chat/completions", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Please rest.")
}

func TestHTTPClientRejectsBadAnswers(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		want   string
	}{
		"non-200":         {http.StatusTooManyRequests, ` {"error":"slow down"} `, `HTTP 429 - {"error":"slow down"}`},
		"bad json":        {http.StatusOK, `not json`, "invalid JSON response"},
		"no choices":      {http.StatusOK, `{"choices":[]}`, "invalid response format"},
		"missing content": {http.StatusOK, `{"choices":[{"message":{}}]}`, "invalid response format"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base := serve(t, tc.status, tc.body)

			_, err := NewHTTPClient(0, 0).Post(base+"/chat/completions", "application/json", strings.NewReader(`{}`))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestHTTPClientStatusErrorUnwraps(t *testing.T) {
	base := serve(t, http.StatusServiceUnavailable, "down")

	_, err := NewHTTPClient(0, 0).Get(base + "/models")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr), "got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Equal(t, "down", statusErr.Body)
}

func TestHTTPClientOnlyChecksCompletionBodies(t *testing.T) {
	base := serve(t, http.StatusOK, `plain text`)

	resp, err := NewHTTPClient(0, 0).Get(base + "/models")
	require.NoError(t, err)
	resp.Body.Close()
}
