package xrpc

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeParams(t *testing.T) {
	s := makeParams(map[string]any{
		"actor": "alice.bsky.social",
		"limit": 50,
		"uris":  []string{"a", "b"},
	})
	assert.Equal(t, "actor=alice.bsky.social&limit=50&uris=a&uris=b", s)
}

func TestLexDoProcedure(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPost, r.Method)
		assert.Equal("/xrpc/com.example.echo", r.URL.Path)
		assert.Equal("Bearer access-token", r.Header.Get("Authorization"))
		assert.Equal("application/json", r.Header.Get("Content-Type"))
		assert.Equal("test-agent", r.Header.Get("User-Agent"))
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"echo":` + string(b) + `}`))
	}))
	defer srv.Close()

	ua := "test-agent"
	c := Client{
		Host:      srv.URL,
		Auth:      &AuthInfo{AccessJwt: "access-token"},
		UserAgent: &ua,
	}
	var out struct {
		Echo struct {
			Text string `json:"text"`
		} `json:"echo"`
	}
	err := c.LexDo(context.Background(), http.MethodPost, "application/json", "com.example.echo", nil, map[string]string{"text": "hi"}, &out)
	require.NoError(err)
	assert.Equal("hi", out.Echo.Text)
}

func TestLexDoRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.Equal(t, "\x89PNG", string(b))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := Client{Host: srv.URL}
	err := c.LexDo(context.Background(), http.MethodPost, "image/png", "com.example.upload", nil, strings.NewReader("\x89PNG"), nil)
	assert.NoError(t, err)
}

func TestLexDoError(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ratelimit-limit", "100")
		w.Header().Set("ratelimit-remaining", "0")
		w.Header().Set("ratelimit-reset", "1700000000")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"RateLimitExceeded","message":"slow down"}`))
	}))
	defer srv.Close()

	c := Client{Host: srv.URL}
	err := c.LexDo(context.Background(), http.MethodGet, "", "com.example.query", map[string]any{"q": "x"}, nil, nil)
	assert.Error(err)

	var xe *Error
	assert.True(errors.As(err, &xe))
	assert.True(xe.IsThrottled())
	assert.Equal(100, xe.Ratelimit.Limit)
	assert.Equal(0, xe.Ratelimit.Remaining)

	var body *XRPCError
	assert.True(errors.As(err, &body))
	assert.Equal("RateLimitExceeded", body.ErrStr)
}

func TestLexDoBadMethod(t *testing.T) {
	c := Client{Host: "http://localhost:1"}
	err := c.LexDo(context.Background(), http.MethodDelete, "", "com.example.query", nil, nil, nil)
	assert.Error(t, err)
}
