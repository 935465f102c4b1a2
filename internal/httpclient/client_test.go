package httpclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-catalog/internal/httpclient"
)

// newTestServer creates a new test server with keep-alives disabled.
// This prevents flaky tests when running in parallel, as closing a server
// with keep-alives enabled can affect other tests sharing the HTTP transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestDefaultClient_Get(t *testing.T) {
	t.Parallel()

	var receivedUserAgent, receivedAccept string
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUserAgent = r.Header.Get("User-Agent")
		receivedAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	data, err := httpclient.NewDefaultClient(5*time.Second).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
	assert.Equal(t, httpclient.UserAgent, receivedUserAgent)
	assert.Equal(t, "application/json", receivedAccept)
}

func TestDefaultClient_PostFile(t *testing.T) {
	t.Parallel()

	var (
		receivedField   string
		receivedName    string
		receivedContent string
	)
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		reader, err := r.MultipartReader()
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		part, err := reader.NextPart()
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		receivedField = part.FormName()
		receivedName = part.FileName()
		content, _ := io.ReadAll(part)
		receivedContent = string(content)
		_, _ = w.Write([]byte("imported"))
	}))
	defer server.Close()

	body, err := httpclient.NewDefaultClient(0).PostFile(
		context.Background(), server.URL+"/upload", "file", "item.catalog.zip", strings.NewReader("zip bytes"))
	require.NoError(t, err)
	assert.Equal(t, "imported", string(body))
	assert.Equal(t, "file", receivedField)
	assert.Equal(t, "item.catalog.zip", receivedName)
	assert.Equal(t, "zip bytes", receivedContent)
}

func TestDefaultClient_HTTPErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		body       string
		wantBody   string
	}{
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			body:       "invalid token\n",
			wantBody:   "invalid token",
		},
		{
			name:       "server error without body",
			statusCode: http.StatusInternalServerError,
		},
		{
			name:       "conflict with long body",
			statusCode: http.StatusConflict,
			body:       strings.Repeat("x", 2000),
			wantBody:   strings.Repeat("x", 512),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := httpclient.NewDefaultClient(5*time.Second).PostFile(
				context.Background(), server.URL, "file", "a.zip", strings.NewReader("a"))
			require.Error(t, err)

			var httpErr *httpclient.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.statusCode, httpErr.StatusCode)
			assert.Equal(t, http.MethodPost, httpErr.Method)
			assert.Equal(t, tt.wantBody, httpErr.Body)
			assert.Equal(t, tt.statusCode, httpclient.StatusCode(err))
		})
	}
}

func TestDefaultClient_NetworkErrors(t *testing.T) {
	t.Parallel()

	client := httpclient.NewDefaultClient(time.Second)

	_, err := client.Get(context.Background(), "://invalid-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create request")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.PostFile(ctx, "http://127.0.0.1:1/upload", "file", "a.zip", strings.NewReader("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute request")
	assert.Zero(t, httpclient.StatusCode(err))
}

func TestHTTPError_Error(t *testing.T) {
	t.Parallel()

	err := httpclient.NewHTTPError(http.StatusNotFound, http.MethodGet, "http://remote/api", nil)
	assert.Equal(t, "HTTP 404 for GET http://remote/api", err.Error())

	err = httpclient.NewHTTPError(http.StatusBadRequest, http.MethodPost, "http://remote/api", []byte("bad archive"))
	assert.Equal(t, "HTTP 400 for POST http://remote/api: bad archive", err.Error())
}
