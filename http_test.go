package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTPServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := Config{}
	cfg.applyDefaults()
	ts := httptest.NewServer(NewHTTPServer(cfg.HTTP).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decodeResponse(t *testing.T, res *http.Response) Response {
	t.Helper()
	defer res.Body.Close()

	var resp Response
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	return resp
}

func TestHTTPListTools(t *testing.T) {
	ts := newTestHTTPServer(t)

	res, err := http.Get(ts.URL + "/v1/tools")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get(requestIDHeader))

	resp := decodeResponse(t, res)
	require.True(t, resp.Success)
	tools := resp.Result.(map[string]interface{})["tools"].([]interface{})
	assert.Len(t, tools, len(GetOperations()))
}

func TestHTTPRunTool(t *testing.T) {
	ts := newTestHTTPServer(t)

	tests := []struct {
		name   string
		tool   string
		body   string
		status int
		output string
	}{
		{"decode", "decimal-to-ascii", `{"input":"72 105"}`, http.StatusOK, "Hi"},
		{"params", "ordered-list", `{"input":"x\ny","params":{"marker_style":"roman-lower"}}`, http.StatusOK, "i. x\nii. y"},
		{"numeric param", "text-to-binary", `{"input":"A","params":{"width":7}}`, http.StatusOK, "1000001"},
		{"bool param", "json-to-text", `{"input":"{\"a\":1}","params":{"include_keys":true,"separator":null}}`, http.StatusOK, "a: 1"},
		{"malformed width", "text-to-binary", `{"input":"A","params":{"width":"abc"}}`, http.StatusUnprocessableEntity, ""},
		{"case insensitive name", "UPPERCASE", `{"input":"a"}`, http.StatusOK, "A"},
		{"invalid input", "text-to-binary", `{"input":"é"}`, http.StatusUnprocessableEntity, ""},
		{"unknown tool", "rot13", `{"input":"a"}`, http.StatusNotFound, ""},
		{"bad body", "uppercase", `{"input":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := http.Post(ts.URL+"/v1/tools/"+tt.tool, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.status, res.StatusCode)

			resp := decodeResponse(t, res)
			if tt.status != http.StatusOK {
				assert.False(t, resp.Success)
				assert.NotEmpty(t, resp.Error)
				return
			}
			require.True(t, resp.Success, resp.Error)
			assert.Equal(t, tt.output, resp.Result.(map[string]interface{})["output"])
		})
	}
}

func TestHTTPBodyTooLarge(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()
	cfg.HTTP.MaxBodyBytes = 16
	ts := httptest.NewServer(NewHTTPServer(cfg.HTTP).Handler())
	defer ts.Close()

	res, err := http.Post(ts.URL+"/v1/tools/uppercase", "application/json",
		strings.NewReader(`{"input":"`+strings.Repeat("a", 64)+`"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
	res.Body.Close()
}

func TestHTTPExtract(t *testing.T) {
	ts := newTestHTTPServer(t)

	res, err := http.Post(ts.URL+"/v1/extract", "text/html",
		strings.NewReader(`<html><body><h1>Title</h1><p>Body <b>text</b></p><script>x()</script></body></html>`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	resp := decodeResponse(t, res)
	text := resp.Result.(map[string]interface{})["text"].(string)
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Body text")
	assert.NotContains(t, text, "x()")

	res, err = http.Post(ts.URL+"/v1/extract?filename=report.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)
	res.Body.Close()
}

func TestHTTPServeShutdown(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()
	server := NewHTTPServer(cfg.HTTP)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	res, err := http.Get("http://" + ln.Addr().String() + "/v1/tools")
	require.NoError(t, err)
	res.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
