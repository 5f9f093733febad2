package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achikmagic/greq/internal/greq/parser"
)

func TestClient_Execute_SimpleGET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hello", r.URL.Path)
		w.Header().Set("X-Custom", "yes")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	test, err := parser.ParseString("/tmp/t.greq",
		"is-http: true\ntimeout: 2000\n====\nGET /hello\nhost: "+srv.Listener.Addr().String()+"\n====\n")
	require.NoError(t, err)

	client := NewClient()
	resp, err := client.Execute(context.Background(), test)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "yes", resp.HeaderValue("X-Custom"))
	assert.Equal(t, `{"ok":true}`, resp.BodyString())
}

func TestClient_Execute_SingleAttemptWhenFirstSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	test, err := parser.ParseString("/tmp/t.greq",
		"is-http: true\ntimeout: 2000\n====\nGET /x\nhost: "+srv.Listener.Addr().String()+"\n====\n")
	require.NoError(t, err)

	client := NewClient()
	resp, err := client.Execute(context.Background(), test)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, attempts)
}

func TestClient_Execute_MissingHost(t *testing.T) {
	test, err := parser.ParseString("/tmp/t.greq", "====\nGET /x\n====\n")
	require.NoError(t, err)

	client := NewClient()
	_, err = client.Execute(context.Background(), test)
	require.Error(t, err)
}
