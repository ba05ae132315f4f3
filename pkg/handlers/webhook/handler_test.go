package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlerRequiresURL(t *testing.T) {
	_, err := NewHandler(map[string]any{})
	assert.Error(t, err)
}

func TestHandleSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"received": true}`))
	}))
	defer server.Close()

	handler, err := NewHandler(map[string]any{
		"url":  server.URL,
		"body": `{"order": "{{.order_id}}"}`,
	})
	require.NoError(t, err)

	output, err := handler.Handle(context.Background(), map[string]any{"order_id": "o-9"})
	require.NoError(t, err)

	assert.Equal(t, true, output["webhook_called"])
	assert.Equal(t, http.StatusOK, output["status_code"])
	assert.Equal(t, map[string]any{"received": true}, output["response"])
}

func TestHandleServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	handler, err := NewHandler(map[string]any{"url": server.URL, "method": "GET"})
	require.NoError(t, err)

	output, err := handler.Handle(context.Background(), nil)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, output["status_code"])
}

func TestHandleTemplatedURL(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	handler, err := NewHandler(map[string]any{
		"url":    server.URL + "/orders/{{.order_id}}",
		"method": "GET",
	})
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), map[string]any{"order_id": "o-42"})
	require.NoError(t, err)
	assert.Equal(t, "/orders/o-42", gotPath)
}
