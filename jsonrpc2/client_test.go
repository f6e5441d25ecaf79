package jsonrpc2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	A int `json:"a"`
	B int `json:"b"`
}

type testResponse struct {
	Output string `json:"output" validate:"required"`
}

func newTestClient(t *testing.T) *Client {
	t.Helper()

	p, _ := newTestProcessor(t)
	srv := httptest.NewServer(NewHTTPHandler(p))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, WithHTTPClient(srv.Client()))
}

func TestClientCall_Success(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var sum int
	require.NoError(t, client.Call(ctx, "add", testRequest{A: 2, B: 3}, &sum))
	assert.Equal(t, 5, sum)

	require.NoError(t, client.Call(ctx, "add", []int{4, 5}, &sum))
	assert.Equal(t, 9, sum)
}

func TestClientCall_ErrorResponse(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := client.Call(ctx, "foo", nil, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "RPC error -32601: Method not found: foo")

	var rpcErr *Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, CodeMethodNotFound, rpcErr.Code)
}

func TestClientCall_ValidatesResponse(t *testing.T) {
	client := newTestClient(t)

	var out testResponse
	err := client.Call(context.Background(), "ping", nil, &out)
	require.Error(t, err, "string result does not decode into a struct")
}

func TestClientNotify(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.Notify(context.Background(), "notify", nil))
}

func TestClientCall_MismatchedID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","result":1,"id":"other"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	var out int
	err := client.Call(context.Background(), "ping", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestClientCall_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Call(context.Background(), "ping", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientBatch(t *testing.T) {
	client := newTestClient(t)

	var sum int
	var pong string
	calls := []*BatchCall{
		{Method: "add", Params: []int{1, 2}, Result: &sum},
		{Method: "notify", Notification: true},
		{Method: "ping", Result: &pong},
		{Method: "fail"},
	}

	require.NoError(t, client.Batch(context.Background(), calls))

	require.NoError(t, calls[0].Err)
	assert.Equal(t, 3, sum)
	assert.NoError(t, calls[1].Err)
	require.NoError(t, calls[2].Err)
	assert.Equal(t, "pong", pong)

	var rpcErr *Error
	require.ErrorAs(t, calls[3].Err, &rpcErr)
	assert.Equal(t, CodeInternalError, rpcErr.Code)
}

func TestClientBatch_OnlyNotifications(t *testing.T) {
	client := newTestClient(t)

	calls := []*BatchCall{{Method: "notify", Notification: true}}
	require.NoError(t, client.Batch(context.Background(), calls))
	assert.NoError(t, calls[0].Err)

	assert.Error(t, client.Batch(context.Background(), nil))
}
