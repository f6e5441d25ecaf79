package jsonrpc2

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
)

// Client calls methods on a JSON-RPC server over HTTP.
type Client struct {
	url        string
	httpClient *http.Client

	currentID int64 // used to generate unique request IDs
}

type ClientOption func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{url: url, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call invokes method with params and decodes the result into resp. params
// may be nil, a slice for positional params or a struct or map for named
// params. An error object in the response is returned as *Error.
func (c *Client) Call(ctx context.Context, method string, params any, resp any) error {
	if err := validateIfStruct(params); err != nil {
		return err
	}

	bid := c.nextID()
	req, err := newRequest(method, params, bid)
	if err != nil {
		return err
	}

	body, err := c.post(ctx, req)
	if err != nil {
		return err
	}
	if body == nil {
		return errors.New("server sent no response")
	}

	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !bytes.Equal(r.ID, bid) {
		return fmt.Errorf("response id %s does not match request id %s", r.ID, bid)
	}
	return r.decode(resp)
}

// BatchCall is one element of a batch. Err is set by Batch when the
// server answered this call with an error object or its result could not
// be decoded into Result.
type BatchCall struct {
	Method       string
	Params       any
	Result       any
	Notification bool

	Err error
}

// Batch sends calls as a single batch request. The returned error covers
// the exchange as a whole; per-call failures are reported in each call's
// Err.
func (c *Client) Batch(ctx context.Context, calls []*BatchCall) error {
	if len(calls) == 0 {
		return errors.New("empty batch")
	}

	reqs := make([]Request, len(calls))
	pending := make(map[string]*BatchCall, len(calls))
	for i, call := range calls {
		if err := validateIfStruct(call.Params); err != nil {
			return err
		}
		var id json.RawMessage
		if !call.Notification {
			id = c.nextID()
			pending[string(id)] = call
		}
		req, err := newRequest(call.Method, call.Params, id)
		if err != nil {
			return err
		}
		reqs[i] = req
	}

	body, err := c.post(ctx, reqs)
	if err != nil {
		return err
	}
	if body == nil {
		if len(pending) > 0 {
			return errors.New("server sent no response")
		}
		return nil
	}

	var rs []Response
	if err := json.Unmarshal(body, &rs); err != nil {
		var single Response
		if json.Unmarshal(body, &single) == nil && single.Error != nil {
			return single.Error
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	for _, r := range rs {
		call, ok := pending[string(r.ID)]
		if !ok {
			return fmt.Errorf("unexpected response id %s", r.ID)
		}
		delete(pending, string(r.ID))
		call.Err = r.decode(call.Result)
	}
	for id, call := range pending {
		call.Err = fmt.Errorf("no response for request id %s", id)
	}

	return nil
}

func (c *Client) nextID() json.RawMessage {
	id := strconv.FormatInt(atomic.AddInt64(&c.currentID, 1), 36)
	return json.RawMessage(strconv.Quote(fmt.Sprintf("%06s", id)))
}

func (r Response) decode(v any) error {
	if r.Error != nil {
		return r.Error
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(r.Result, v); err != nil {
		return err
	}
	return validateIfStruct(v)
}

// Notify invokes method without waiting for a result.
func (c *Client) Notify(ctx context.Context, method string, params any) error {
	if err := validateIfStruct(params); err != nil {
		return err
	}

	req, err := newRequest(method, params, nil)
	if err != nil {
		return err
	}

	_, err = c.post(ctx, req)
	return err
}

func newRequest(method string, params any, id json.RawMessage) (Request, error) {
	req := Request{JSONRPC: Version, Method: method, ID: id}
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return Request{}, err
		}
		req.Params = b
	}
	return req, nil
}

// post sends req, a request or a slice of them, and returns the response
// body, or nil when the server answered with no content.
func (c *Client) post(ctx context.Context, req any) ([]byte, error) {
	content, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Content-Type", ContentTypeJSON)

	hresp, err := c.httpClient.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer hresp.Body.Close()

	if hresp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if hresp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %s", hresp.Status)
	}

	return io.ReadAll(hresp.Body)
}
