package jsonrpc2

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// Processor turns one inbound body into a Reply. A body holding an object
// is answered with a single response (or nothing for a notification); a
// body holding an array is answered with an array of responses.
type Processor struct {
	dispatcher     *Dispatcher
	maxConcurrency int
}

type ProcessorOption func(*Processor)

// WithMaxConcurrency bounds how many items of one batch run at once. Zero
// or less means no bound.
func WithMaxConcurrency(n int) ProcessorOption {
	return func(p *Processor) {
		p.maxConcurrency = n
	}
}

// NewProcessor seals registry and builds a processor dispatching to it.
func NewProcessor(registry *Registry, opts ...ProcessorOption) *Processor {
	p := &Processor{dispatcher: NewDispatcher(registry)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process handles a complete request body.
func (p *Processor) Process(ctx context.Context, body []byte) Reply {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		logger.Info("invalid request received", slog.String("issue", msgParseError))
		return parseErrorReply()
	}

	if body[0] != '[' {
		resp, ok := p.handle(ctx, body)
		if !ok {
			return Reply{}
		}
		return singleReply(resp)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return parseErrorReply()
	}
	if len(items) == 0 {
		logger.Info("invalid request received", slog.String("issue", "empty batch"))
		return singleReply(errorResponse(nil, InvalidRequest("empty batch")))
	}

	return batchReply(p.handleBatch(ctx, items))
}

// Run serves newline-delimited bodies from in, writing each reply to out as
// one line. It makes a Processor usable as a Server runner.
func (p *Processor) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	return NewHost(in, out, p).Run(ctx)
}

// handleBatch runs every item on its own goroutine. Each goroutine writes
// only its own slot, so items cannot disturb one another; responses keep
// input order with notifications left out.
func (p *Processor) handleBatch(ctx context.Context, items []json.RawMessage) []Response {
	slots := make([]*Response, len(items))

	var sem chan struct{}
	if p.maxConcurrency > 0 {
		sem = make(chan struct{}, p.maxConcurrency)
	}

	var wg sync.WaitGroup
	for i, item := range items {
		if sem != nil {
			sem <- struct{}{}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sem != nil {
				defer func() { <-sem }()
			}
			if resp, ok := p.handle(ctx, item); ok {
				slots[i] = &resp
			}
		}()
	}
	wg.Wait()

	responses := make([]Response, 0, len(items))
	for _, resp := range slots {
		if resp != nil {
			responses = append(responses, *resp)
		}
	}
	return responses
}

// handle validates and dispatches one item. The boolean is false when
// nothing must be sent back, i.e. for valid notifications.
func (p *Processor) handle(ctx context.Context, raw json.RawMessage) (Response, bool) {
	env, rpcErr := validate(raw)
	if rpcErr != nil {
		logger.Info("invalid request received", slog.String("issue", msgInvalidRequest), slog.Any("detail", rpcErr.Data))
		return errorResponse(env.ID, rpcErr), true
	}

	logger.Debug("dispatching request", slog.String("method", env.Method), slog.Bool("notification", env.IsNotification()))

	result := p.dispatcher.Dispatch(ctx, env)
	if env.IsNotification() {
		return Response{}, false
	}
	return result.response(env.ID), true
}

func parseErrorReply() Reply {
	return singleReply(errorResponse(nil, ParseError(nil)))
}
