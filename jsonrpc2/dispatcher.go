package jsonrpc2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Result is the outcome of dispatching one request: either a marshalled
// value or an error object, never both.
type Result struct {
	Value json.RawMessage
	Err   *Error
}

func success(v json.RawMessage) Result {
	return Result{Value: v}
}

func failure(err *Error) Result {
	return Result{Err: err}
}

func (r Result) OK() bool {
	return r.Err == nil
}

func (r Result) response(id json.RawMessage) Response {
	if r.Err != nil {
		return errorResponse(id, r.Err)
	}
	return resultResponse(id, r.Value)
}

// Dispatcher resolves a validated request against a registry, binds its
// params and invokes the handler.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher seals registry and returns a dispatcher over it.
func NewDispatcher(registry *Registry) *Dispatcher {
	registry.Seal()
	return &Dispatcher{registry: registry}
}

// Dispatch runs a request to completion. Every failure, including a panic
// in the handler or ctx ending before the handler returns, is reported in
// the result.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope) Result {
	m, ok := d.registry.Lookup(env.Method)
	if !ok {
		logger.Info("invalid request received", slog.String("issue", msgMethodNotFound), slog.String("requested-method", env.Method))
		return failure(MethodNotFound(env.Method))
	}

	args, rpcErr := bind(m, env.Params)
	if rpcErr != nil {
		logger.Info("invalid request received", slog.String("issue", rpcErr.Message), slog.String("requested-method", env.Method))
		return failure(rpcErr)
	}

	value, err := invoke(ctx, m, args)
	if err != nil {
		rpcErr := asError(err)
		logger.Error("method failed", slog.String("method", m.Name), slog.Int("code", rpcErr.Code), slog.String("err", err.Error()))
		return failure(rpcErr)
	}

	b, err := json.Marshal(value)
	if err != nil {
		logger.Error("failed to marshal result", slog.String("method", m.Name), slog.String("err", err.Error()))
		return failure(InternalError("result is not serializable"))
	}

	return success(b)
}

// invoke calls the handler and gives up waiting once ctx is done. The
// handler goroutine is left to finish on its own; its result is dropped.
func invoke(ctx context.Context, m *Method, args Args) (any, error) {
	if ctx.Done() == nil {
		return call(ctx, m, args)
	}

	type outcome struct {
		value any
		err   error
	}
	ch := make(chan outcome, 1)
	go func() {
		v, err := call(ctx, m, args)
		ch <- outcome{value: v, err: err}
	}()

	select {
	case o := <-ch:
		return o.value, o.err
	case <-ctx.Done():
		return nil, InternalError(interruption(ctx))
	}
}

func call(ctx context.Context, m *Method, args Args) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic caught in handler", slog.String("method", m.Name), slog.Any("panic", rec))
			result, err = nil, InternalError(fmt.Sprint(rec))
		}
	}()

	return m.Handler(ctx, args)
}

func interruption(ctx context.Context) string {
	cause := context.Cause(ctx)
	if errors.Is(cause, context.DeadlineExceeded) {
		return "handler timed out"
	}
	return "request cancelled: " + cause.Error()
}
