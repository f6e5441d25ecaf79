package jsonrpc2

import (
	"errors"
	"fmt"
)

// Error codes defined by JSON-RPC 2.0. The values are part of the wire
// contract and never change.
const (
	CodeParseError     = -32700 // body is not valid JSON
	CodeInvalidRequest = -32600 // envelope is malformed
	CodeMethodNotFound = -32601 // method is not registered
	CodeInvalidParams  = -32602 // params cannot be bound to the method
	CodeInternalError  = -32603 // handler failed
)

const (
	msgParseError     = "Parse error"
	msgInvalidRequest = "Invalid Request"
	msgMethodNotFound = "Method not found"
	msgInvalidParams  = "Invalid params"
	msgInternalError  = "Internal error"
)

// Error is a JSON-RPC 2.0 error object.
//
// It implements error, so a handler may return it to answer with an
// application-specific code. Any other error returned by a handler is
// reported as CodeInternalError.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// NewError creates an error object with an arbitrary code.
func NewError(code int, message string, data any) *Error {
	return &Error{Code: code, Message: message, Data: data}
}

// ParseError reports a body that is not valid JSON.
func ParseError(data any) *Error {
	return &Error{Code: CodeParseError, Message: msgParseError, Data: data}
}

// InvalidRequest reports a malformed request object.
func InvalidRequest(data any) *Error {
	return &Error{Code: CodeInvalidRequest, Message: msgInvalidRequest, Data: data}
}

// MethodNotFound reports an unregistered method. The name appears both in
// the message and, verbatim, in the data payload.
func MethodNotFound(method string) *Error {
	return &Error{
		Code:    CodeMethodNotFound,
		Message: msgMethodNotFound + ": " + method,
		Data:    map[string]any{"method": method},
	}
}

// InvalidParams reports a binding failure; detail names the parameters
// involved.
func InvalidParams(detail string, data any) *Error {
	msg := msgInvalidParams
	if detail != "" {
		msg += ": " + detail
	}
	return &Error{Code: CodeInvalidParams, Message: msg, Data: data}
}

// InternalError reports a handler failure; data usually carries its message.
func InternalError(data any) *Error {
	return &Error{Code: CodeInternalError, Message: msgInternalError, Data: data}
}

// asError converts a handler error into an error object. *Error values keep
// their code; everything else becomes an internal error whose data carries
// the original message.
func asError(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) && rpcErr != nil {
		return rpcErr
	}
	return InternalError(err.Error())
}
