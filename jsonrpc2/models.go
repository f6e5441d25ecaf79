package jsonrpc2

import "encoding/json"

// Version is the only value accepted in the jsonrpc member of a request.
const Version = "2.0"

var nullID = json.RawMessage("null")

// Request represents a JSON-RPC 2.0 request object as sent by clients.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// Response represents a JSON-RPC 2.0 response object. Exactly one of Result
// and Error is set; ID echoes the request id byte for byte, or is null when
// the id could not be recovered.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

func errorResponse(id json.RawMessage, err *Error) Response {
	if id == nil {
		id = nullID
	}
	return Response{JSONRPC: Version, Error: err, ID: id}
}

func resultResponse(id json.RawMessage, result json.RawMessage) Response {
	return Response{JSONRPC: Version, Result: result, ID: id}
}

// Envelope is a request that passed envelope validation.
type Envelope struct {
	Method string
	Params json.RawMessage // raw params member, nil when absent
	ID     json.RawMessage // nil for notifications
}

// IsNotification reports whether the request carried no id member.
func (e Envelope) IsNotification() bool {
	return e.ID == nil
}

// Reply is everything a single inbound body produces: nothing (only
// notifications), one response object, or an array of responses.
type Reply struct {
	single  *Response
	batch   []Response
	isBatch bool
}

func singleReply(resp Response) Reply {
	return Reply{single: &resp}
}

func batchReply(responses []Response) Reply {
	return Reply{batch: responses, isBatch: true}
}

// Empty reports whether there is nothing to send back.
func (r Reply) Empty() bool {
	if r.isBatch {
		return len(r.batch) == 0
	}
	return r.single == nil
}

// IsBatch reports whether the reply is rendered as an array.
func (r Reply) IsBatch() bool {
	return r.isBatch
}

// Responses returns all responses in the reply.
func (r Reply) Responses() []Response {
	if r.isBatch {
		return r.batch
	}
	if r.single == nil {
		return nil
	}
	return []Response{*r.single}
}

// MarshalJSON renders a single response as an object and a batch as an
// array. An empty reply renders as null; transports send no body instead.
func (r Reply) MarshalJSON() ([]byte, error) {
	switch {
	case r.Empty():
		return nullID, nil
	case r.isBatch:
		return json.Marshal(r.batch)
	default:
		return json.Marshal(r.single)
	}
}
