package jsonrpc2

import (
	"bytes"
	"encoding/json"
)

// validate checks a single raw request in order: it must be an object, carry
// jsonrpc "2.0", a non-empty string method, and an id that is a string,
// number or null when present.
//
// On failure the returned envelope carries the id to answer with: the
// request id if it could be recovered and null otherwise. A request is only
// a notification once it has passed validation, so a malformed request
// without an id is still answered.
func validate(raw json.RawMessage) (Envelope, *Error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Envelope{ID: nullID}, InvalidRequest("request must be an object")
	}

	env := Envelope{ID: nullID}
	id, hasID := fields["id"]
	idValid := !hasID || validID(id)
	if hasID && idValid {
		env.ID = id
	}

	var version string
	if v, ok := fields["jsonrpc"]; !ok || json.Unmarshal(v, &version) != nil || version != Version {
		return env, InvalidRequest(`jsonrpc must be "2.0"`)
	}

	m, ok := fields["method"]
	if !ok || json.Unmarshal(m, &env.Method) != nil || env.Method == "" {
		return env, InvalidRequest("method must be a non-empty string")
	}

	if !idValid {
		return env, InvalidRequest("id must be a string, number or null")
	}

	if !hasID {
		env.ID = nil
	}
	env.Params = fields["params"]
	return env, nil
}

func validID(id json.RawMessage) bool {
	id = bytes.TrimSpace(id)
	if len(id) == 0 {
		return false
	}
	switch c := id[0]; {
	case c == '"', c == '-', c >= '0' && c <= '9':
		return true
	case bytes.Equal(id, nullID):
		return true
	}
	return false
}
