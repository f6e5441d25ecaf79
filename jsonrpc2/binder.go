package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type paramsKind uint8

const (
	noParams paramsKind = iota
	positionalParams
	namedParams
)

// params is the params member resolved into one of its three shapes.
type params struct {
	kind       paramsKind
	positional []json.RawMessage
	named      map[string]json.RawMessage
}

// parseParams resolves the raw params member. A missing member and null
// both mean no parameters.
func parseParams(raw json.RawMessage) (params, *Error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullID) {
		return params{kind: noParams}, nil
	}

	switch raw[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return params{}, InvalidParams("malformed params array", nil)
		}
		return params{kind: positionalParams, positional: list}, nil
	case '{':
		var named map[string]json.RawMessage
		if err := json.Unmarshal(raw, &named); err != nil {
			return params{}, InvalidParams("malformed params object", nil)
		}
		return params{kind: namedParams, named: named}, nil
	}

	return params{}, InvalidParams("params must be an array or an object", nil)
}

// bind turns the raw params member into arguments for m.
//
// Positional params fill declared parameters in order; surplus elements are
// an error. Named params are matched by name and unknown names are ignored.
// Anything not supplied takes its default, and a required parameter without
// a value fails the binding.
func bind(m *Method, raw json.RawMessage) (Args, *Error) {
	p, rpcErr := parseParams(raw)
	if rpcErr != nil {
		return Args{}, rpcErr
	}

	values := make([]json.RawMessage, len(m.Params))

	switch p.kind {
	case positionalParams:
		if len(p.positional) > len(m.Params) {
			return Args{}, InvalidParams(
				fmt.Sprintf("%s takes at most %d params, got %d", m.Name, len(m.Params), len(p.positional)),
				map[string]any{"expected": len(m.Params), "got": len(p.positional)},
			)
		}
		copy(values, p.positional)
	case namedParams:
		for i, name := range m.names {
			if v, ok := p.named[name]; ok {
				values[i] = v
			}
		}
	}

	var missing []string
	for i, param := range m.Params {
		if values[i] != nil {
			continue
		}
		if !param.IsRequired() {
			values[i] = m.defaults[i]
			continue
		}
		missing = append(missing, param.Name)
	}
	if len(missing) > 0 {
		return Args{}, InvalidParams(
			"missing required params: "+strings.Join(missing, ", "),
			map[string]any{"missing": missing},
		)
	}

	return Args{names: m.names, values: values}, nil
}
