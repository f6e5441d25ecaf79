package methods

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umk/paradigms/internal/services"
	"github.com/umk/paradigms/jsonrpc2"
)

func newProcessor(t *testing.T) *jsonrpc2.Processor {
	t.Helper()

	r, err := NewRegistry(services.NewUserStore())
	require.NoError(t, err)
	return jsonrpc2.NewProcessor(r)
}

// call sends one request and returns its response.
func call(t *testing.T, p *jsonrpc2.Processor, method string, params string) jsonrpc2.Response {
	t.Helper()

	body := `{"jsonrpc":"2.0","method":"` + method + `","id":1`
	if params != "" {
		body += `,"params":` + params
	}
	body += "}"

	reply := p.Process(context.Background(), []byte(body))
	responses := reply.Responses()
	require.Len(t, responses, 1)
	return responses[0]
}

func result(t *testing.T, resp jsonrpc2.Response) map[string]any {
	t.Helper()

	require.Nil(t, resp.Error, "unexpected error: %v", resp.Error)
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Result, &out))
	return out
}

func TestRegister_AllMethods(t *testing.T) {
	r, err := NewRegistry(services.NewUserStore())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"calculate_tax", "calculate_progressive_tax",
		"create_user", "get_user_by_id", "update_user", "delete_user", "list_users",
		"add", "subtract", "multiply", "divide", "power", "batch_calculate",
		"get_server_info", "ping",
	}, r.Methods())
}

func TestRegister_Twice(t *testing.T) {
	r, err := NewRegistry(services.NewUserStore())
	require.NoError(t, err)

	assert.ErrorIs(t, Register(r, services.NewUserStore()), jsonrpc2.ErrDuplicateMethod)
}

func TestCalculateTax(t *testing.T) {
	p := newProcessor(t)

	t.Run("Positional", func(t *testing.T) {
		out := result(t, call(t, p, "calculate_tax", `[50000, 5000]`))
		assert.Equal(t, 9000.0, out["tax_amount"])
		assert.Equal(t, 0.2, out["tax_rate"])
	})

	t.Run("Named with default", func(t *testing.T) {
		out := result(t, call(t, p, "calculate_tax", `{"income": 50000}`))
		assert.Equal(t, 0.0, out["deductions"])
		assert.Equal(t, 10000.0, out["tax_amount"])
	})

	t.Run("Missing income", func(t *testing.T) {
		resp := call(t, p, "calculate_tax", `{"foo": 1}`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, jsonrpc2.CodeInvalidParams, resp.Error.Code)
	})

	t.Run("Negative income", func(t *testing.T) {
		resp := call(t, p, "calculate_tax", `[-1]`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, jsonrpc2.CodeInternalError, resp.Error.Code)
	})

	t.Run("Not a number", func(t *testing.T) {
		resp := call(t, p, "calculate_tax", `["lots"]`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, jsonrpc2.CodeInternalError, resp.Error.Code)
	})

	t.Run("Null deductions", func(t *testing.T) {
		resp := call(t, p, "calculate_tax", `[50000, null]`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, jsonrpc2.CodeInternalError, resp.Error.Code)
		assert.Contains(t, resp.Error.Data, "deductions")
	})
}

func TestCalculateProgressiveTax(t *testing.T) {
	p := newProcessor(t)

	out := result(t, call(t, p, "calculate_progressive_tax", `[50000]`))
	assert.InDelta(t, 6800, out["total_tax"], 1e-9)
	assert.Len(t, out["tax_breakdown"], 3)
}

func TestUsers(t *testing.T) {
	p := newProcessor(t)

	created := result(t, call(t, p, "create_user", `{"name": "John", "email": "john@example.com", "age": 30}`))
	assert.Equal(t, 1.0, created["id"])
	assert.Equal(t, 30.0, created["age"])

	noAge := result(t, call(t, p, "create_user", `["Jane", "jane@example.com"]`))
	assert.Nil(t, noAge["age"])

	dup := call(t, p, "create_user", `["Other", "john@example.com"]`)
	require.NotNil(t, dup.Error)
	assert.Equal(t, jsonrpc2.CodeInternalError, dup.Error.Code)

	badEmail := call(t, p, "create_user", `["Other", "not-an-email"]`)
	require.NotNil(t, badEmail.Error)
	assert.Equal(t, jsonrpc2.CodeInternalError, badEmail.Error.Code)

	got := result(t, call(t, p, "get_user_by_id", `[1]`))
	assert.Equal(t, "John", got["name"])

	updated := result(t, call(t, p, "update_user", `{"user_id": 1, "name": "Johnny"}`))
	assert.Equal(t, "Johnny", updated["name"])
	assert.Equal(t, "john@example.com", updated["email"])
	assert.Equal(t, 30.0, updated["age"])

	list := call(t, p, "list_users", "")
	require.Nil(t, list.Error)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(list.Result, &users))
	assert.Len(t, users, 2)

	deleted := result(t, call(t, p, "delete_user", `{"user_id": 1}`))
	assert.Equal(t, "User 1 deleted successfully", deleted["message"])

	nullID := call(t, p, "get_user_by_id", `[null]`)
	require.NotNil(t, nullID.Error)
	assert.Equal(t, jsonrpc2.CodeInternalError, nullID.Error.Code)
	assert.Contains(t, nullID.Error.Data, "null")

	missing := call(t, p, "get_user_by_id", `[1]`)
	require.NotNil(t, missing.Error)
	assert.Contains(t, missing.Error.Data, "not found")
}

func TestCalculator(t *testing.T) {
	p := newProcessor(t)

	out := result(t, call(t, p, "add", `{"a": 2, "b": 3}`))
	assert.Equal(t, "addition", out["operation"])
	assert.Equal(t, 5.0, out["result"])

	out = result(t, call(t, p, "power", `{"base": 2, "exponent": 8}`))
	assert.Equal(t, 256.0, out["result"])

	resp := call(t, p, "divide", `[1, 0]`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc2.CodeInternalError, resp.Error.Code)

	resp = call(t, p, "add", `[1, 2, 3]`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc2.CodeInvalidParams, resp.Error.Code)

	for _, params := range []string{`["x", 2]`, `[null, 2]`, `{"a": 1, "b": true}`} {
		resp = call(t, p, "add", params)
		require.NotNil(t, resp.Error, "params %s", params)
		assert.Equal(t, jsonrpc2.CodeInternalError, resp.Error.Code, "params %s", params)
		assert.Nil(t, resp.Result)
	}
}

func TestBatchCalculate(t *testing.T) {
	p := newProcessor(t)

	resp := call(t, p, "batch_calculate", `[[{"operation":"add","a":1,"b":2},{"operation":"divide","a":1,"b":0}]]`)
	require.Nil(t, resp.Error)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(resp.Result, &out))
	require.Len(t, out, 2)
	assert.Equal(t, 3.0, out[0]["result"])
	assert.Contains(t, out[1]["error"], "division by zero")
}

func TestSystem(t *testing.T) {
	prev := now
	now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })

	p := newProcessor(t)

	pong := result(t, call(t, p, "ping", ""))
	assert.Equal(t, map[string]any{"message": "pong", "timestamp": "2024-05-01T00:00:00Z"}, pong)

	info := result(t, call(t, p, "get_server_info", ""))
	assert.Equal(t, ServerType, info["server_type"])
	assert.Len(t, info["supported_methods"], 15)
}
