package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	New(slog.New(slog.NewTextHandler(io.Discard, nil))).Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestTaxCalculations(t *testing.T) {
	h := newTestRouter(t)

	rec, out := do(t, h, http.MethodPost, "/api/tax-calculations", `{"income": 50000, "deductions": 5000}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1.0, out["id"])
	assert.Equal(t, "simple", out["type"])
	assert.Equal(t, 9000.0, out["tax_amount"])

	rec, out = do(t, h, http.MethodPost, "/api/tax-calculations", `{"income": 50000, "type": "progressive"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.InDelta(t, 6800, out["total_tax"], 1e-9)
	assert.NotContains(t, out, "tax_amount")

	rec, out = do(t, h, http.MethodPost, "/api/tax-calculations", `{"deductions": 5000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bad Request", out["error"])

	rec, _ = do(t, h, http.MethodPost, "/api/tax-calculations", `{"income": 1, "type": "flat"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = do(t, h, http.MethodPut, "/api/tax-calculations/1", `{"income": 60000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 11000.0, out["tax_amount"])

	rec, out = do(t, h, http.MethodGet, "/api/tax-calculations?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, out["total"])
	assert.Equal(t, true, out["has_more"])
	assert.Len(t, out["calculations"], 1)

	rec, _ = do(t, h, http.MethodDelete, "/api/tax-calculations/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, out = do(t, h, http.MethodGet, "/api/tax-calculations/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", out["error"])
}

func TestUsers(t *testing.T) {
	h := newTestRouter(t)

	rec, out := do(t, h, http.MethodPost, "/api/users", `{"name": "John", "email": "john@example.com", "age": 30}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1.0, out["id"])

	rec, _ = do(t, h, http.MethodPost, "/api/users", `{"name": "Other", "email": "john@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/users", `{"name": "NoEmail"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/users", ``)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = do(t, h, http.MethodPut, "/api/users/1", `{"age": 31}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 31.0, out["age"])
	assert.Equal(t, "John", out["name"])

	rec, out = do(t, h, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["users"], 1)
	assert.Equal(t, 50.0, out["limit"])

	rec, _ = do(t, h, http.MethodGet, "/api/users/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/api/users/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/api/users/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsers_Paging(t *testing.T) {
	h := newTestRouter(t)

	rec, out := do(t, h, http.MethodGet, "/api/users?limit=500", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100.0, out["limit"])
	assert.Equal(t, []any{}, out["users"])

	rec, _ = do(t, h, http.MethodGet, "/api/users?offset=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculations(t *testing.T) {
	h := newTestRouter(t)

	rec, out := do(t, h, http.MethodPost, "/api/calculations", `{"operation": "multiply", "operands": [2, 3, 4], "note": "hello"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 24.0, out["result"])
	assert.Equal(t, map[string]any{"note": "hello"}, out["metadata"])

	rec, _ = do(t, h, http.MethodPost, "/api/calculations", `{"operation": "add", "operands": [1]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/calculations", `{"operation": "sqrt", "operands": [1, 2]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/calculations", `{"operation": "divide", "operands": [1, 0]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/calculations", `{"operation": "add", "operands": [1, 2]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, out = do(t, h, http.MethodGet, "/api/calculations?operation=add", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, out["total"])
	assert.Equal(t, map[string]any{"operation": "add"}, out["filter"])

	rec, out = do(t, h, http.MethodGet, "/api/calculations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, out["total"])
	assert.Nil(t, out["filter"])

	rec, _ = do(t, h, http.MethodGet, "/api/calculations/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/api/calculations/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
