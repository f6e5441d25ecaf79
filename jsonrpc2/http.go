package jsonrpc2

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultMaxBytes limits request bodies accepted by HTTPHandler.
const DefaultMaxBytes = 1 << 20

// HTTPHandler serves JSON-RPC over HTTP POST. Bodies may be JSON or CBOR;
// the reply uses the encoding of the request. A body producing no response
// (notifications only) is answered with 204 No Content.
type HTTPHandler struct {
	processor *Processor

	MaxBytes int64         // body size limit, DefaultMaxBytes when zero
	Timeout  time.Duration // per-body deadline for handlers, none when zero
}

func NewHTTPHandler(processor *Processor) *HTTPHandler {
	return &HTTPHandler{processor: processor}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	c, err := codecFor(r.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}

	limit := h.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	var reply Reply
	if payload, err := c.toJSON(body); err != nil {
		logger.Info("invalid request received", slog.String("issue", msgParseError), slog.String("err", err.Error()))
		reply = parseErrorReply()
	} else {
		reply = h.processor.Process(ctx, payload)
	}

	if reply.Empty() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	content, err := json.Marshal(reply)
	if err == nil {
		content, err = c.fromJSON(content)
	}
	if err != nil {
		logger.Error("failed to encode reply", slog.String("err", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", c.contentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		logger.Error("failed to write reply", slog.String("err", err.Error()))
	}
}
