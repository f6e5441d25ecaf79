package jsonrpc2

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Host serves newline-delimited JSON-RPC over a reader/writer pair. Every
// line is one body: a request object or a batch array. Lines are processed
// concurrently; each reply is written as a single line once ready.
type Host struct {
	reader    *messageReader
	writer    *messageWriter
	processor *Processor
}

func NewHost(in io.Reader, out io.Writer, processor *Processor) *Host {
	return &Host{
		reader:    newMessageReader(in, currentConf.maxMessageSize),
		writer:    newMessageWriter(out),
		processor: processor,
	}
}

// Run reads until in is exhausted, then waits for outstanding requests.
// A line over the configured message size is answered with an invalid
// request error and reading goes on.
func (h *Host) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	defer wg.Wait()

	for {
		buf := bufs.Get(0)
		if err := h.reader.read(buf); err != nil {
			n := len(*buf)
			bufs.Put(buf)
			switch {
			case err == io.EOF:
				return nil
			case errors.Is(err, errMessageTooLarge):
				logger.Info("invalid request received", slog.String("issue", "message too large"), slog.Int("limit", h.reader.limit))
				if err := h.reject(); err != nil {
					return err
				}
				continue
			}
			logger.Error("failed to read request", slog.Int("bytes-read", n), slog.String("err", err.Error()))
			return err
		}

		if len(bytes.TrimSpace(*buf)) == 0 {
			bufs.Put(buf)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer bufs.Put(buf)

			if err := h.serve(ctx, *buf); err != nil {
				logger.Error("failed to write reply", slog.String("err", err.Error()))
			}
		}()
	}
}

func (h *Host) reject() error {
	reply := singleReply(errorResponse(nil, InvalidRequest(fmt.Sprintf("message exceeds %d bytes", h.reader.limit))))
	content, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	return h.writer.write(content)
}

func (h *Host) serve(ctx context.Context, body []byte) error {
	reply := h.processor.Process(ctx, body)
	if reply.Empty() {
		return nil
	}

	content, err := json.Marshal(reply)
	if err != nil {
		return err
	}

	return h.writer.write(content)
}
