package jsonrpc2

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"
)

var separator = []byte{'\n'}

// errMessageTooLarge is returned by messageReader.read once the whole
// oversized line has been consumed, so the next read starts on a fresh line.
var errMessageTooLarge = errors.New("message exceeds size limit")

// messageWriter serializes whole lines onto out, so replies produced by
// concurrent requests never interleave.
type messageWriter struct {
	out io.Writer
	mu  sync.Mutex
}

func newMessageWriter(out io.Writer) *messageWriter {
	return &messageWriter{
		out: out,
	}
}

// write writes a message and its separator in one vectored write where the
// underlying writer supports it.
func (w *messageWriter) write(message []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	buffers := net.Buffers{message, separator}
	_, err := buffers.WriteTo(w.out)
	return err
}

type messageReader struct {
	reader *bufio.Reader
	limit  int
}

func newMessageReader(in io.Reader, limit int) *messageReader {
	return &messageReader{
		reader: bufio.NewReader(in),
		limit:  limit,
	}
}

// read reads a complete line into input, joining the fragments bufio hands
// back for lines longer than its buffer. With a limit set, a longer line is
// drained and reported as errMessageTooLarge; input then holds its first
// limit bytes.
func (r *messageReader) read(input *[]byte) error {
	*input = (*input)[:0]
	overflow := false

	for proceed := true; proceed; {
		line, isPrefix, err := r.reader.ReadLine()
		if err != nil {
			if err == io.EOF && overflow {
				return errMessageTooLarge
			}
			return err
		}

		if r.limit > 0 && len(*input)+len(line) > r.limit {
			line = line[:max(r.limit-len(*input), 0)]
			overflow = true
		}
		*input = append(*input, line...)
		proceed = isPrefix
	}

	if overflow {
		return errMessageTooLarge
	}
	return nil
}
