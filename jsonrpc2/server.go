package jsonrpc2

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
)

// Server runs a Runner over standard streams or over every connection
// accepted on a listener, until Close is called.
type Server struct {
	shutdown chan struct{}
	once     sync.Once

	runner Runner
}

// Runner serves one stream. *Processor is a Runner.
type Runner interface {
	Run(ctx context.Context, in io.Reader, out io.Writer) error
}

func NewServer(runner Runner) *Server {
	return &Server{
		shutdown: make(chan struct{}),
		runner:   runner,
	}
}

// ServeFromIO serves in and out until in is exhausted or the server is
// closed. Closing the server closes in; the read error that follows is not
// reported.
func (s *Server) ServeFromIO(ctx context.Context, in io.ReadCloser, out io.Writer) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-s.shutdown:
			in.Close()
		case <-done:
		}
	}()

	logger.Info("serving standard streams")
	err := s.runner.Run(ctx, in, out)
	if err != nil && s.closed() {
		logger.Debug("input closed on shutdown", slog.String("err", err.Error()))
		return nil
	}
	return err
}

func (s *Server) ServeFromNetwork(ctx context.Context, network, address string) error {
	lr, err := net.Listen(network, address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lr)
}

// Serve accepts connections on lr until the server is closed, then waits for
// the open connections to finish.
func (s *Server) Serve(ctx context.Context, lr net.Listener) error {
	defer lr.Close()

	// Counts the number of active connections
	var wg sync.WaitGroup

	// Close listener upon shutdown
	go func() {
		<-s.shutdown
		lr.Close()
	}()

	for i := 0; ; i++ {
		conn, err := lr.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				wg.Wait()
				return nil
			}
			return err
		}

		wg.Add(1)

		go func(i int, conn net.Conn) {
			logger.Info("serving connection", slog.Int("conn", i), slog.String("remote", conn.RemoteAddr().String()))

			defer func() {
				conn.Close()
				wg.Done()
			}()

			done := make(chan struct{})
			defer close(done)

			go func() {
				select {
				case <-s.shutdown:
					// Close the connection when server is shutting down
					conn.Close()
				case <-done:
				}
			}()

			if err := s.runner.Run(ctx, conn, conn); err != nil && !errors.Is(err, net.ErrClosed) {
				logger.Error("error serving connection", slog.Int("conn", i), slog.String("err", err.Error()))
			}
		}(i, conn)
	}
}

func (s *Server) closed() bool {
	select {
	case <-s.shutdown:
		return true
	default:
		return false
	}
}

func (s *Server) Close() error {
	s.once.Do(func() {
		close(s.shutdown)
	})

	return nil
}
