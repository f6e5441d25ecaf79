package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"

	"github.com/umk/paradigms/internal/config"
	"github.com/umk/paradigms/internal/logs"
)

// ShutdownTimeout bounds how long in-flight requests may take once a
// shutdown starts.
const ShutdownTimeout = 10 * time.Second

// Server is one named HTTP listener.
type Server struct {
	Name    string
	Address string
	Handler http.Handler
}

// Run serves every server until ctx is done or one of them fails, then
// shuts all of them down gracefully.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, servers ...Server) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, len(servers))
	running := make([]*http.Server, 0, len(servers))

	for _, s := range servers {
		lr, err := net.Listen("tcp", s.Address)
		if err != nil {
			shutdown(logger, running)
			return fmt.Errorf("failed to listen for %s on %s: %w", s.Name, s.Address, err)
		}
		if n := cfg.HTTPServer.MaxConnections; n > 0 {
			lr = netutil.LimitListener(lr, n)
		}

		srv := &http.Server{
			Handler:      s.Handler,
			ReadTimeout:  cfg.HTTPServer.ReadTimeout,
			WriteTimeout: cfg.HTTPServer.WriteTimeout,
			IdleTimeout:  cfg.HTTPServer.IdleTimeout,
			ErrorLog: log.New(&logs.SlogWriter{
				Logger: logger,
				Level:  slog.LevelError,
			}, "", 0),
		}
		running = append(running, srv)

		logger.Info("serving", slog.String("server", s.Name), slog.String("address", lr.Addr().String()))

		go func(name string) {
			if err := srv.Serve(lr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- fmt.Errorf("%s server: %w", name, err)
				cancel()
			}
		}(s.Name)
	}

	<-ctx.Done()
	shutdown(logger, running)

	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}

func shutdown(logger *slog.Logger, servers []*http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("failed to stop the server gracefully", slog.String("err", err.Error()))
		}
	}
	logger.Info("servers stopped")
}
