package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/cartoonlab/internal/gallery"
)

type serveCmd struct {
	*root
	fs   *flag.FlagSet
	addr string
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	s := &serveCmd{root: r.subcommand("serve"), fs: newFlagSet("serve")}
	s.fs.Usage = usageFunc(s)
	s.fs.StringVar(&s.addr, "addr", "", "listen address (defaults to the configured server address)")
	if err := parseFlags(s.fs, args, s); err != nil {
		return nil, err
	}
	if s.fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func (s *serveCmd) Run() error {
	store, err := s.openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	addr := s.addr
	if addr == "" {
		addr = s.config.Server.Addr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           gallery.NewRouter(store),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("starting gallery")
		fmt.Fprintf(s.stderr, "gallery listening on http://%s/api/cartoons\n", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	logrus.Debug("shutting down gallery")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
