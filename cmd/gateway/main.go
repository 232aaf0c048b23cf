package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/wepark-client/backendfake"
	"github.com/jrsteele09/wepark-client/internal/config"
	"github.com/jrsteele09/wepark-client/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	for {
		if err := run(); err != nil {
			log.Err(err).Msg("Error running gateway")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Gateway stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	var opts []server.ServerOption
	if c.GetBackendURL() == "" && c.GetEnv() == "DEV" {
		fake, err := startFakeBackend(c)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(fake); err != nil {
				log.Err(err).Msg("fake backend shutdown")
			}
		}()
		opts = append(opts, server.WithBackendURL("http://"+fake.Addr))
	}

	handler, err := server.New(c, opts...)
	if err != nil {
		return err
	}
	gateway := &http.Server{Addr: c.GetPort(), Handler: handler}
	go func() {
		if err := listenAndServe(gateway); err != nil {
			log.Err(err).Msg("gateway stopped listening")
		}
	}()
	waitForStopSignal()
	return shutdown(gateway)
}

// startFakeBackend serves the in-memory backend on a loopback port so the
// gateway runs without a real backend in development.
func startFakeBackend(c config.Config) (*http.Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("net.Listen: %w", err)
	}
	srv := &http.Server{Addr: ln.Addr().String(), Handler: backendfake.NewFromConfig(c)}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Err(err).Msg("fake backend stopped")
		}
	}()
	log.Warn().Str("addr", srv.Addr).Str("admin", c.GetFakeAdminUser()).Msg("BACKEND_URL not set, serving the in-memory backend")
	return srv, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Gateway listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
