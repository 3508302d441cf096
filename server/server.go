// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL         = "/ext"
	DefaultShutdownTimeout = 10 * time.Second
)

var _ Server = (*server)(nil)

type PathAdder interface {
	// AddRoute registers [handler] at [baseURL]/[base][endpoint].
	AddRoute(handler http.Handler, base, endpoint string) error
}

// Server serves the curve API over HTTP.
type Server interface {
	PathAdder
	// Addr is the address the server listens on.
	Addr() net.Addr
	// Dispatch serves until Shutdown is called.
	Dispatch() error
	Shutdown() error
}

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"       yaml:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"      yaml:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"       yaml:"idleTimeout"`
}

type Config struct {
	BaseURL         string
	HTTP            HTTPConfig
	AllowedOrigins  []string
	AllowedHosts    []string
	ShutdownTimeout time.Duration
}

type server struct {
	baseURL string
	log     logging.Logger

	shutdownTimeout time.Duration

	router *router
	srv    *http.Server

	listener net.Listener
}

// New returns a Server bound to [listener]. Requests pass through the host
// filter, CORS, gzip and then every wrapper in order.
func New(
	log logging.Logger,
	listener net.Listener,
	cfg Config,
	wrappers ...Wrapper,
) Server {
	router := newRouter()
	allowedHostsHandler := filterInvalidHosts(router, cfg.AllowedHosts)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
	}).Handler(allowedHostsHandler)
	var handler http.Handler = gziphandler.GzipHandler(corsHandler)
	for _, wrapper := range wrappers {
		handler = wrapper.WrapHandler(handler)
	}

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	log.Info("API created",
		zap.Stringer("addr", listener.Addr()),
		zap.Strings("allowedOrigins", cfg.AllowedOrigins),
		zap.Strings("allowedHosts", cfg.AllowedHosts),
	)
	return &server{
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		log:             log,
		shutdownTimeout: shutdownTimeout,
		router:          router,
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
		},
		listener: listener,
	}
}

func (s *server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *server) Dispatch() error {
	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *server) AddRoute(handler http.Handler, base, endpoint string) error {
	url := fmt.Sprintf("%s/%s", s.baseURL, base)
	s.log.Info("adding route",
		zap.String("url", url),
		zap.String("endpoint", endpoint),
	)
	return s.router.AddRouter(url, endpoint, handler)
}

func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}
