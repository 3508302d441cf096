// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/curvevm/consts"
	"github.com/ava-labs/curvevm/rpc"
	"github.com/ava-labs/curvevm/server"
	"github.com/ava-labs/curvevm/utils"
)

var _ rpc.Backend = (*backend)(nil)

type backend struct {
	c *cli
}

func (b *backend) Logger() logging.Logger { return b.c.log }

func (b *backend) Tracer() trace.Tracer { return b.c.tracer }

func (b *backend) Curve() rpc.Curve { return b.c.curve }

func newServeCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve quotes and state over JSON-RPC",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if len(addr) == 0 {
				addr = c.cfg.RPCAddress
			}
			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			wrapper, err := server.NewMetricsWrapper(c.registry)
			if err != nil {
				return err
			}
			srv := server.New(c.log, listener, server.Config{
				BaseURL: server.DefaultBaseURL,
				HTTP: server.HTTPConfig{
					ReadHeaderTimeout: c.cfg.ReadHeaderTimeout,
				},
				AllowedOrigins:  c.cfg.AllowedOrigins,
				AllowedHosts:    c.cfg.AllowedHosts,
				ShutdownTimeout: c.cfg.ShutdownTimeout,
			}, wrapper)

			handler, err := rpc.NewJSONRPCHandler(rpc.Name, rpc.NewJSONRPCServer(&backend{c: c}))
			if err != nil {
				return err
			}
			if err := srv.AddRoute(handler, consts.Name, rpc.JSONRPCEndpoint); err != nil {
				return err
			}
			if err := srv.AddRoute(server.NewMetricsHandler(c.gatherer), consts.Name, "/metrics"); err != nil {
				return err
			}

			errs := make(chan error, 1)
			go func() {
				errs <- srv.Dispatch()
			}()
			utils.Outf(
				"{{green}}serving{{/}} http://%s%s/%s%s\n",
				srv.Addr(),
				server.DefaultBaseURL,
				consts.Name,
				rpc.JSONRPCEndpoint,
			)

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
			select {
			case sig := <-signals:
				c.log.Info("shutting down", zap.Stringer("signal", sig))
			case err := <-errs:
				return err
			}
			if err := srv.Shutdown(); err != nil {
				return err
			}
			return <-errs
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to the configured rpc address)")
	return cmd
}
