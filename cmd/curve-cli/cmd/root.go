// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"path"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/curvevm/amm"
	"github.com/ava-labs/curvevm/config"
	"github.com/ava-labs/curvevm/consts"
	"github.com/ava-labs/curvevm/contract"
	"github.com/ava-labs/curvevm/pebble"
	"github.com/ava-labs/curvevm/state"
	"github.com/ava-labs/curvevm/trace"
	"github.com/ava-labs/curvevm/utils"

	avatrace "github.com/ava-labs/avalanchego/trace"
)

const (
	defaultDataDir = ".curve-cli"
	defaultCurve   = "default"
)

// cli holds everything a command needs once the root command has set up.
type cli struct {
	configPath string
	dataDir    string
	curveName  string
	logLevel   string

	cfg        *config.Config
	logFactory *logFactory
	log        logging.Logger
	tracer     avatrace.Tracer
	db         *pebble.Database
	registry   *prometheus.Registry
	gatherer   prometheus.Gatherer
	curve      *contract.Curve
}

func NewRootCmd() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:        consts.Name + "-cli",
		Short:      "Bonding curve CLI",
		SuggestFor: []string{"curve-cli", "curvecli"},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a json or yaml config file")
	cmd.PersistentFlags().StringVar(&c.dataDir, "data-dir", defaultDataDir, "directory holding the database and logs")
	cmd.PersistentFlags().StringVar(&c.curveName, "curve", defaultCurve, "name of the curve to operate on")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "overrides the configured log level")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return c.setup(cmd.Context())
	}
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		return c.close()
	}

	cmd.AddCommand(
		newInitCmd(c),
		newQuoteCmd(c),
		newBuyCmd(c),
		newSellCmd(c),
		newGraduateCmd(c),
		newStateCmd(c),
		newPoolCmd(c),
		newSwapCmd(c),
		newServeCmd(c),
	)
	return cmd
}

func (c *cli) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if len(c.logLevel) > 0 {
		cfg.LogLevel = c.logLevel
	}
	level, err := logging.ToLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	c.cfg = cfg

	logDir := cfg.LogDir
	if len(logDir) == 0 {
		logDir = path.Join(c.dataDir, "logs")
	}
	logConfig := logging.Config{
		LogLevel:     level,
		DisplayLevel: level,
		LogFormat:    logging.JSON,
	}
	logConfig.Directory = logDir
	logConfig.MaxSize = 8
	logConfig.MaxFiles = 4
	logConfig.MaxAge = 7
	c.logFactory = newLogFactory(logConfig)
	c.log, err = c.logFactory.Make(consts.Name)
	if err != nil {
		return err
	}

	c.tracer, err = trace.New(cfg.GetTraceConfig())
	if err != nil {
		return err
	}

	dbDir := cfg.DatabaseDir
	if len(dbDir) == 0 {
		dbDir, err = utils.InitSubDirectory(c.dataDir, "db")
		if err != nil {
			return err
		}
	}
	var dbRegistry *prometheus.Registry
	c.db, dbRegistry, err = pebble.New(dbDir, cfg.Pebble)
	if err != nil {
		return err
	}

	c.registry = prometheus.NewRegistry()
	c.gatherer = prometheus.Gatherers{c.registry, dbRegistry}
	metrics, err := contract.NewMetrics(c.registry)
	if err != nil {
		return err
	}
	fee := cfg.AMMFee
	curveID := utils.ToID([]byte(c.curveName))
	c.curve, err = contract.New(ctx, c.log, c.tracer, metrics, c.db, curveID, contract.Options{
		Integrator:     cfg.Integrator,
		Criteria:       cfg.Graduation,
		PriceCacheSize: cfg.PriceCacheSize,
		Factories:      cfg.GetFactories(),
		NewAMM: func(mu state.Mutable) (contract.Exchange, error) {
			return amm.New(mu, fee)
		},
	})
	if err != nil {
		return err
	}
	c.log.Debug("cli initialized",
		zap.String("curve", c.curveName),
		zap.Stringer("curveID", curveID),
		zap.String("database", dbDir),
	)
	return nil
}

func (c *cli) close() error {
	errs := wrappers.Errs{}
	if c.db != nil {
		errs.Add(c.db.Close())
	}
	if c.tracer != nil {
		errs.Add(c.tracer.Close())
	}
	if c.logFactory != nil {
		c.logFactory.Close()
	}
	return errs.Err
}
