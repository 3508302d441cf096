// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

type logWrapper struct {
	logger       logging.Logger
	displayLevel zap.AtomicLevel
	logLevel     zap.AtomicLevel
}

// logFactory builds loggers that write colored output to stderr and JSON to
// a rotated file per logger.
type logFactory struct {
	config logging.Config
	lock   sync.Mutex

	loggers map[string]logWrapper
}

func newLogFactory(config logging.Config) *logFactory {
	return &logFactory{
		config:  config,
		loggers: make(map[string]logWrapper),
	}
}

func (f *logFactory) Make(name string) (logging.Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, ok := f.loggers[name]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", name)
	}
	config := f.config
	config.LoggerName = name

	var consoleWriter io.WriteCloser = os.Stderr
	if config.DisableWriterDisplaying {
		consoleWriter = nopCloser{io.Discard}
	}
	consoleCore := logging.NewWrappedCore(config.DisplayLevel, consoleWriter, logging.Colors.ConsoleEncoder())
	consoleCore.WriterDisabled = config.DisableWriterDisplaying

	rw := &lumberjack.Logger{
		Filename:   path.Join(config.Directory, name+".log"),
		MaxSize:    config.MaxSize,  // megabytes
		MaxAge:     config.MaxAge,   // days
		MaxBackups: config.MaxFiles, // files
		Compress:   config.Compress,
	}
	fileCore := logging.NewWrappedCore(config.LogLevel, rw, config.LogFormat.FileEncoder())

	l := logging.NewLogger(config.LogFormat.WrapPrefix(config.MsgPrefix), consoleCore, fileCore)
	f.loggers[name] = logWrapper{
		logger:       l,
		displayLevel: consoleCore.AtomicLevel,
		logLevel:     fileCore.AtomicLevel,
	}
	return l, nil
}

func (f *logFactory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, lw := range f.loggers {
		lw.logger.Stop()
	}
	f.loggers = nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
