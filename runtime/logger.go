// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/fairlaunch/config"
	"github.com/ava-labs/fairlaunch/consts"
)

// NewLogger logs to stderr and, if configured, to a rotating file. The
// returned func closes that file.
func NewLogger(cfg *config.Config) (logging.Logger, func() error) {
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(cfg.LogLevel, os.Stderr, logging.Colors.ConsoleEncoder()),
	}
	if len(cfg.LogFile) > 0 {
		rw := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSize, // megabytes
			MaxBackups: cfg.LogMaxFiles,
			Compress:   cfg.LogCompressed,
		}
		cores = append(cores, logging.NewWrappedCore(cfg.LogLevel, rw, logging.JSON.FileEncoder()))
		return logging.NewLogger(consts.Name, cores...), rw.Close
	}
	return logging.NewLogger(consts.Name, cores...), func() error { return nil }
}
