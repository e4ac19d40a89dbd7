package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.Logger

type Options struct {
	Production bool
	// File enables a rotated copy of the log next to stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

func InitProd() *zap.Logger {
	return initLogger(zap.NewProductionConfig(), nil)
}

func InitDev() *zap.Logger {
	return initLogger(zap.NewDevelopmentConfig(), nil)
}

func Init(opts Options) *zap.Logger {
	config := zap.NewDevelopmentConfig()
	if opts.Production {
		config = zap.NewProductionConfig()
	}
	if opts.File == "" {
		return initLogger(config, nil)
	}

	rotated := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    orDefault(opts.MaxSizeMB, 100),
		MaxBackups: orDefault(opts.MaxBackups, 3),
	})
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		rotated,
		config.Level,
	)
	return initLogger(config, fileCore)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func initLogger(config zap.Config, extra zapcore.Core) *zap.Logger {
	var err error
	options := []zap.Option{zap.AddStacktrace(zap.WarnLevel)}
	if extra != nil {
		options = append(options, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, extra)
		}))
	}
	logger, err = config.Build(options...)
	if err != nil {
		fmt.Printf("Failed to init zap logger: %v", err)
		os.Exit(1)
	}
	zap.ReplaceGlobals(logger)
	return logger
}

func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
