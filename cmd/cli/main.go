package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bigredeye/gradebook/pkg/client/gradebook"
)

var log *zap.Logger

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func unwrap[T any](value T, err error) T {
	check(err)
	return value
}

var (
	endpoint string

	rootCmd = &cobra.Command{
		Use:          "gradebook",
		Short:        "Gradebook client",
		SilenceUsage: true,
	}
)

func newClient() *gradebook.Client {
	return gradebook.NewClient(endpoint)
}

func initLogging() {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.ConsoleSeparator = " "
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.StampMilli)
	log = unwrap(config.Build())
}

func initCommands() {
	defaultEndpoint := os.Getenv("GRADEBOOK_ENDPOINT")
	if defaultEndpoint == "" {
		defaultEndpoint = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", defaultEndpoint, "Gradebook server endpoint")

	rootCmd.AddCommand(makeListCommand())
	rootCmd.AddCommand(makeAddCommand())
	rootCmd.AddCommand(makeRemoveCommand())
	rootCmd.AddCommand(makeSeedCommand())
	rootCmd.AddCommand(makeExportCommand())
}

func init() {
	initLogging()
	initCommands()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Command failed: %s\n", err.Error())
		os.Exit(1)
	}
}
