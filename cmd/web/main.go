package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/bigredeye/gradebook/internal/config"
	"github.com/bigredeye/gradebook/internal/web"
	zlog "github.com/bigredeye/gradebook/pkg/log"
)

var configPath = flag.String("config", "", "Path to the config file")

func run() error {
	conf, err := config.ParseConfig(*configPath)
	if err != nil {
		return err
	}

	logger := zlog.Init(zlog.Options{
		Production: conf.Log.Production,
		File:       conf.Log.File,
	})
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return web.Run(ctx, logger, conf)
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("%+v\n", err)
	}
}
