package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jengzang/hiking-duration-go/internal/cli"
	"github.com/jengzang/hiking-duration-go/internal/config"
	"github.com/jengzang/hiking-duration-go/internal/logging"
	"github.com/jengzang/hiking-duration-go/internal/service"
)

func main() {
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "log format (text or json)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Hiking duration calculator\n\nUsage: %s [flags] [trace.gpx]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	// 日志写到 stderr，stdout 只留给交互
	logger := logging.New(*logLevel, *logFormat)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc := service.NewEstimateService(cfg.Defaults, logger, nil, nil)
	runner := cli.NewRunner(svc, os.Stdin, os.Stdout, logger)

	err = runner.Run(ctx, flag.Arg(0))
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		// Ctrl-C 中断提示
		fmt.Fprintln(os.Stdout)
		os.Exit(130)
	default:
		logger.WithError(err).Error("estimate failed")
		os.Exit(1)
	}
}
