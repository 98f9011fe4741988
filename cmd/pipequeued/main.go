/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"

	"github.com/suparena/pipequeue"
	"github.com/suparena/pipequeue/config"
	"github.com/suparena/pipequeue/server"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	configFlag  = flag.String("config", "", "Path to YAML config file")
)

func main() {
	flag.Parse()

	if *versionFlag || *vFlag {
		info := pipequeue.GetVersionInfo()
		fmt.Printf("PipeQueue version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pipequeued: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := log.Logger{
		Level:      log.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
		Writer: &log.ConsoleWriter{
			Writer: os.Stderr,
		},
	}

	svc, err := pipequeue.New(
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Region,
		cfg.AWS.TableName,
	)
	if err != nil {
		return fmt.Errorf("initialize service: %w", err)
	}

	logger.Info().
		Str("table", cfg.AWS.TableName).
		Str("region", cfg.AWS.Region).
		Msg("PipeQueue service initialized")

	srv := server.New(svc, cfg.Addr(), logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-errCh
}
