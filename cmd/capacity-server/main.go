package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"capacity-recon/internal/config"
	"capacity-recon/internal/logger"
	"capacity-recon/internal/server"
	"capacity-recon/internal/store"
)

var (
	configPath string
	verbose    bool
	addr       string
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.StringVar(&addr, "addr", "", "Override server.addr from config")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	// Uploads need somewhere to land
	if cfg.Store.Driver == "" || cfg.Store.Driver == "none" {
		cfg.Store.Driver = "memory"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	if err := logger.Init(os.Stdout, cfg.GetLogPath(), verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		Driver:       cfg.Store.Driver,
		DSN:          cfg.Store.DSN,
		MaxOpenConns: cfg.Store.MaxOpenConns,
	})
	if err != nil {
		logger.Error("Failed to open %s store: %v", cfg.Store.Driver, err)
		return 1
	}
	defer st.Close()
	logger.Info("Using %s store, default fiscal year %s", cfg.Store.Driver, cfg.Import.FiscalYear)

	if err := server.New(cfg, st).Run(ctx); err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}
