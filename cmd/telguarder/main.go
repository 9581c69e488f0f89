// Command telguarder looks up phone-number reputation from the command line.
//
//	telguarder [-config telguarder.yaml] [-json] number...
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	telguarder "github.com/telguarder/go-telguarder"
	"github.com/telguarder/go-telguarder/cache"
	"github.com/telguarder/go-telguarder/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to configuration file")
		asJSON     = flag.Bool("json", false, "print results as JSON")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: telguarder [-config file] [-json] number...")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telguarder: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telguarder: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts := []telguarder.Option{
		telguarder.WithBaseURL(cfg.Client.BaseURL),
		telguarder.WithAPIKey(cfg.Client.APIKey),
		telguarder.WithTimeout(cfg.Client.Timeout),
		telguarder.WithRetryConfig(telguarder.RetryConfig{
			MaxAttempts:       cfg.Client.Retry.MaxAttempts,
			InitialBackoff:    cfg.Client.Retry.InitialBackoff,
			MaxBackoff:        cfg.Client.Retry.MaxBackoff,
			Jitter:            0.2,
			RespectRetryAfter: true,
		}),
		telguarder.WithLogger(logger),
	}
	if cfg.Client.UserAgent != "" {
		opts = append(opts, telguarder.WithUserAgent(cfg.Client.UserAgent))
	}
	if cfg.Client.RateLimit.RequestsPerSecond > 0 {
		opts = append(opts, telguarder.WithRateLimit(
			cfg.Client.RateLimit.RequestsPerSecond, cfg.Client.RateLimit.Burst))
	}
	if cfg.Cache.Enabled {
		store, err := cache.NewRedisCache(&cfg.Cache.Redis, logger)
		if err != nil {
			logger.Fatal("initializing lookup cache", zap.Error(err))
		}
		defer store.Close()
		opts = append(opts, telguarder.WithCache(store, cfg.Cache.TTL))
	}

	client, err := telguarder.New(opts...)
	if err != nil {
		logger.Fatal("initializing client", zap.Error(err))
	}
	defer client.CloseIdleConnections()

	failed := false
	for _, number := range flag.Args() {
		result, err := client.Lookup(ctx, number)
		if err != nil {
			logger.Error("lookup failed", zap.String("number", number), zap.Error(err))
			failed = true
			continue
		}
		printResult(result, *asJSON)
	}
	if failed {
		os.Exit(1)
	}
}

func printResult(result *telguarder.LookupResult, asJSON bool) {
	if asJSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return
	}
	line := fmt.Sprintf("%s\t%s", result.Number, result.Classification)
	if result.Name != "" {
		line += "\t" + result.Name
	}
	if result.Score > 0 {
		line += fmt.Sprintf("\t(score %.2f)", result.Score)
	}
	fmt.Println(line)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
