package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ddd-shop/cmd"
	"ddd-shop/config"
	"ddd-shop/infrastructure/persistence"
	apperrors "ddd-shop/pkg/errors"
	"ddd-shop/pkg/logger"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type options struct {
	configPath string
	command    string
	customerID string
	recent     int
}

func main() {
	opts := parseFlags()
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", opts.command, err)
		if apperrors.Is(err, apperrors.CodeBadRequest) {
			flag.Usage()
		}
		os.Exit(apperrors.ExitCodeOf(err))
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to config file")
	flag.StringVar(&opts.command, "cmd", "demo", "Command to run: migrate, demo, summary")
	flag.StringVar(&opts.customerID, "customer", "", "Customer ID for the summary command")
	flag.IntVar(&opts.recent, "recent", 5, "Number of recent orders in the summary")
	flag.Parse()
	return opts
}

func run(opts options) error {
	switch opts.command {
	case "migrate", "demo", "summary":
	default:
		return apperrors.BadRequest(fmt.Sprintf("unknown command %q", opts.command))
	}
	if opts.command == "summary" && opts.customerID == "" {
		return apperrors.BadRequest("-customer is required for the summary command")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeBadRequest, "failed to load config")
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := cmd.NewBuilder(cfg).Build()
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Failed to close application", zap.Error(err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	// 每条命令一个 request_id，SQL 日志和事件日志据此关联
	ctx = persistence.ContextWithRequestID(ctx, uuid.NewString())

	switch opts.command {
	case "migrate":
		return app.Migrate()
	case "demo":
		result, err := app.RunDemo(ctx)
		if err != nil {
			return err
		}
		return printJSON(result)
	default:
		summary, err := app.Summary(ctx, opts.customerID, opts.recent)
		if err != nil {
			return err
		}
		return printJSON(summary)
	}
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
