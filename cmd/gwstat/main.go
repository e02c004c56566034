package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/xrpstat/gwstat/internal/api"
	"github.com/xrpstat/gwstat/internal/archive"
	"github.com/xrpstat/gwstat/internal/cache"
	"github.com/xrpstat/gwstat/internal/config"
	"github.com/xrpstat/gwstat/internal/database"
	"github.com/xrpstat/gwstat/internal/export"
	"github.com/xrpstat/gwstat/internal/ledger"
	"github.com/xrpstat/gwstat/internal/report"
	"github.com/xrpstat/gwstat/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	app := &cli.App{
		Name:  "gwstat",
		Usage: "gateway balance reporting for an XRPL-style ledger",
		Commands: []*cli.Command{
			serveCommand(),
			reportCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run the HTTP API and the periodic report worker",
		Action: func(c *cli.Context) error { return serve(c.Context) },
	}
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if cfg.NodeURL == "" {
		return errors.New("NODE_URL is required")
	}

	source := ledger.NewRemoteSource(cfg.NodeURL, cfg.NodeRetryMax, cfg.NodeRetryBaseDelay)

	var reportCache report.Cache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer client.Close()
		reportCache = cache.New(client, cfg.CacheTTL)
	}

	reports := report.NewService(source, reportCache)

	var archiveSvc *archive.Service
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		migrations, err := fs.Sub(migrationsFS, "migrations")
		if err != nil {
			return fmt.Errorf("opening migrations: %w", err)
		}
		if err := database.Migrate(ctx, pool, migrations); err != nil {
			return err
		}

		archiveSvc = archive.NewService(reports, archive.NewPgRepository(pool))
	} else {
		slog.Warn("DATABASE_URL not set, report archive disabled")
	}

	if archiveSvc != nil && len(cfg.Gateways) > 0 {
		hook, err := exportHook(ctx, cfg)
		if err != nil {
			return err
		}
		w := worker.NewReportWorker(archiveSvc, cfg.Gateways, cfg.HotWallets, cfg.ReportInterval, hook)
		go w.Run(ctx)
	}

	if cfg.APIKey == "" {
		slog.Warn("API_KEY not set, query endpoint is unprotected")
	}

	srv := api.NewServer(cfg.HTTPPort, api.NewHandler(reports, archiveSvc), cfg.APIKey)

	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
	return nil
}

// exportHook assembles the optional post-generation exporters.
func exportHook(ctx context.Context, cfg config.Config) (worker.AfterReportHook, error) {
	var writers []export.ReportWriter
	if cfg.ExportDir != "" {
		writers = append(writers, export.NewExcelWriter(cfg.ExportDir))
	}
	if cfg.SheetsID != "" && cfg.SheetsCredentials != "" {
		sw, err := export.NewSheetsWriter(ctx, cfg.SheetsID, cfg.SheetsCredentials)
		if err != nil {
			return nil, err
		}
		writers = append(writers, sw)
	}
	if len(writers) == 0 {
		return nil, nil
	}
	return export.NewService(writers...), nil
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "run one gateway_balances query and print the result",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "node", Usage: "node JSON-RPC endpoint", Required: true},
			&cli.StringFlag{Name: "account", Usage: "gateway account", Required: true},
			&cli.StringSliceFlag{Name: "hotwallet", Usage: "hot wallet account (repeatable)"},
			&cli.StringFlag{Name: "ledger", Usage: "ledger index or validated/closed/current", Value: "validated"},
			&cli.BoolFlag{Name: "strict", Usage: "require a well-formed account string"},
		},
		Action: runReport,
	}
}

func runReport(c *cli.Context) error {
	source := ledger.NewRemoteSource(c.String("node"), 5, 2*time.Second)
	reports := report.NewService(source, nil)

	params := map[string]any{
		"account":      c.String("account"),
		"ledger_index": c.String("ledger"),
		"strict":       c.Bool("strict"),
	}
	if hw := c.StringSlice("hotwallet"); len(hw) > 0 {
		list := make([]any, len(hw))
		for i, w := range hw {
			list[i] = w
		}
		params["hotwallet"] = list
	}

	resp, err := reports.GatewayBalances(c.Context, params)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
