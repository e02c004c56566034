package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/xrpstat/gwstat/internal/report"
)

// ReportGenerator generates and persists one gateway report.
type ReportGenerator interface {
	Generate(ctx context.Context, gateway string, hotWallets []string) (report.Response, error)
}

// AfterReportHook is called after each successful generation.
type AfterReportHook interface {
	Export(ctx context.Context, gateway string, resp report.Response) error
}

// ReportWorker periodically regenerates reports for a fixed set of gateways.
type ReportWorker struct {
	generator  ReportGenerator
	gateways   []string
	hotWallets []string
	interval   time.Duration
	hook       AfterReportHook // optional
}

// NewReportWorker creates a worker with an optional post-generation hook.
func NewReportWorker(generator ReportGenerator, gateways, hotWallets []string, interval time.Duration, hook AfterReportHook) *ReportWorker {
	return &ReportWorker{
		generator:  generator,
		gateways:   gateways,
		hotWallets: hotWallets,
		interval:   interval,
		hook:       hook,
	}
}

// Run starts the worker loop. It generates once immediately, then on every
// tick, and blocks until the context is cancelled.
func (w *ReportWorker) Run(ctx context.Context) {
	slog.Info("ReportWorker: starting", "gateways", len(w.gateways), "interval", w.interval)

	w.generateAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("ReportWorker: stopping")
			return
		case <-ticker.C:
			w.generateAll(ctx)
		}
	}
}

func (w *ReportWorker) generateAll(ctx context.Context) {
	for _, gateway := range w.gateways {
		resp, err := w.generator.Generate(ctx, gateway, w.hotWallets)
		if err != nil {
			slog.Error("ReportWorker: generation failed", "gateway", gateway, "error", err)
			continue
		}
		slog.Info("ReportWorker: report generated",
			"gateway", gateway,
			"ledger_index", resp.LedgerIndex,
			"obligations", len(resp.Obligations))
		w.runHook(ctx, gateway, resp)
	}
}

func (w *ReportWorker) runHook(ctx context.Context, gateway string, resp report.Response) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, gateway, resp); err != nil {
		slog.Error("ReportWorker: export hook failed", "gateway", gateway, "error", err)
	}
}
