// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grimm.is/kcldoc/internal/config"
	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/logging"
	"grimm.is/kcldoc/internal/metrics"
	"grimm.is/kcldoc/internal/workspace"
)

// RunWatch implements 'kcldoc watch'. It re-lints files as they change on
// disk until interrupted.
func RunWatch(args []string, stdio IO) error {
	fs := newFlagSet("watch", stdio)
	cfgPath := fs.String("config", config.DefaultFilename, "Configuration file")
	metricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New(errors.KindValidation, "watch requires at least one file")
	}

	cfg, err := loadConfig(*cfgPath, stdio)
	if err != nil {
		return err
	}
	lintCfg, err := cfg.LintConfig()
	if err != nil {
		return err
	}
	hoverOpts := cfg.HoverOptions()
	logger := logging.WithComponent("watch")

	m := metrics.New()
	w := workspace.New(workspace.Options{
		Logger:  logging.WithComponent("workspace"),
		Metrics: m,
		Lint:    &lintCfg,
		Hover:   &hoverOpts,
	})
	w.OnChange(func(doc *workspace.Document) {
		fmt.Fprintln(stdio.Out, summarize(doc))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		reg, err := metrics.NewRegistry(m)
		if err != nil {
			return errors.Wrap(err, errors.KindInternal, "failed to register metrics")
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "addr", *metricsAddr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving metrics", "addr", *metricsAddr)
	}

	return w.Watch(ctx, fs.Args())
}

// summarize renders one status line for a freshly parsed document.
func summarize(doc *workspace.Document) string {
	name := doc.Parsed.Filename
	n := len(doc.Report.Diagnostics)
	switch {
	case doc.Report.HasErrors():
		return StyleError.Render(fmt.Sprintf("✗ %s: %d problems", name, n))
	case n > 0:
		return StyleWarn.Render(fmt.Sprintf("⚠ %s: %d problems", name, n))
	default:
		return StyleOK.Render(fmt.Sprintf("✓ %s: %d schemas", name, len(doc.Parsed.Schemas)))
	}
}
