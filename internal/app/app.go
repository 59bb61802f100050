package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-tracker/internal/console"
	"github.com/vladislavdragonenkov/order-tracker/internal/metrics"
	"github.com/vladislavdragonenkov/order-tracker/internal/version"
)

// Run собирает зависимости по cfg и запускает меню на in/out.
// По завершении снимок метрик пишется в cfg.MetricsPath, если путь задан.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	return run(ctx, cfg, in, out, prometheus.NewRegistry())
}

func run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, registry *prometheus.Registry) error {
	logger := log.WithFields(log.Fields{
		"component":  "app",
		"session_id": uuid.NewString(),
	})

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close()

	logger.WithFields(log.Fields{
		"storage":        cfg.StorageDriver,
		"pending_path":   cfg.PendingPath,
		"completed_path": cfg.CompletedPath,
		"version":        version.GetVersion(),
		"commit":         version.GetCommit(),
		"build_date":     version.GetDate(),
	}).Info("order tracker started")

	controller := NewController(
		console.New(in, out),
		deps.store,
		deps.publisher,
		metrics.NewOrderMetricsWithRegisterer(registry),
		logger.WithField("layer", "menu"),
	)

	runErr := controller.Run(ctx)
	if err := flushMetrics(registry, cfg.MetricsPath, logger); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return runErr
	}

	logger.Info("order tracker stopped")
	return nil
}

// flushMetrics логирует счётчики и датчики сессии и, если задан path, пишет
// снимок registry в формате textfile-коллектора node_exporter.
func flushMetrics(registry *prometheus.Registry, path string, logger *log.Entry) error {
	families, err := registry.Gather()
	if err != nil {
		logger.WithError(err).Warn("failed to gather metrics")
	}
	fields := make(log.Fields, len(families))
	for _, family := range families {
		var value float64
		for _, m := range family.GetMetric() {
			value += m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
		fields[family.GetName()] = value
	}
	logger.WithFields(fields).Debug("session metrics")

	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	logger.WithField("path", path).Debug("metrics written")
	return nil
}
