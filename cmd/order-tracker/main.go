package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-tracker/internal/app"
	"github.com/vladislavdragonenkov/order-tracker/internal/version"
)

// setupLogger направляет логи в w, чтобы не смешивать их с меню на stdout.
func setupLogger(level log.Level, w io.Writer) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(w)
	log.SetLevel(level)
}

func main() {
	cfg := app.DefaultConfig()
	setupLogger(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Первый сигнал отменяет ctx, второй завершает процесс обычным образом.
	context.AfterFunc(ctx, stop)

	log.WithField("build", version.String()).Debug("starting order tracker")

	if err := app.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("order tracker failed")
	}
}
