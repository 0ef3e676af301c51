package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"pinpulse/internal/config"
	"pinpulse/internal/softpwm"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	cfg, err := config.FromEnv(getenv)
	if err != nil {
		log := config.Default().NewLogger()
		log.SetOutput(stderr)
		log.WithError(err).Error("config load failed")
		return 1
	}
	log := cfg.NewLogger()
	log.SetOutput(stderr)

	p, err := softpwm.ReadParamsContext(ctx, stdin, stdout)
	if ctx.Err() != nil {
		log.Debug("softpwm stopped before start")
		return 0
	}
	if err != nil {
		log.WithError(err).Error("invalid input")
		return 1
	}

	if err := softpwm.Serve(ctx, p, cfg.SoftPWM.Consumer, stdout, log); err != nil {
		log.WithError(err).Error("softpwm failed")
		return 1
	}
	log.Debug("softpwm stopping")
	return 0
}
