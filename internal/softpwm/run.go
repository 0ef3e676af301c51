package softpwm

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

var sleepFn = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run toggles line according to tm until ctx is canceled. A phase with zero
// length is skipped entirely, so 0% stays low and 100% stays high.
func Run(ctx context.Context, line Line, tm Timing) error {
	if tm.On <= 0 && tm.Off <= 0 {
		// Period rounds to zero above 1 MHz; there is nothing to alternate.
		if err := line.SetValue(gpio.Low); err != nil {
			return fmt.Errorf("softpwm: set low: %w", err)
		}
		<-ctx.Done()
		return nil
	}

	for {
		if tm.On > 0 {
			if err := line.SetValue(gpio.High); err != nil {
				return fmt.Errorf("softpwm: set high: %w", err)
			}
			if sleepFn(ctx, tm.On) != nil {
				return nil
			}
		}
		if tm.Off > 0 {
			if err := line.SetValue(gpio.Low); err != nil {
				return fmt.Errorf("softpwm: set low: %w", err)
			}
			if sleepFn(ctx, tm.Off) != nil {
				return nil
			}
		}
	}
}

// Serve acquires the requested line, reports the schedule on out and drives the
// line until ctx is canceled. The line is left low and released on return.
// Nothing is written to the line when acquisition fails.
func Serve(ctx context.Context, p Params, consumer string, out io.Writer, log *logrus.Logger) error {
	tm := p.Timing()

	line, err := openLineFn(p.Chip, p.Pin, consumer)
	if err != nil {
		return err
	}
	defer func() {
		if err := line.Close(); err != nil {
			log.WithError(err).Warn("softpwm: release line")
		}
	}()

	fmt.Fprintln(out, tm.String())
	fmt.Fprintf(out, "running PWM at %s on gpiochip%d line %d (Ctrl+C to stop)\n", tm.Frequency, p.Chip, p.Pin)
	log.WithFields(logrus.Fields{
		"chip":       p.Chip,
		"line":       p.Pin,
		"brightness": ClampBrightness(p.Brightness),
	}).Debug("softpwm: loop starting")

	return Run(ctx, line, tm)
}
