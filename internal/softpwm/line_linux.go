//go:build linux

package softpwm

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
)

// OpenLine requests line pin of /dev/gpiochip<chip> as an output, initially low.
func OpenLine(chip, pin int, consumer string) (Line, error) {
	if chip < 0 {
		return nil, fmt.Errorf("softpwm: invalid chip %d", chip)
	}
	if pin < 0 {
		return nil, fmt.Errorf("softpwm: invalid line %d", pin)
	}

	name := fmt.Sprintf("gpiochip%d", chip)
	c, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("softpwm: open %s: %w", name, err)
	}
	l, err := c.RequestLine(pin, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("softpwm: request %s line %d: %w", name, pin, err)
	}
	return &cdevLine{chip: c, line: l}, nil
}

var openLineFn = OpenLine

type cdevLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func (c *cdevLine) SetValue(l gpio.Level) error {
	if c == nil || c.line == nil {
		return fmt.Errorf("softpwm: line not initialized")
	}
	v := 0
	if l == gpio.High {
		v = 1
	}
	return c.line.SetValue(v)
}

// Close parks the line low, then gives the line and its chip back to the
// kernel. Errors from all three steps are reported together.
func (c *cdevLine) Close() error {
	if c == nil || c.line == nil {
		return nil
	}
	line, chip := c.line, c.chip
	c.line, c.chip = nil, nil

	errs := []error{line.SetValue(0), line.Close()}
	if chip != nil {
		errs = append(errs, chip.Close())
	}
	return errors.Join(errs...)
}
