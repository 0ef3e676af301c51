package softpwm

import "periph.io/x/conn/v3/gpio"

// Line is an output-direction handle on one GPIO line.
//
// Close should drive the line low before releasing it.
type Line interface {
	SetValue(l gpio.Level) error
	Close() error
}
