//go:build !linux

package softpwm

import "fmt"

func OpenLine(chip, pin int, consumer string) (Line, error) {
	return nil, fmt.Errorf("softpwm: gpio character device unsupported on this platform")
}

var openLineFn = OpenLine
