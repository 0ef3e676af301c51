//go:build linux && !arm && !arm64

package bcmgpio

import "fmt"

// Map refuses to run: on other architectures base+GPIOOffset is ordinary RAM.
func Map(device string, base uint64) (*Mapping, error) {
	return nil, fmt.Errorf("bcmgpio: register mapping requires linux on arm or arm64")
}
