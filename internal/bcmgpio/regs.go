// Package bcmgpio drives BCM283x GPIO pins through the memory-mapped register
// block, bypassing the kernel GPIO drivers.
package bcmgpio

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultPeripheralBase is the peripheral base of BCM2836/BCM2837 boards.
	DefaultPeripheralBase uint64 = 0x3F000000
	// GPIOOffset is the distance from the peripheral base to the GPIO block.
	GPIOOffset uint64 = 0x200000
	// BlockLen covers function-select, set, clear and level registers.
	BlockLen = 0xB4

	MaxPin = 53
)

// Register byte offsets within the GPIO block.
const (
	GPFSEL0 = 0x00
	GPSET0  = 0x1C
	GPCLR0  = 0x28
	GPLEV0  = 0x34
)

// Function-select field encodings.
const (
	FuncInput  uint32 = 0b000
	FuncOutput uint32 = 0b001
	funcMask   uint32 = 0b111
)

// ParsePin parses a decimal BCM pin number in [0,MaxPin].
func ParsePin(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bcmgpio: invalid BCM pin %q", s)
	}
	if n < 0 || n > MaxPin {
		return 0, fmt.Errorf("bcmgpio: invalid BCM pin: %d", n)
	}
	return n, nil
}

// PeripheralBase parses an override of the peripheral base address. The empty
// string selects DefaultPeripheralBase. Like strtoul with base 0, a 0x prefix
// selects hex and a leading 0 octal.
func PeripheralBase(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPeripheralBase, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bcmgpio: invalid peripheral base %q", s)
	}
	return v, nil
}

// FuncSelect returns the GPFSEL register index and bit shift of pin's 3-bit field.
func FuncSelect(pin int) (reg, shift int) {
	return pin / 10, (pin % 10) * 3
}

// SetClearMask returns the GPSET/GPCLR register index and bit mask of pin.
func SetClearMask(pin int) (reg int, mask uint32) {
	return pin / 32, 1 << uint(pin%32)
}
