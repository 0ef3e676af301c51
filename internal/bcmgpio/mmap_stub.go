//go:build !linux

package bcmgpio

import "fmt"

// Mapping is unavailable off Linux; Map always fails.
type Mapping struct{}

func Map(device string, base uint64) (*Mapping, error) {
	return nil, fmt.Errorf("bcmgpio: register mapping requires linux on arm or arm64")
}

func (m *Mapping) Regs() *Registers    { return nil }
func (m *Mapping) Control() *Registers { return nil }
func (m *Mapping) Detach() error       { return nil }
func (m *Mapping) CloseControl() error { return nil }
func (m *Mapping) Close() error        { return nil }
