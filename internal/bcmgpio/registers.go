package bcmgpio

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"periph.io/x/conn/v3/gpio"
)

// Registers is a window of 32-bit hardware registers.
//
// Every access goes through sync/atomic so the compiler can neither drop,
// merge nor reorder reads and writes that have side effects on the device.
// The window is never exposed as a plain slice.
type Registers struct {
	cells []uint32
}

// NewRegisters views b, which must be 4-byte aligned and at least BlockLen
// bytes long, as a register window.
func NewRegisters(b []byte) (*Registers, error) {
	if len(b) < BlockLen {
		return nil, fmt.Errorf("bcmgpio: register window is %d bytes, need %d", len(b), BlockLen)
	}
	p := unsafe.Pointer(&b[0])
	if uintptr(p)%4 != 0 {
		return nil, fmt.Errorf("bcmgpio: register window is not word aligned")
	}
	return &Registers{cells: unsafe.Slice((*uint32)(p), len(b)/4)}, nil
}

// Load reads the register at byte offset off.
func (r *Registers) Load(off int) uint32 {
	return atomic.LoadUint32(&r.cells[off/4])
}

// Store writes v to the register at byte offset off.
func (r *Registers) Store(off int, v uint32) {
	atomic.StoreUint32(&r.cells[off/4], v)
}

// ConfigureOutput switches pin to output, leaving the other nine fields of its
// GPFSEL register untouched, and drives it low.
func (r *Registers) ConfigureOutput(pin int) {
	reg, shift := FuncSelect(pin)
	off := GPFSEL0 + reg*4
	v := r.Load(off)
	v &^= funcMask << uint(shift)
	v |= FuncOutput << uint(shift)
	r.Store(off, v)
	r.SetLow(pin)
}

// Function returns the 3-bit function-select field of pin.
func (r *Registers) Function(pin int) uint32 {
	reg, shift := FuncSelect(pin)
	return (r.Load(GPFSEL0+reg*4) >> uint(shift)) & funcMask
}

func (r *Registers) SetHigh(pin int) {
	reg, mask := SetClearMask(pin)
	r.Store(GPSET0+reg*4, mask)
}

func (r *Registers) SetLow(pin int) {
	reg, mask := SetClearMask(pin)
	r.Store(GPCLR0+reg*4, mask)
}

// Level reads pin's input level from GPLEV.
func (r *Registers) Level(pin int) gpio.Level {
	reg, mask := SetClearMask(pin)
	return gpio.Level(r.Load(GPLEV0+reg*4)&mask != 0)
}

// Pulse drives pin high and immediately low once.
func (r *Registers) Pulse(pin int) {
	reg, mask := SetClearMask(pin)
	atomic.StoreUint32(&r.cells[GPSET0/4+reg], mask)
	atomic.StoreUint32(&r.cells[GPCLR0/4+reg], mask)
}

// Toggle pulses pin forever as fast as the CPU can issue the writes. It never
// returns; the process ends it.
func (r *Registers) Toggle(pin int) {
	reg, mask := SetClearMask(pin)
	set := &r.cells[GPSET0/4+reg]
	clr := &r.cells[GPCLR0/4+reg]
	for {
		atomic.StoreUint32(set, mask)
		atomic.StoreUint32(clr, mask)
	}
}
