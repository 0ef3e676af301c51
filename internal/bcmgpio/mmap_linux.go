//go:build linux

package bcmgpio

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mapping owns the GPIO register block mapped from a physical-memory device.
//
// The block is mapped twice from the same descriptor. The spin view is what
// Toggle hammers; the control view stays usable after Detach so the pin can
// still be driven once the spinning goroutine has been cut off.
type Mapping struct {
	spinPtr unsafe.Pointer
	ctlPtr  unsafe.Pointer
	spin    *Registers
	ctl     *Registers

	detached bool

	ctlOnce   sync.Once
	ctlErr    error
	closeOnce sync.Once
	closeErr  error
}

const prot = unix.PROT_READ | unix.PROT_WRITE

// mapDevice opens device and maps BlockLen bytes starting at base+GPIOOffset.
// Map gates it to the boards that actually have the BCM block.
func mapDevice(device string, base uint64) (*Mapping, error) {
	f, err := os.OpenFile(device, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("bcmgpio: open %s: %w", device, err)
	}
	// The mappings outlive the descriptor.
	defer f.Close()

	off := int64(base + GPIOOffset)
	spinPtr, err := unix.MmapPtr(int(f.Fd()), off, nil, BlockLen, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("bcmgpio: mmap %#x: %w", off, err)
	}
	ctlPtr, err := unix.MmapPtr(int(f.Fd()), off, nil, BlockLen, prot, unix.MAP_SHARED)
	if err != nil {
		_ = unix.MunmapPtr(spinPtr, BlockLen)
		return nil, fmt.Errorf("bcmgpio: mmap %#x: %w", off, err)
	}

	m := &Mapping{spinPtr: spinPtr, ctlPtr: ctlPtr}
	if m.spin, err = NewRegisters(unsafe.Slice((*byte)(spinPtr), BlockLen)); err == nil {
		m.ctl, err = NewRegisters(unsafe.Slice((*byte)(ctlPtr), BlockLen))
	}
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

// Regs is the view used by the hot loop.
func (m *Mapping) Regs() *Registers { return m.spin }

// Control is the view that survives Detach.
func (m *Mapping) Control() *Registers { return m.ctl }

// Detach replaces the spin view in place with private anonymous memory, so
// writes through Regs keep landing somewhere harmless but no longer reach the
// hardware. The replacement is never unmapped.
func (m *Mapping) Detach() error {
	if m.detached || m.spinPtr == nil {
		return nil
	}
	_, err := unix.MmapPtr(-1, 0, m.spinPtr, BlockLen, prot, unix.MAP_FIXED|unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return fmt.Errorf("bcmgpio: detach: %w", err)
	}
	m.detached = true
	return nil
}

// CloseControl unmaps only the control view, leaving the spin view alone for
// a loop that may still be running on it.
func (m *Mapping) CloseControl() error {
	m.ctlOnce.Do(func() {
		if m.ctlPtr != nil {
			if err := unix.MunmapPtr(m.ctlPtr, BlockLen); err != nil {
				m.ctlErr = fmt.Errorf("bcmgpio: munmap control view: %w", err)
			}
		}
		m.ctl = nil
	})
	return m.ctlErr
}

// Close releases the device mappings. It is safe to call more than once. A
// detached spin view is left in place.
func (m *Mapping) Close() error {
	m.closeOnce.Do(func() {
		if m.spinPtr != nil && !m.detached {
			if err := unix.MunmapPtr(m.spinPtr, BlockLen); err != nil {
				m.closeErr = fmt.Errorf("bcmgpio: munmap: %w", err)
			}
		}
		if err := m.CloseControl(); err != nil && m.closeErr == nil {
			m.closeErr = err
		}
	})
	return m.closeErr
}
