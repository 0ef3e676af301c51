//go:build linux

package bcmgpio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fileBase makes base+GPIOOffset wrap to file offset 0.
const fileBase = ^uint64(0) - GPIOOffset + 1

func tempDevice(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mem")
	if err := os.WriteFile(path, make([]byte, 4096), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func readReg(t *testing.T, path string, off int) uint32 {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func TestMapDevice_MissingDevice(t *testing.T) {
	_, err := mapDevice(filepath.Join(t.TempDir(), "nope"), DefaultPeripheralBase)
	if err == nil || !strings.Contains(err.Error(), "bcmgpio: open") {
		t.Fatalf("err=%v want open failure", err)
	}
}

func TestMapDevice_BothViewsReachDevice(t *testing.T) {
	dev := tempDevice(t)
	m, err := mapDevice(dev, fileBase)
	if err != nil {
		t.Fatalf("mapDevice: %v", err)
	}
	defer m.Close()

	m.Regs().SetHigh(17)
	if got := readReg(t, dev, GPSET0); got != 1<<17 {
		t.Fatalf("GPSET0=%#x want %#x", got, uint32(1<<17))
	}
	m.Control().SetLow(17)
	if got := readReg(t, dev, GPCLR0); got != 1<<17 {
		t.Fatalf("GPCLR0=%#x want %#x", got, uint32(1<<17))
	}
	// Views alias the same cells.
	if m.Regs().Load(GPCLR0) != 1<<17 {
		t.Fatalf("spin view does not see control view write")
	}
}

func TestDetach_CutsSpinViewOffDevice(t *testing.T) {
	dev := tempDevice(t)
	m, err := mapDevice(dev, fileBase)
	if err != nil {
		t.Fatalf("mapDevice: %v", err)
	}
	spin := m.Regs()

	if err := m.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	for i := 0; i < 1000; i++ {
		spin.Pulse(17)
	}
	if got := readReg(t, dev, GPSET0); got != 0 {
		t.Fatalf("GPSET0=%#x want 0 after detach", got)
	}

	m.Control().SetLow(17)
	if got := readReg(t, dev, GPCLR0); got != 1<<17 {
		t.Fatalf("GPCLR0=%#x want %#x", got, uint32(1<<17))
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if m.Control() != nil {
		t.Fatalf("control view still exposed after Close")
	}
	// The inert replacement stays mapped, so a loop still running cannot fault.
	spin.SetHigh(17)
	if got := readReg(t, dev, GPSET0); got != 0 {
		t.Fatalf("GPSET0=%#x want 0 after close", got)
	}
}

func TestCloseControl_LeavesSpinViewMapped(t *testing.T) {
	dev := tempDevice(t)
	m, err := mapDevice(dev, fileBase)
	if err != nil {
		t.Fatalf("mapDevice: %v", err)
	}
	defer m.Close()

	if err := m.CloseControl(); err != nil {
		t.Fatalf("CloseControl: %v", err)
	}
	if err := m.CloseControl(); err != nil {
		t.Fatalf("second CloseControl: %v", err)
	}
	m.Regs().SetHigh(4)
	if got := readReg(t, dev, GPSET0); got != 1<<4 {
		t.Fatalf("GPSET0=%#x want %#x", got, uint32(1<<4))
	}
}
