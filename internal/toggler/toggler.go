// Package toggler is the process flow behind cmd/fasttoggle: validate the pin,
// map the GPIO block, configure the pin and spin on its set/clear registers
// until a signal arrives.
package toggler

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"pinpulse/internal/bcmgpio"
	"pinpulse/internal/config"
)

// EnvPeriBase overrides the peripheral base address.
const EnvPeriBase = "PERI_BASE"

// window is the part of bcmgpio.Mapping the toggler uses.
type window interface {
	Regs() *bcmgpio.Registers
	Control() *bcmgpio.Registers
	Detach() error
	CloseControl() error
	Close() error
}

var mapFn = func(device string, base uint64) (window, error) {
	m, err := bcmgpio.Map(device, base)
	if err != nil {
		return nil, err
	}
	return m, nil
}

var (
	notifyFn = signal.Notify
	exitFn   = os.Exit
	toggleFn = func(r *bcmgpio.Registers, pin int) { r.Toggle(pin) }
)

// Main runs the toggler and returns the exit status for the paths that end
// without a signal. On SIGINT/SIGTERM the process exits from the signal path.
func Main(prog string, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "Usage: %s <bcm_pin>\n", prog)
		return 1
	}
	pin, err := bcmgpio.ParsePin(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", prog, err)
		return 1
	}

	cfg, err := config.FromEnv(getenv)
	if err != nil {
		fmt.Fprintf(stderr, "%s: config load failed: %v\n", prog, err)
		return 1
	}
	log := cfg.NewLogger()
	log.SetOutput(stderr)

	baseStr := getenv(EnvPeriBase)
	if baseStr == "" {
		baseStr = cfg.Toggle.PeriBase
	}
	base, err := bcmgpio.PeripheralBase(baseStr)
	if err != nil {
		log.WithError(err).Error("failed to map gpio")
		return 1
	}

	w, err := mapFn(cfg.Toggle.MemDevice, base)
	if err != nil {
		log.WithError(err).WithField("device", cfg.Toggle.MemDevice).Error("failed to map gpio")
		return 1
	}

	// From here on the only way out is the signal path.
	sd := &shutdown{win: w, pin: pin, exit: exitFn}
	sigCh := make(chan os.Signal, 1)
	notifyFn(sigCh, os.Interrupt, syscall.SIGTERM)
	go sd.await(sigCh)

	regs := w.Regs()
	regs.ConfigureOutput(pin)

	log.WithFields(logrus.Fields{"pin": pin, "base": fmt.Sprintf("%#x", base)}).Debug("gpio mapped")
	fmt.Fprintf(stdout, "toggling BCM %d (base %#x), Ctrl+C to stop\n", pin, base)

	toggleFn(regs, pin)
	return 0
}

// shutdown holds what the signal path needs. It is filled in once before the
// toggle loop starts and only read afterwards.
type shutdown struct {
	win  window
	pin  int
	exit func(int)
}

func (s *shutdown) await(ch <-chan os.Signal) {
	<-ch
	s.fire()
}

// fire cuts the spinning goroutine off the hardware, drives the pin low,
// releases the mapping and exits without running deferred cleanup. It does no
// logging.
//
// If the spin view cannot be detached the loop keeps writing through it, so
// the pin may be set again between the clear below and process exit. The spin
// view is then left mapped, since unmapping it under the loop would fault.
func (s *shutdown) fire() {
	detached := s.win.Detach() == nil
	if ctl := s.win.Control(); ctl != nil {
		ctl.SetLow(s.pin)
	}
	if detached {
		_ = s.win.Close()
	} else {
		_ = s.win.CloseControl()
	}
	s.exit(0)
}
