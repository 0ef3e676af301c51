package softpwm

import (
	"fmt"
	"math"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Params is the raw operator input, before any clamping.
type Params struct {
	Chip        int
	Pin         int
	FrequencyHz float64
	Brightness  float64
}

// Timing is the derived on/off schedule. Durations are whole microseconds and
// On+Off always equals Period.
type Timing struct {
	Frequency physic.Frequency
	Period    time.Duration
	On        time.Duration
	Off       time.Duration
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampBrightness limits b to [0,100]. NaN reads as 0.
func ClampBrightness(b float64) float64 {
	if math.IsNaN(b) {
		return 0
	}
	return clamp(b, 0, 100)
}

// ClampFrequency replaces non-positive (or NaN) frequencies with 1 Hz.
func ClampFrequency(f float64) float64 {
	if math.IsNaN(f) || f <= 0 {
		return 1
	}
	return f
}

// ComputeTiming derives the period and phase lengths for one PWM cycle.
func ComputeTiming(frequencyHz, brightness float64) Timing {
	f := ClampFrequency(frequencyHz)
	b := ClampBrightness(brightness)

	periodUS := int64(math.Floor(1_000_000 / f))
	onUS := int64(math.Floor(float64(periodUS) * b / 100))
	if onUS > periodUS {
		onUS = periodUS
	}
	offUS := periodUS - onUS

	return Timing{
		Frequency: toFrequency(f),
		Period:    time.Duration(periodUS) * time.Microsecond,
		On:        time.Duration(onUS) * time.Microsecond,
		Off:       time.Duration(offUS) * time.Microsecond,
	}
}

// Timing returns the schedule for p.
func (p Params) Timing() Timing {
	return ComputeTiming(p.FrequencyHz, p.Brightness)
}

func toFrequency(hz float64) physic.Frequency {
	v := hz * float64(physic.Hertz)
	if v >= math.MaxInt64 {
		return physic.Frequency(math.MaxInt64)
	}
	return physic.Frequency(math.Round(v))
}

// String renders the one-line summary printed before the loop starts.
func (t Timing) String() string {
	return fmt.Sprintf("period=%dus on=%dus off=%dus", t.Period.Microseconds(), t.On.Microseconds(), t.Off.Microseconds())
}
