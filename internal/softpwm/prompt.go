package softpwm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadParams prompts on w and reads chip, pin, frequency and brightness from r,
// one value per line, in that order.
func ReadParams(r io.Reader, w io.Writer) (Params, error) {
	sc := bufio.NewScanner(r)
	next := func(prompt string) (string, error) {
		fmt.Fprint(w, prompt)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("softpwm: read input: %w", err)
			}
			return "", fmt.Errorf("softpwm: unexpected end of input")
		}
		return strings.TrimSpace(sc.Text()), nil
	}

	var p Params
	s, err := next("Chip number: ")
	if err != nil {
		return Params{}, err
	}
	if p.Chip, err = strconv.Atoi(s); err != nil {
		return Params{}, fmt.Errorf("softpwm: invalid chip number %q", s)
	}

	if s, err = next("Pin number: "); err != nil {
		return Params{}, err
	}
	if p.Pin, err = strconv.Atoi(s); err != nil {
		return Params{}, fmt.Errorf("softpwm: invalid pin number %q", s)
	}

	if s, err = next("Frequency in Hz (recommended 100): "); err != nil {
		return Params{}, err
	}
	if p.FrequencyHz, err = strconv.ParseFloat(s, 64); err != nil {
		return Params{}, fmt.Errorf("softpwm: invalid frequency %q", s)
	}

	if s, err = next("Brightness percent (0-100): "); err != nil {
		return Params{}, err
	}
	if p.Brightness, err = strconv.ParseFloat(s, 64); err != nil {
		return Params{}, fmt.Errorf("softpwm: invalid brightness %q", s)
	}
	return p, nil
}

// ReadParamsContext is ReadParams that gives up when ctx is canceled. The
// reader is left blocked in the background; the caller is expected to exit.
func ReadParamsContext(ctx context.Context, r io.Reader, w io.Writer) (Params, error) {
	type result struct {
		p   Params
		err error
	}
	ch := make(chan result, 1)
	go func() {
		p, err := ReadParams(r, w)
		ch <- result{p, err}
	}()
	select {
	case res := <-ch:
		return res.p, res.err
	case <-ctx.Done():
		return Params{}, ctx.Err()
	}
}
