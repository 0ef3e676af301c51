package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func noEnv(string) string { return "" }

func TestRun_InvalidInputExits1(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), strings.NewReader("zero\n"), &stdout, &stderr, noEnv)
	if code != 1 {
		t.Fatalf("code=%d want 1", code)
	}
	if !strings.Contains(stderr.String(), "invalid chip number") {
		t.Fatalf("stderr=%q", stderr.String())
	}
}

func TestRun_MissingChipExits1(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), strings.NewReader("4242\n18\n100\n50\n"), &stdout, &stderr, noEnv)
	if code != 1 {
		t.Fatalf("code=%d want 1", code)
	}
	if !strings.Contains(stderr.String(), "softpwm failed") {
		t.Fatalf("stderr=%q", stderr.String())
	}
	if strings.Contains(stdout.String(), "running PWM") {
		t.Fatalf("stdout=%q must not report running", stdout.String())
	}
}

func TestRun_BadConfigExits1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("log_level: chatty\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	getenv := func(k string) string {
		if k == "PINPULSE_CONFIG" {
			return path
		}
		return ""
	}
	var stderr bytes.Buffer
	if code := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &stderr, getenv); code != 1 {
		t.Fatalf("code=%d want 1", code)
	}
	if !strings.Contains(stderr.String(), "config load failed") {
		t.Fatalf("stderr=%q", stderr.String())
	}
}

func TestRun_CancelWhilePromptingExits0(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, pr, io.Discard, io.Discard, noEnv)
	}()

	// Answer the first prompt only, then interrupt.
	if _, err := pw.Write([]byte("0\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	cancel()

	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("code=%d want 0", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run still blocked on stdin after cancel")
	}
}
