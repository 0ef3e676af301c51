package main

import (
	"os"
	"path/filepath"

	"pinpulse/internal/toggler"
)

func main() {
	os.Exit(toggler.Main(filepath.Base(os.Args[0]), os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}
