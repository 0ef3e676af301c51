package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that points at an optional YAML file.
// Neither binary takes flags, so the file is only ever found through it.
const EnvPath = "PINPULSE_CONFIG"

type Config struct {
	LogLevel string        `yaml:"log_level"`
	SoftPWM  SoftPWMConfig `yaml:"softpwm"`
	Toggle   ToggleConfig  `yaml:"toggle"`
}

type SoftPWMConfig struct {
	// Consumer is the label the kernel shows for the requested line.
	Consumer string `yaml:"consumer"`
}

type ToggleConfig struct {
	MemDevice string `yaml:"mem_device"`
	// PeriBase is parsed like the PERI_BASE environment variable, which wins
	// when both are set.
	PeriBase string `yaml:"peri_base"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// FromEnv loads the file named by PINPULSE_CONFIG, or the defaults when unset.
func FromEnv(getenv func(string) string) (Config, error) {
	path := getenv(EnvPath)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	applyDefaults(&cfg)

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("log_level %q is invalid", cfg.LogLevel)
	}
	// The kernel truncates consumer labels beyond 31 bytes.
	if len(cfg.SoftPWM.Consumer) > 31 {
		return Config{}, fmt.Errorf("softpwm.consumer must be at most 31 bytes")
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.SoftPWM.Consumer == "" {
		cfg.SoftPWM.Consumer = "pinpulse-softpwm"
	}
	if cfg.Toggle.MemDevice == "" {
		cfg.Toggle.MemDevice = "/dev/mem"
	}
}

// NewLogger builds the stderr logger shared by both binaries.
func (c Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	return log
}
