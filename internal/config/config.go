package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/atomicstack/bzmenu/internal/app"
	"github.com/atomicstack/bzmenu/internal/bluez"
	"github.com/atomicstack/bzmenu/internal/launcher"
	"github.com/atomicstack/bzmenu/internal/menu"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the configuration file that was read, if any.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envLauncher        = "BZMENU_LAUNCHER"
	envLauncherCommand = "BZMENU_LAUNCHER_COMMAND"
	envIcon            = "BZMENU_ICON"
	envSpaces          = "BZMENU_SPACES"
	envScanDuration    = "BZMENU_SCAN_DURATION"
	envPairTimeout     = "BZMENU_PAIR_TIMEOUT"
	envPairing         = "BZMENU_PAIRING"
	envNotify          = "BZMENU_NOTIFY"
	envConfig          = "BZMENU_CONFIG"
	envLogFile         = "BZMENU_LOG_FILE"
	envTrace           = "BZMENU_TRACE"
)

// fileConfig is the YAML layout. Pointer fields distinguish absent keys
// from zero values.
type fileConfig struct {
	Launcher        string `yaml:"launcher"`
	LauncherCommand string `yaml:"launcher_command"`
	Icon            string `yaml:"icon"`
	Spaces          *int   `yaml:"spaces"`
	ScanDuration    *int   `yaml:"scan_duration"`
	PairTimeout     *int   `yaml:"pair_timeout"`
	Pairing         string `yaml:"pairing"`
	Notify          *bool  `yaml:"notify"`
	LogFile         string `yaml:"log_file"`
	Trace           *bool  `yaml:"trace"`
}

// settings holds one value per option while the layers are merged.
type settings struct {
	launcher        string
	launcherCommand string
	icon            string
	spaces          int
	scanDuration    int
	pairTimeout     int
	pairing         string
	notify          bool
	configPath      string
	logFile         string
	trace           bool
}

func defaults(env map[string]string) settings {
	return settings{
		launcher:     string(launcher.Fuzzel),
		icon:         string(menu.IconFont),
		spaces:       1,
		scanDuration: int(app.DefaultScanDuration / time.Second),
		pairTimeout:  int(app.DefaultPairTimeout / time.Second),
		pairing:      string(bluez.PolicyPrompt),
		notify:       true,
		configPath:   DefaultPath(env),
	}
}

// DefaultPath is $XDG_CONFIG_HOME/bzmenu/config.yaml, falling back to
// ~/.config.
func DefaultPath(env map[string]string) string {
	dir := env["XDG_CONFIG_HOME"]
	if dir == "" {
		home := env["HOME"]
		if home == "" {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "bzmenu", "config.yaml")
}

// Load parses configuration from CLI arguments, environment variables and
// the configuration file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Precedence is
// file < environment < flags.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	// first pass only locates the config file
	base := defaults(env)
	withEnv := applyEnv(base, env)
	probe, err := parseFlags(args, withEnv)
	if err != nil {
		return Config{}, err
	}

	explicit := probe.configPath != base.configPath
	fileSettings, file, err := applyFile(base, probe.configPath, explicit)
	if err != nil {
		return Config{}, err
	}
	s, err := parseFlags(args, applyEnv(fileSettings, env))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			Launcher:        launcher.Profile(strings.ToLower(strings.TrimSpace(s.launcher))),
			LauncherCommand: s.launcherCommand,
			Icons:           menu.IconMode(strings.ToLower(strings.TrimSpace(s.icon))),
			Spacing:         s.spaces,
			ScanDuration:    time.Duration(s.scanDuration) * time.Second,
			PairTimeout:     time.Duration(s.pairTimeout) * time.Second,
			Pairing:         bluez.Policy(strings.ToLower(strings.TrimSpace(s.pairing))),
			Notify:          s.notify,
		},
		Logging: Logging{
			FilePath: s.logFile,
			Trace:    s.trace,
		},
		File: file,
		Flags: map[string]string{
			"launcher":        s.launcher,
			"launcherCommand": s.launcherCommand,
			"icon":            s.icon,
			"spaces":          strconv.Itoa(s.spaces),
			"scanDuration":    strconv.Itoa(s.scanDuration),
			"pairTimeout":     strconv.Itoa(s.pairTimeout),
			"pairing":         s.pairing,
			"notify":          strconv.FormatBool(s.notify),
			"config":          s.configPath,
			"trace":           strconv.FormatBool(s.trace),
			"logFile":         s.logFile,
		},
		Args: append([]string(nil), args...),
	}
	return cfg, nil
}

func parseFlags(args []string, s settings) (settings, error) {
	fs := flag.NewFlagSet("bzmenu", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.StringVar(&s.launcher, "launcher", s.launcher, "launcher profile: fuzzel, rofi, dmenu, walker, tui or custom")
	fs.StringVar(&s.launcherCommand, "launcher-command", s.launcherCommand, "custom launcher command; {prompt} and {placeholder} are substituted")
	fs.StringVar(&s.icon, "icon", s.icon, "icon type: font or xdg")
	fs.IntVar(&s.spaces, "spaces", s.spaces, "spaces between a font icon and its label")
	fs.IntVar(&s.scanDuration, "scan-duration", s.scanDuration, "seconds before a scan stops by itself")
	fs.IntVar(&s.pairTimeout, "pair-timeout", s.pairTimeout, "seconds allowed for each pairing attempt")
	fs.StringVar(&s.pairing, "pairing", s.pairing, "pairing requests: prompt, accept or none")
	fs.BoolVar(&s.notify, "notify", s.notify, "send desktop notifications")
	fs.StringVar(&s.configPath, "config", s.configPath, "path to the YAML configuration file")
	fs.BoolVar(&s.trace, "trace", s.trace, "enable verbose JSON trace logging")
	fs.StringVar(&s.logFile, "log-file", s.logFile, "path to the log file")

	if err := fs.Parse(args); err != nil {
		return settings{}, err
	}
	if fs.NArg() > 0 {
		return settings{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return s, nil
}

func applyEnv(s settings, env map[string]string) settings {
	s.launcher = envOrDefault(env, envLauncher, s.launcher)
	s.launcherCommand = envOrDefault(env, envLauncherCommand, s.launcherCommand)
	s.icon = envOrDefault(env, envIcon, s.icon)
	s.spaces = envOrInt(env, envSpaces, s.spaces)
	s.scanDuration = envOrInt(env, envScanDuration, s.scanDuration)
	s.pairTimeout = envOrInt(env, envPairTimeout, s.pairTimeout)
	s.pairing = envOrDefault(env, envPairing, s.pairing)
	s.notify = envOrBool(env, envNotify, s.notify)
	s.configPath = envOrDefault(env, envConfig, s.configPath)
	s.logFile = envOrDefault(env, envLogFile, s.logFile)
	s.trace = envOrBool(env, envTrace, s.trace)
	return s
}

// applyFile layers the YAML file over s. A missing file is only an error
// when it was asked for explicitly.
func applyFile(s settings, path string, explicit bool) (settings, string, error) {
	s.configPath = path
	if path == "" {
		return s, "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return s, "", nil
		}
		return s, "", fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return s, "", fmt.Errorf("parse config %s: %w", path, err)
	}
	if fc.Launcher != "" {
		s.launcher = fc.Launcher
	}
	if fc.LauncherCommand != "" {
		s.launcherCommand = fc.LauncherCommand
	}
	if fc.Icon != "" {
		s.icon = fc.Icon
	}
	if fc.Spaces != nil {
		s.spaces = *fc.Spaces
	}
	if fc.ScanDuration != nil {
		s.scanDuration = *fc.ScanDuration
	}
	if fc.PairTimeout != nil {
		s.pairTimeout = *fc.PairTimeout
	}
	if fc.Pairing != "" {
		s.pairing = fc.Pairing
	}
	if fc.Notify != nil {
		s.notify = *fc.Notify
	}
	if fc.LogFile != "" {
		s.logFile = fc.LogFile
	}
	if fc.Trace != nil {
		s.trace = *fc.Trace
	}
	return s, path, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects configurations the core cannot start with.
func Validate(cfg Config) error {
	if _, err := launcher.ParseProfile(string(cfg.App.Launcher)); err != nil {
		return err
	}
	if _, err := menu.ParseIconMode(string(cfg.App.Icons)); err != nil {
		return err
	}
	if _, err := bluez.ParsePolicy(string(cfg.App.Pairing)); err != nil {
		return err
	}
	if cfg.App.Launcher == launcher.Custom {
		if strings.TrimSpace(cfg.App.LauncherCommand) == "" {
			return errors.New("custom launcher requires --launcher-command")
		}
		if _, err := launcher.SplitTemplate(cfg.App.LauncherCommand); err != nil {
			return err
		}
	}
	if cfg.App.Spacing < 0 {
		return fmt.Errorf("spaces must be >= 0 (got %d)", cfg.App.Spacing)
	}
	if cfg.App.ScanDuration <= 0 {
		return fmt.Errorf("scan duration must be > 0 (got %s)", cfg.App.ScanDuration)
	}
	if cfg.App.PairTimeout <= 0 {
		return fmt.Errorf("pair timeout must be > 0 (got %s)", cfg.App.PairTimeout)
	}
	return nil
}
