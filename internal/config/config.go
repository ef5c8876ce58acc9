// Package config loads the settings file and environment overrides.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	yaml "gopkg.in/yaml.v3"
)

var cfgFile = "simplechess/config.yaml"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Files names the on-disk game files.
type Files struct {
	Log         string `yaml:"log"`
	BoardConfig string `yaml:"board_config"`
	Connection  string `yaml:"connection"`
}

// Network configures hosting and joining.
type Network struct {
	Transport string `yaml:"transport"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Path      string `yaml:"path"`
}

// Archive selects where finished games are kept.
type Archive struct {
	Backend  string `yaml:"backend"`
	RedisURL string `yaml:"redis_url"`
}

// Log configures obslog.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Sound configures the audio manager.
type Sound struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

type Config struct {
	Files   Files   `yaml:"files"`
	Network Network `yaml:"network"`
	Archive Archive `yaml:"archive"`
	Log     Log     `yaml:"log"`
	Sound   Sound   `yaml:"sound"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Files: Files{
			Log:         "log.chesslog",
			BoardConfig: "board.chessconf",
			Connection:  "connection.chessconf",
		},
		Network: Network{
			Transport: "tcp",
			Host:      "127.0.0.1",
			Port:      8000,
			Path:      "/simplechess",
		},
		Archive: Archive{Backend: "badger"},
		Log:     Log{Level: "info", Format: "console"},
		Sound:   Sound{Enabled: true, Volume: 0.5},
	}
}

// Load reads the user's config file if one exists, then applies the
// connection file and environment overrides.
func Load() (*Config, error) {
	cfg := Default()
	if absPath, err := xdg.SearchConfigFile(cfgFile); err == nil {
		if err := readFile(absPath, &cfg); err != nil {
			return nil, err
		}
	}
	return finish(&cfg)
}

// LoadFile reads path instead of searching the XDG directories.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := readFile(path, &cfg); err != nil {
		return nil, err
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	if cfg.Files.Connection != "" {
		host, port, err := ReadConnectionFile(cfg.Files.Connection)
		switch {
		case err == nil:
			cfg.Network.Host, cfg.Network.Port = host, port
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("SIMPLECHESS_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("SIMPLECHESS_HOST")); v != "" {
		c.Network.Host = v
	}
	if v := strings.TrimSpace(os.Getenv("SIMPLECHESS_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Network.Port = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SIMPLECHESS_TRANSPORT")); v != "" {
		c.Network.Transport = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("SIMPLECHESS_REDIS_URL")); v != "" {
		c.Archive.RedisURL = v
		c.Archive.Backend = "redis"
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Network.Port < 1 || c.Network.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Network.Port)
	}
	switch c.Network.Transport {
	case "tcp", "websocket":
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalid, c.Network.Transport)
	}
	if c.Network.Transport == "websocket" && !strings.HasPrefix(c.Network.Path, "/") {
		return fmt.Errorf("%w: websocket path %q must start with /", ErrInvalid, c.Network.Path)
	}
	switch c.Archive.Backend {
	case "badger", "none":
	case "redis":
		if c.Archive.RedisURL == "" {
			return fmt.Errorf("%w: redis backend needs redis_url", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown archive backend %q", ErrInvalid, c.Archive.Backend)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Log.Format)
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		return fmt.Errorf("%w: volume %v outside 0..1", ErrInvalid, c.Sound.Volume)
	}
	if c.Files.Log == "" {
		return fmt.Errorf("%w: empty log path", ErrInvalid)
	}
	return nil
}

// Save writes c to the user's config directory.
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return c.SaveFile(absPath)
}

// SaveFile writes c as YAML to path.
func (c *Config) SaveFile(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0664)
}

// ReadConnectionFile reads a two-line connection file: the host on the first
// line and the port on the second.
func ReadConnectionFile(path string) (host string, port int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	return ParseConnection(f)
}

// ParseConnection parses the connection file format from r.
func ParseConnection(r io.Reader) (host string, port int, err error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() && len(lines) < 2 {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return "", 0, err
	}
	if len(lines) < 2 {
		return "", 0, fmt.Errorf("%w: connection file needs a host and a port", ErrInvalid)
	}
	port, err = strconv.Atoi(lines[1])
	if err != nil {
		return "", 0, fmt.Errorf("%w: port %q: %w", ErrInvalid, lines[1], err)
	}
	return lines[0], port, nil
}
