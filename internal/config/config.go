package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddress   = "0xD710B4cbF1A4E510F6c6e9245c5Cb65c4eB3Dc02"
	defaultListen    = "127.0.0.1:8888"
	defaultAPIURL    = "https://api.etherscan.io/api"
	defaultTimeout   = 15
	defaultRateLimit = 5
	defaultLogLevel  = "info"

	configFile = "config.json"
)

var (
	// ErrMissingAPIKey is returned when no Etherscan API key can be resolved.
	ErrMissingAPIKey = errors.New("missing Etherscan API key: set " + EnvAPIKey + " or run `gasmon key set <key>`")

	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.gasmon.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".gasmon")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.configDir = dir

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error and variables already set are left alone.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file values with the GASMON_* / ETHERSCAN_* environment.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvDefaultAddress); ok && v != "" {
		c.DefaultAddress = v
	}
	if v, ok := os.LookupEnv(EnvListen); ok && v != "" {
		c.Listen = v
	}
	if v, ok := os.LookupEnv(EnvAPIURL); ok && v != "" {
		c.APIURL = v
	}
	if v, ok := os.LookupEnv(EnvTimezone); ok {
		c.Timezone = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvRequestTimeout); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvRequestTimeout, v)
		}
		c.RequestTimeout = n
	}
	if v, ok := os.LookupEnv(EnvRateLimit); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvRateLimit, v)
		}
		c.RateLimit = f
	}
	if v, ok := os.LookupEnv(EnvCORSOrigins); ok {
		c.CORSOrigins = splitList(v)
	}
	return nil
}

// ResolveAPIKey looks up the API key in the environment, then in ks.
// It returns ErrMissingAPIKey when neither has one. ks may be nil.
func (c *Config) ResolveAPIKey(ks *Keystore) error {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.apiKey, c.keySource = v, KeySourceEnv
		return nil
	}
	if ks != nil {
		key, err := ks.Retrieve()
		if err == nil && key != "" {
			c.apiKey, c.keySource = key, KeySourceKeychain
			return nil
		}
		if err != nil && !errors.Is(err, ErrKeyNotFound) {
			return fmt.Errorf("%w (keychain: %v)", ErrMissingAPIKey, err)
		}
	}
	return ErrMissingAPIKey
}

// SetAPIKey injects a key directly, bypassing env and keychain.
func (c *Config) SetAPIKey(key, source string) {
	c.apiKey, c.keySource = key, source
}

// APIKey returns the key resolved at startup.
func (c *Config) APIKey() string { return c.apiKey }

// KeySource reports where the API key came from ("env" or "keychain").
func (c *Config) KeySource() string { return c.keySource }

// Validate checks values that the file and env may have set.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("%w: listen %q: %v", ErrInvalidConfig, c.Listen, err)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api_url %q is not an absolute URL", ErrInvalidConfig, c.APIURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive, got %d", ErrInvalidConfig, c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate_limit must not be negative, got %g", ErrInvalidConfig, c.RateLimit)
	}
	if _, err := c.loadLocation(); err != nil {
		return err
	}
	return nil
}

// Location returns the timezone used for day/month keys.
func (c *Config) Location() *time.Location {
	loc, err := c.loadLocation()
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) loadLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Timeout returns the explorer request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Save writes the config to disk. The API key is never persisted.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		DefaultAddress: defaultAddress,
		Listen:         defaultListen,
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultTimeout,
		RateLimit:      defaultRateLimit,
		LogLevel:       defaultLogLevel,
		configDir:      dir,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
