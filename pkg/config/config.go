package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/trueweb/pkg/logger"
	"github.com/dmitrymomot/trueweb/pkg/redis"
)

// FileEnv names the variable that points at an optional YAML overlay.
const FileEnv = "CONFIG_FILE"

// Config is the process configuration of a trueweb server.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080" yaml:"addr"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s" yaml:"shutdown_timeout"`
	StaticDir       string        `env:"STATIC_DIR" yaml:"static_dir"`

	// RedirectTable is a JSON file of old path to new path. Empty disables it.
	RedirectTable string `env:"REDIRECT_TABLE" yaml:"redirect_table"`
	RedirectCode  int    `env:"REDIRECT_CODE" envDefault:"301" yaml:"redirect_code"`

	Auth   AuthConfig    `yaml:"auth"`
	Log    logger.Config `yaml:"log"`
	Redis  redis.Config  `yaml:"redis"`
	Tokens TokenConfig   `yaml:"tokens"`
}

// AuthConfig holds the secrets of the built-in auth gates. A gate whose
// secret is empty is not mounted.
type AuthConfig struct {
	CookieSecret  string `env:"COOKIE_SECRET" yaml:"cookie_secret"`
	CookieName    string `env:"COOKIE_NAME" envDefault:"session" yaml:"cookie_name"`
	JWTSecret     string `env:"JWT_SECRET" yaml:"jwt_secret"`
	JWTIssuer     string `env:"JWT_ISSUER" yaml:"jwt_issuer"`
	AdminUser     string `env:"ADMIN_USER" yaml:"admin_user"`
	AdminPassword string `env:"ADMIN_PASSWORD" yaml:"admin_password"`
}

// TokenConfig controls the bearer token cache.
type TokenConfig struct {
	TTL    time.Duration `env:"TOKEN_TTL" envDefault:"1h" yaml:"ttl"`
	Prefix string        `env:"TOKEN_PREFIX" envDefault:"trueweb:token:" yaml:"prefix"`
}

// Load reads the configuration from the environment, then overlays the YAML
// file named by CONFIG_FILE when it is set. Keys present in the file win over
// the environment.
func Load() (Config, error) {
	return LoadWith(env.Options{}, os.Getenv(FileEnv))
}

// LoadWith is Load with explicit env options and file path. An empty path
// skips the overlay.
func LoadWith(opts env.Options, path string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrParseEnv, err)
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, errors.Join(ErrReadFile, err)
		}
		defer f.Close()

		if err := Overlay(&cfg, f); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Overlay decodes YAML from r on top of cfg. Fields missing from the
// document keep their current values.
func Overlay(cfg *Config, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Join(ErrReadFile, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return errors.Join(ErrParseFile, err)
	}
	return nil
}

// Validate checks values that would otherwise fail late at request time.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	switch c.RedirectCode {
	case 301, 303, 307, 308:
	default:
		errs = append(errs, fmt.Errorf("redirect_code %d is not one of 301, 303, 307, 308", c.RedirectCode))
	}
	if s := c.Auth.CookieSecret; s != "" && len(s) < 32 {
		errs = append(errs, errors.New("cookie_secret must be at least 32 bytes"))
	}
	if (c.Auth.AdminUser == "") != (c.Auth.AdminPassword == "") {
		errs = append(errs, errors.New("admin_user and admin_password must be set together"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log format %q is not json or text", c.Log.Format))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}
