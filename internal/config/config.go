package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil

	default:
		return errors.New("invalid duration")
	}
}

type JwtConfig struct {
	Secret        string   `json:"secret"`
	SecretPath    string   `json:"secret_path"`
	TokenLifetime Duration `json:"token_lifetime"`
}

type LogConfig struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSize    int    `json:"max_size"` // megabytes
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"` // days
}

type SessionConfig struct {
	Tick          Duration `json:"tick"`
	IdleTimeout   Duration `json:"idle_timeout"`
	SweepInterval Duration `json:"sweep_interval"`
}

type Config struct {
	Mode           string        `json:"mode"`
	Addr           string        `json:"addr"`
	AllowedOrigins []string      `json:"allowed_origins"`
	Jwt            JwtConfig     `json:"jwt"`
	Log            LogConfig     `json:"log"`
	Session        SessionConfig `json:"session"`
}

func Default() Config {
	return Config{
		Mode: "development",
		Addr: ":8080",
		Jwt: JwtConfig{
			TokenLifetime: Duration{24 * time.Hour},
		},
		Log: LogConfig{
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Session: SessionConfig{
			Tick:          Duration{time.Second},
			IdleTimeout:   Duration{30 * time.Minute},
			SweepInterval: Duration{time.Minute},
		},
	}
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":                   c.Mode,
		"addr":                   c.Addr,
		"allowed_origins":        strings.Join(c.AllowedOrigins, ","),
		"jwt_secret_path":        c.Jwt.SecretPath,
		"jwt_token_lifetime":     c.Jwt.TokenLifetime.String(),
		"log_level":              c.Log.Level,
		"log_file":               c.Log.File,
		"session_tick":           c.Session.Tick.String(),
		"session_idle_timeout":   c.Session.IdleTimeout.String(),
		"session_sweep_interval": c.Session.SweepInterval.String(),
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func ReadConfig(path string, config *Config) error {
	if b, err := os.ReadFile(path); err != nil {
		return err
	} else {
		return json.Unmarshal(b, config)
	}
}

// Load builds the configuration from defaults, the JSON file at path and
// finally the environment. A missing file or .env is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}

	config := Default()
	if path != "" {
		err := ReadConfig(path, &config)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	if err := applyEnv(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyEnv(c *Config) error {
	if v, ok := os.LookupEnv("SWEEPER_MODE"); ok {
		c.Mode = v
	}
	if v, ok := os.LookupEnv("SWEEPER_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := os.LookupEnv("SWEEPER_ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, origin)
			}
		}
	}
	if v, ok := os.LookupEnv("SWEEPER_JWT_SECRET"); ok {
		c.Jwt.Secret = v
	}
	if v, ok := os.LookupEnv("SWEEPER_JWT_SECRET_FILE"); ok {
		c.Jwt.SecretPath = v
	}
	if v, ok := os.LookupEnv("SWEEPER_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("SWEEPER_LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := os.LookupEnv("SWEEPER_TICK"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SWEEPER_TICK: %w", err)
		}
		c.Session.Tick = Duration{d}
	}
	if v, ok := os.LookupEnv("SWEEPER_IDLE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SWEEPER_IDLE_TIMEOUT: %w", err)
		}
		c.Session.IdleTimeout = Duration{d}
	}
	if v, ok := os.LookupEnv("SWEEPER_SWEEP_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SWEEPER_SWEEP_INTERVAL: %w", err)
		}
		c.Session.SweepInterval = Duration{d}
	}
	return nil
}

// OriginAllowed reports whether origin may talk to the server. An empty
// allow list lets everyone in.
func (c Config) OriginAllowed(origin string) bool {
	if len(c.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
