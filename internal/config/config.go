package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Host      string `json:"host"`
		Port      int    `json:"port"`
		Subpath   string `json:"subpath"`
		// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is believed.
		// Empty trusts none and the client IP is the direct peer.
		TrustedProxies []string `json:"trustedProxies"`
		JWTSecret string `json:"jwtSecret"`
		// Mode starting with "p" (prod, production) switches the logger to production output.
		Mode string `json:"mode"`
	} `json:"server"`
	Database struct {
		Driver string `json:"driver"`
		DSN    string `json:"dsn"`
		// Reset drops and recreates every table on startup instead of the additive migration.
		Reset bool `json:"reset"`
	} `json:"database"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	RateLimit struct {
		PerMinute int `json:"perMinute"`
	} `json:"rateLimit"`
	Log struct {
		Level string `json:"level"`
	} `json:"log"`
}

// IsProd reports whether the server runs in production mode.
func (c *Config) IsProd() bool {
	return strings.HasPrefix(strings.ToLower(c.Server.Mode), "p")
}

// Addr is the listen address built from host and port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads the optional JSON config file, then applies .env and
// environment overrides (singleton).
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		// a missing .env is fine, the real environment may carry everything
		_ = godotenv.Load()

		var c Config
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(raw, &c); err != nil {
				cfgErr = fmt.Errorf("invalid config format: %w", err)
				return
			}
		case errors.Is(err, os.ErrNotExist):
			// environment only
		default:
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}

		if err := applyEnv(&c); err != nil {
			cfgErr = err
			return
		}
		applyDefaults(&c)
		if err := validate(&c); err != nil {
			cfgErr = err
			return
		}
		cfg = &c
	})
	return cfg, cfgErr
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}

func applyEnv(c *Config) error {
	if v, ok := os.LookupEnv("SERVER_HOST"); ok {
		c.Server.Host = v
	}
	if v, ok := os.LookupEnv("SERVER_PORT"); ok {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SERVER_PORT should be an integer")
		}
		c.Server.Port = port
	}
	if v, ok := os.LookupEnv("SERVER_SUBPATH"); ok {
		c.Server.Subpath = v
	}
	if v, ok := os.LookupEnv("TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = splitList(v)
	}
	if v, ok := os.LookupEnv("SERVER_JWT_SECRET"); ok {
		c.Server.JWTSecret = v
	}
	if v, ok := os.LookupEnv("MODE"); ok {
		c.Server.Mode = v
	}
	if v, ok := os.LookupEnv("DB_DRIVER"); ok {
		c.Database.Driver = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("DB_DSN"); ok {
		c.Database.DSN = v
	}
	if v, ok := os.LookupEnv("DB_RESET"); ok {
		reset, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("DB_RESET should be a boolean")
		}
		c.Database.Reset = reset
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		c.Redis.Password = v
	}
	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("REDIS_DB should be an integer")
		}
		c.Redis.DB = n
	}
	if v, ok := os.LookupEnv("RATE_LIMIT_PER_MINUTE"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_PER_MINUTE should be an integer")
		}
		c.RateLimit.PerMinute = n
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3030
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.RateLimit.PerMinute == 0 {
		c.RateLimit.PerMinute = 120
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func validate(c *Config) error {
	if c.Server.JWTSecret == "" {
		return errors.New("jwtSecret must be set in config or SERVER_JWT_SECRET")
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn must be set in config or DB_DSN")
	}
	if c.Database.Driver != DriverPostgres && c.Database.Driver != DriverSQLite {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	for _, entry := range c.Server.TrustedProxies {
		if !validProxy(entry) {
			return fmt.Errorf("invalid trusted proxy %q", entry)
		}
	}
	if c.RateLimit.PerMinute < 0 {
		return errors.New("rateLimit.perMinute must not be negative")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validProxy(entry string) bool {
	if strings.Contains(entry, "/") {
		_, _, err := net.ParseCIDR(entry)
		return err == nil
	}
	return net.ParseIP(entry) != nil
}
