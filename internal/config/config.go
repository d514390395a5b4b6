package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config хранит все параметры приложения
type Config struct {
	Console  ConsoleConfig  `yaml:"console"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ConsoleConfig struct {
	Port       int           `yaml:"port"`
	APIBaseURL string        `yaml:"api_base_url"`
	NoticeTTL  time.Duration `yaml:"notice_ttl"`
}

type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// seeded into usuarios when the collection is empty
	AdminLogin    string `yaml:"admin_login"`
	AdminPassword string `yaml:"admin_password"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // sqlite | postgres | memory
	Path     string `yaml:"path"`   // sqlite only
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	UseTLS   bool   `yaml:"use_tls"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Console: ConsoleConfig{
			Port:       3000,
			APIBaseURL: "http://127.0.0.1:8080",
			NoticeTTL:  6 * time.Second,
		},
		API: APIConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
		Database: DatabaseConfig{
			Driver:  "sqlite",
			Path:    "./data/restaurant.db",
			Port:    5432,
			SSLMode: "disable",
		},
		RabbitMQ: RabbitMQConfig{Port: 5672, VHost: "/"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// LoadConfig reads path (optional), then .env, then environment overrides.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("couldn't open the configuration file: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig returns the first config file that exists in the usual places.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"RESTAURANT_API_BASE_URL": &cfg.Console.APIBaseURL,
		"DATABASE_DRIVER":         &cfg.Database.Driver,
		"DATABASE_PATH":           &cfg.Database.Path,
		"DATABASE_HOST":           &cfg.Database.Host,
		"DATABASE_USER":           &cfg.Database.User,
		"DATABASE_PASSWORD":       &cfg.Database.Password,
		"DATABASE_NAME":           &cfg.Database.Database,
		"RABBITMQ_HOST":           &cfg.RabbitMQ.Host,
		"RABBITMQ_USER":           &cfg.RabbitMQ.User,
		"RABBITMQ_PASSWORD":       &cfg.RabbitMQ.Password,
		"RABBITMQ_VHOST":          &cfg.RabbitMQ.VHost,
		"LOG_LEVEL":               &cfg.Logging.Level,
		"ADMIN_LOGIN":             &cfg.API.AdminLogin,
		"ADMIN_PASSWORD":          &cfg.API.AdminPassword,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CONSOLE_PORT":  &cfg.Console.Port,
		"API_PORT":      &cfg.API.Port,
		"DATABASE_PORT": &cfg.Database.Port,
		"RABBITMQ_PORT": &cfg.RabbitMQ.Port,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv("CONSOLE_NOTICE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_NOTICE_TTL: %w", err)
		}
		cfg.Console.NoticeTTL = d
	}
	if v, ok := os.LookupEnv("RABBITMQ_USE_TLS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RABBITMQ_USE_TLS: %w", err)
		}
		cfg.RabbitMQ.UseTLS = b
	}
	if v, ok := os.LookupEnv("API_ALLOWED_ORIGINS"); ok {
		cfg.API.AllowedOrigins = splitList(v)
	}
	return nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Console.APIBaseURL) == "" {
		return errors.New("console.api_base_url is required")
	}
	switch c.Database.Driver {
	case "memory":
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Database == "" {
			return errors.New("database config incomplete")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.Console.NoticeTTL <= 0 {
		return errors.New("console.notice_ttl must be positive")
	}
	return nil
}

// Enabled reports whether a broker is configured at all.
func (r RabbitMQConfig) Enabled() bool { return r.Host != "" }

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
