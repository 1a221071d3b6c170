package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Migrate  bool   `yaml:"migrate"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AdminConfig struct {
	Email    string `yaml:"email"`
	FullName string `yaml:"full_name"`
	Password string `yaml:"password"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	SessionTimeout time.Duration `yaml:"session_timeout"`
	// BootstrapAdmin is created at startup when Email is set and no account
	// with that email exists.
	BootstrapAdmin AdminConfig `yaml:"bootstrap_admin"`
}

// LibraryConfig holds the lending rules.
type LibraryConfig struct {
	LoanDays           int     `yaml:"loan_days"`
	MaxActiveLoans     int     `yaml:"max_active_loans"`
	FineBlockThreshold float64 `yaml:"fine_block_threshold"`
	FinePerDay         float64 `yaml:"fine_per_day"`
}

// Certs names the TLS files under config/tls/<mode>/. Both empty means plain HTTP.
type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
	Certificate Certs    `yaml:"certificate"`
}

// TLSFiles returns the cert/key paths for the current mode, or ok=false when
// TLS is not configured.
func (c Config) TLSFiles() (cert, key string, ok bool) {
	cc := c.Server.Certificate
	if cc.Cert == "" || cc.Key == "" {
		return "", "", false
	}
	dir := filepath.Join("config", "tls", c.Mode)
	return filepath.Join(dir, cc.Cert), filepath.Join(dir, cc.Key), true
}

type Config struct {
	Version string         `yaml:"version"`
	Mode    string         `yaml:"mode"`
	Server  ServerConfig   `yaml:"server"`
	DB      DatabaseConfig `yaml:"database"`
	Redis   RedisConfig    `yaml:"redis"`
	Auth    AuthConfig     `yaml:"auth"`
	Library LibraryConfig  `yaml:"library"`
}

// Rules converts the lending rules into the decimal form the loan engine uses.
type Rules struct {
	LoanDays           int
	MaxActiveLoans     int
	FineBlockThreshold decimal.Decimal
	FinePerDay         decimal.Decimal
}

func (l LibraryConfig) Rules() Rules {
	return Rules{
		LoanDays:           l.LoanDays,
		MaxActiveLoans:     l.MaxActiveLoans,
		FineBlockThreshold: decimal.NewFromFloat(l.FineBlockThreshold).Round(2),
		FinePerDay:         decimal.NewFromFloat(l.FinePerDay).Round(2),
	}
}

func Default() Config {
	return Config{
		Mode:   "dev",
		Server: ServerConfig{Addr: ":8080", CORSOrigins: []string{"http://localhost:3000"}},
		DB:     DatabaseConfig{Host: "127.0.0.1", Port: 3306, Username: "root", DBName: "library_system"},
		Redis:  RedisConfig{Addr: "127.0.0.1:6379"},
		Auth: AuthConfig{
			TokenTTL:       24 * time.Hour,
			SessionTimeout: 60 * time.Minute,
		},
		Library: LibraryConfig{
			LoanDays:           14,
			MaxActiveLoans:     5,
			FineBlockThreshold: 10.0,
			FinePerDay:         0.50,
		},
	}
}

// Load reads the YAML file at path on top of Default(), then applies an
// optional .env file and LIBRIS_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LIBRIS_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("LIBRIS_DB_HOST"); v != "" {
		cfg.DB.Host = v
	}
	if v := os.Getenv("LIBRIS_DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.DB.Port = p
		}
	}
	if v := os.Getenv("LIBRIS_DB_PASSWORD"); v != "" {
		cfg.DB.Password = v
	}
	if v := os.Getenv("LIBRIS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("LIBRIS_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("LIBRIS_ADMIN_PASSWORD"); v != "" {
		cfg.Auth.BootstrapAdmin.Password = v
	}
}

func (c Config) Validate() error {
	if c.Mode != "dev" && c.Mode != "release" {
		return fmt.Errorf("mode must be dev or release, got %q", c.Mode)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Auth.SessionTimeout <= 0 {
		return errors.New("auth.session_timeout must be > 0")
	}
	l := c.Library
	if l.LoanDays <= 0 || l.MaxActiveLoans <= 0 {
		return errors.New("library.loan_days and library.max_active_loans must be > 0")
	}
	if l.FineBlockThreshold < 0 || l.FinePerDay < 0 {
		return errors.New("library fines must be >= 0")
	}
	return nil
}
