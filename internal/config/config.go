package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr           string         `yaml:"addr"`
	JWTSecret      string         `yaml:"jwt_secret"`
	JWTIssuer      string         `yaml:"jwt_issuer"`
	APITimeout     time.Duration  `yaml:"timeout"`
	TokenDuration  time.Duration  `yaml:"token_duration"`
	MigrateOnStart bool           `yaml:"migrate_on_start"`
	Database       DatabaseConfig `yaml:"database"`
	Redis          RedisConfig    `yaml:"redis"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// RedisConfig enables server-side token revocation when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoadConfig builds the configuration from, in increasing precedence:
// built-in defaults, a .env file in the working directory, JOBTRACKER_*
// environment variables and the YAML file at path (when not empty).
func LoadConfig(path string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnv("JOBTRACKER_ADDR", ":8080"),
		JWTSecret:      getEnv("JOBTRACKER_JWT_SECRET", insecureJWTSecret),
		JWTIssuer:      getEnv("JOBTRACKER_JWT_ISSUER", "jobtracker"),
		APITimeout:     15 * time.Second,
		TokenDuration:  1 * time.Hour,
		MigrateOnStart: true,
		Database: DatabaseConfig{
			Driver: getEnv("JOBTRACKER_DATABASE_DRIVER", "sqlite"),
			DSN:    getEnv("JOBTRACKER_DATABASE_DSN", "jobtracker.db"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("JOBTRACKER_REDIS_ADDR"),
			Password: os.Getenv("JOBTRACKER_REDIS_PASSWORD"),
		},
	}

	var err error
	if cfg.APITimeout, err = getEnvDuration("JOBTRACKER_TIMEOUT", cfg.APITimeout); err != nil {
		return nil, err
	}
	if cfg.TokenDuration, err = getEnvDuration("JOBTRACKER_TOKEN_DURATION", cfg.TokenDuration); err != nil {
		return nil, err
	}
	if cfg.MigrateOnStart, err = getEnvBool("JOBTRACKER_MIGRATE_ON_START", cfg.MigrateOnStart); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getEnvInt("JOBTRACKER_REDIS_DB", 0); err != nil {
		return nil, err
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate rejects configurations the server cannot run with. The default
// JWT secret is only accepted when JOBTRACKER_ENV=development.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	} else if c.JWTSecret == insecureJWTSecret && os.Getenv("JOBTRACKER_ENV") != "development" {
		errs = append(errs, errors.New("jwt_secret uses the insecure default; set JOBTRACKER_JWT_SECRET"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported (sqlite, postgres)", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, errors.New("redis.db must not be negative"))
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
