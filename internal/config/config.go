package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yigit/learnhub/internal/pkg/payment"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port      string `yaml:"port" env:"SERVER_PORT"`
		Mode      string `yaml:"mode" env:"SERVER_MODE"`
		ClientURL string `yaml:"client_url" env:"CLIENT_URL"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
	} `yaml:"database"`

	JWT struct {
		Secret          string `yaml:"secret" env:"SECRET_KEY"`
		TokenExpiration string `yaml:"token_expiration" env:"JWT_TOKEN_EXPIRATION"`
		Issuer          string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Cookie struct {
		Name   string `yaml:"name" env:"COOKIE_NAME"`
		MaxAge string `yaml:"max_age" env:"COOKIE_MAX_AGE"`
		Domain string `yaml:"domain" env:"COOKIE_DOMAIN"`
	} `yaml:"cookie"`

	Stripe struct {
		SecretKey        string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
		WebhookSecret    string `yaml:"webhook_secret" env:"WEBHOOK_ENDPOINT_SECRET"`
		Currency         string `yaml:"currency" env:"STRIPE_CURRENCY"`
		AllowedCountries string `yaml:"allowed_countries" env:"STRIPE_ALLOWED_COUNTRIES"`
	} `yaml:"stripe"`

	Purchase struct {
		UnlockLecturesGlobally bool `yaml:"unlock_lectures_globally" env:"PURCHASE_UNLOCK_LECTURES_GLOBALLY"`
	} `yaml:"purchase"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a YAML file, an optional .env file and environment variables.
// Precedence: environment > .env > YAML > defaults.
func LoadConfig(configPath, envPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if envPath != "" {
		// godotenv never overrides variables that are already set in the process
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ClientURL = "http://localhost:5173"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "learnhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"
	config.Database.Seed = true

	config.JWT.TokenExpiration = "168h"
	config.JWT.Issuer = "learnhub.app"

	config.Cookie.Name = "token"
	config.Cookie.MaxAge = "24h"

	config.Stripe.Currency = "inr"
	config.Stripe.AllowedCountries = "IN"

	config.Purchase.UnlockLecturesGlobally = true

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.TokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Cookie.MaxAge); err != nil {
		return fmt.Errorf("invalid cookie max age format: %w", err)
	}

	if config.IsProduction() {
		if config.Stripe.SecretKey == "" {
			return fmt.Errorf("stripe secret key is required in production")
		}
		if config.Stripe.WebhookSecret == "" {
			return fmt.Errorf("stripe webhook endpoint secret is required in production")
		}
	}

	if !payment.SupportsCurrency(config.Stripe.Currency) {
		return fmt.Errorf("stripe currency %q is not supported: only two-decimal currencies can be charged", config.Stripe.Currency)
	}

	if len(config.AllowedCountries()) == 0 {
		return fmt.Errorf("at least one allowed country is required")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// AllowedCountries splits the comma separated country list
func (c *Config) AllowedCountries() []string {
	var countries []string
	for _, country := range strings.Split(c.Stripe.AllowedCountries, ",") {
		if country = strings.ToUpper(strings.TrimSpace(country)); country != "" {
			countries = append(countries, country)
		}
	}
	return countries
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
