package config

import (
	"fmt"
	"os"
	"path/filepath"

	pkgconfig "github.com/wekeepgrowing/shop-stripe/pkg/config"
	"github.com/wekeepgrowing/shop-stripe/pkg/logger"
	"gopkg.in/yaml.v3"
)

const serviceName = "shop"

type Config struct {
	Service  ServiceConfig  `yaml:"service" mapstructure:"service"`
	Stripe   StripeConfig   `yaml:"stripe" mapstructure:"stripe"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Redis    RedisConfig    `yaml:"redis" mapstructure:"redis"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      logger.Config  `yaml:"log" mapstructure:"log"`
	JWT      JWTConfig      `yaml:"jwt" mapstructure:"jwt"`
}

// LoadConfig reads the service configuration.
// When CONFIG_PATH names a file it is parsed directly; otherwise configs/<APP_ENV>/shop.yaml
// is loaded with SHOP_* environment overrides.
func LoadConfig() (*Config, error) {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return LoadFile(configPath)
		}
	}

	src, err := pkgconfig.Load(serviceName)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := src.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, cfg.Validate()
}

// LoadFile parses a single YAML config file.
func LoadFile(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, cfg.Validate()
}

// Validate checks the settings the checkout flow cannot run without.
func (c *Config) Validate() error {
	if c.Stripe.APIKey == "" {
		return fmt.Errorf("stripe.api_key is required")
	}
	if c.Stripe.PurchaseDescription == "" {
		return fmt.Errorf("stripe.purchase_description is required")
	}
	return nil
}
