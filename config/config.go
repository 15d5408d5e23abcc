package config

import (
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"
)

// ServiceConfig holds the configuration for the service.
type ServiceConfig struct {
	ServiceName    string    `yaml:"service_name" validate:"required"`
	LogLevel       string    `yaml:"loglevel" validate:"required"`
	Host           string    `yaml:"host" validate:"required"`
	Port           string    `yaml:"port" validate:"required"`
	PrivateKeyPath string    `yaml:"private_key_path" validate:"required"`
	RateLimit      RateLimit `yaml:"rate_limit"`
	Database       Database  `yaml:"database" validate:"required"`
}

// RateLimit bounds the request rate on the auth routes.
type RateLimit struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type Database struct {
	Type string `yaml:"type" validate:"required,oneof=mongo postgres"`
	// For MongoDB
	MongoDB MongoDBConfig `yaml:"mongodb_config" validate:"omitempty"`
	// For PostgreSQL
	Postgres PostgresConfig `yaml:"postgres_config" validate:"omitempty"`
}

// MongoDBConfig holds the MongoDB backend configuration.
type MongoDBConfig struct {
	DSN              string             `yaml:"dsn"`
	Timeout          time.Duration      `yaml:"timeout"`
	Options          MongoServerOptions `yaml:"mongo_server_options"`
	ValidCollections []string           `yaml:"valid_collections"`
	ValidFields      []string           `yaml:"valid_fields"`
}

// PostgresConfig holds the PostgreSQL backend configuration.
type PostgresConfig struct {
	DSN     string                `yaml:"dsn"`
	Options PostgresServerOptions `yaml:"postgres_server_options"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

type PostgresServerOptions struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// ReadLocalConfig reads the service configuration from a YAML file at the specified path.
// It unmarshals the YAML content into a ServiceConfig struct and returns it.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := &ServiceConfig{}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// BuildServerAPIOptions maps the configured server options onto the driver's type.
func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	if cfg.APIVersion == "" {
		return nil
	}
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}

// ListToMap converts a list of names into a membership set.
func ListToMap(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range list {
		result[item] = true
	}
	return result
}
