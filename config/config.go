/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the service configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	AWS     AWSConfig     `yaml:"aws"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type AWSConfig struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	TableName string `yaml:"table_name"`
}

type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `yaml:"level"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence. A `.env` file
// in the working directory is loaded first so local development matches the
// deployed environment-variable surface.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("AWS_ACCESS_KEY"); v != "" {
		c.AWS.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_KEY"); v != "" {
		c.AWS.SecretKey = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.AWS.Region = v
	}
	if v := os.Getenv("AWS_DDB_TABLE"); v != "" {
		c.AWS.TableName = v
	}
	// Name used by earlier deployments of the table.
	if v := os.Getenv("PIPE_QUEUE_TABLE_NAME"); v != "" && c.AWS.TableName == "" {
		c.AWS.TableName = v
	}
	if v := os.Getenv("PIPE_QUEUE_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PIPE_QUEUE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("PIPE_QUEUE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) validate() error {
	if c.AWS.TableName == "" {
		return fmt.Errorf("no table name configured: set aws.table_name or AWS_DDB_TABLE")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
