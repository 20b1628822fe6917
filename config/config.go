/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/denormfield/errors"
	"github.com/suparena/denormfield/registry"
)

// Config describes a database and the denormalisation bindings to maintain,
// for tooling that operates without the owning application's Go types.
type Config struct {
	Database Database  `yaml:"database"`
	Users    Users     `yaml:"users"`
	Bindings []Binding `yaml:"bindings"`
}

// Database names the database/sql driver and DSN to open.
type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Users maps the canonical user table.
type Users struct {
	Table          string `yaml:"table"`
	IDColumn       string `yaml:"id_column"`
	UsernameColumn string `yaml:"username_column"`
}

// Binding is one denormalised username column.
type Binding struct {
	Table     string `yaml:"table"`
	Source    string `yaml:"source"`
	Target    string `yaml:"target"`
	MaxLength int    `yaml:"max_length"`
	KeyColumn string `yaml:"key_column"`
}

// Load reads a YAML config file. A .env file next to the process, when
// present, is loaded first so ${VAR} references in the DSN can resolve.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite3"
	}
	c.Database.DSN = os.ExpandEnv(c.Database.DSN)

	if c.Users.Table == "" {
		c.Users.Table = "users"
	}
	if c.Users.IDColumn == "" {
		c.Users.IDColumn = "id"
	}
	if c.Users.UsernameColumn == "" {
		c.Users.UsernameColumn = "username"
	}
}

func (c *Config) validate() error {
	if c.Database.DSN == "" {
		return errors.NewValidationError("database.dsn", "required")
	}
	if len(c.Bindings) == 0 {
		return errors.NewValidationError("bindings", "at least one binding is required")
	}
	for i, b := range c.Bindings {
		if b.Table == "" {
			return errors.NewValidationError(fmt.Sprintf("bindings[%d].table", i), "required")
		}
		if b.Target == "" {
			return errors.NewValidationError(fmt.Sprintf("bindings[%d].target", i), "required")
		}
		if b.MaxLength < 0 {
			return errors.NewValidationError(fmt.Sprintf("bindings[%d].max_length", i), "must be positive")
		}
	}
	return nil
}

// Registry builds a binding registry from the configured bindings,
// in file order.
func (c *Config) Registry() (*registry.Registry, error) {
	r := registry.New()
	for _, b := range c.Bindings {
		if err := r.Add(registry.Binding{
			Table:     b.Table,
			Source:    b.Source,
			Target:    b.Target,
			MaxLength: b.MaxLength,
		}); err != nil {
			return nil, err
		}
	}
	return r, nil
}
