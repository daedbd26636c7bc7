package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"LifeSupport/internal/engine"
	"LifeSupport/internal/logging"
	"LifeSupport/internal/model"
)

//go:embed config.schema.json
var schemaSource string

// DefaultStockLevel seeds every resource when initial_stock is omitted.
const DefaultStockLevel = 100

// Config holds all application configuration.
type Config struct {
	Habitat struct {
		Residents int `yaml:"residents"`
		Farms     int `yaml:"farms"`
		// InitialStock stays loosely typed until InitialStock() converts it.
		InitialStock map[string]any `yaml:"initial_stock"`
	} `yaml:"habitat"`
	Simulation struct {
		Days int `yaml:"days"`
	} `yaml:"simulation"`
	Schedule struct {
		DayCron string `yaml:"day_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	History struct {
		Dir string `yaml:"dir"`
	} `yaml:"history"`
	State struct {
		File string `yaml:"file"`
	} `yaml:"state"`
	LogLevel string `yaml:"log_level"`

	// daysSet records an explicit simulation.days or SIM_DAYS, zero included.
	daysSet bool
}

// DefaultDays is the simulation length when none is configured.
const DefaultDays = 30

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := checkSchema(data); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		var present struct {
			Simulation struct {
				Days *int `yaml:"days"`
			} `yaml:"simulation"`
		}
		if err := yaml.Unmarshal(data, &present); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		cfg.daysSet = present.Simulation.Days != nil
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Defaults
	if cfg.Habitat.InitialStock == nil {
		cfg.Habitat.InitialStock = map[string]any{}
		for _, k := range model.Kinds {
			cfg.Habitat.InitialStock[k.String()] = DefaultStockLevel
		}
	}
	if !cfg.daysSet {
		cfg.Simulation.Days = DefaultDays
	}
	if cfg.Schedule.DayCron == "" {
		cfg.Schedule.DayCron = "0 0 * * * *"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	ints := []struct {
		env string
		dst *int
		set *bool
	}{
		{"HABITAT_RESIDENTS", &c.Habitat.Residents, nil},
		{"HABITAT_FARMS", &c.Habitat.Farms, nil},
		{"SIM_DAYS", &c.Simulation.Days, &c.daysSet},
	}
	for _, o := range ints {
		v, ok := os.LookupEnv(o.env)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("env %s: %w", o.env, err)
		}
		*o.dst = n
		if o.set != nil {
			*o.set = true
		}
	}

	if v := os.Getenv("CRON_DAY"); v != "" {
		c.Schedule.DayCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("HISTORY_DIR"); v != "" {
		c.History.Dir = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		c.State.File = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// checkSchema validates the document's shape before it is decoded.
func checkSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	// Round-trip through JSON so the validator sees JSON-native types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	schema, err := jsonschema.CompileString("config.schema.json", schemaSource)
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	return nil
}

// Validate checks value ranges that the schema cannot see after env overrides.
func (c *Config) Validate() error {
	if c.Habitat.Residents < 0 {
		return fmt.Errorf("habitat.residents: %w: %d", engine.ErrNegativePopulation, c.Habitat.Residents)
	}
	if c.Habitat.Farms < 0 {
		return fmt.Errorf("habitat.farms: %w: %d", engine.ErrNegativePopulation, c.Habitat.Farms)
	}
	if c.Simulation.Days < 0 {
		return fmt.Errorf("simulation.days: %w: %d", engine.ErrNegativeDays, c.Simulation.Days)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// InitialStock converts the configured starting stock.
func (c *Config) InitialStock() (model.Stock, error) {
	s, err := model.ParseStock(c.Habitat.InitialStock)
	if err != nil {
		return model.Stock{}, fmt.Errorf("habitat.initial_stock: %w", err)
	}
	return s, nil
}
