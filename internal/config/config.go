// Package config loads crop-api settings from config.toml, a .env file and
// the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile = "config.toml"
	DotEnvFile     = ".env"
)

const (
	EnvHost           = "CROP_HOST"
	EnvPort           = "PORT"
	EnvModelPath      = "MODEL_PATH"
	EnvModelURL       = "MODEL_URL"
	EnvMetadataPath   = "MODEL_METADATA_PATH"
	EnvMetadataURL    = "MODEL_METADATA_URL"
	EnvRuntimeLibrary = "ONNXRUNTIME_LIB"
	EnvOpenWeatherKey = "OPENWEATHER_API_KEY"
	EnvOpenWeatherURL = "OPENWEATHER_BASE_URL"
	EnvDefaultCity    = "DEFAULT_CITY"
)

const (
	defaultPort         = 8080
	defaultModelPath    = "models/crop_disease.onnx"
	defaultMetadataPath = "models/crop_disease.json"
	defaultWeatherURL   = "https://api.openweathermap.org"
	defaultCity         = "Pune"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Model   ModelConfig   `toml:"model"`
	Weather WeatherConfig `toml:"weather"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the listen address, e.g. ":8080".
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ModelConfig struct {
	Path           string `toml:"path"`
	URL            string `toml:"url"`
	MetadataPath   string `toml:"metadata_path"`
	MetadataURL    string `toml:"metadata_url"`
	RuntimeLibrary string `toml:"runtime_library"`
}

type WeatherConfig struct {
	APIKey      string `toml:"api_key"`
	BaseURL     string `toml:"base_url"`
	DefaultCity string `toml:"default_city"`
}

// Load reads config.toml and .env from the working directory when present,
// then applies environment overrides and defaults.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile is Load with an explicit config path. A missing file is not an
// error; defaults and the environment then provide everything.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

func (c *Config) finalize() error {
	if err := c.loadEnv(); err != nil {
		return err
	}
	c.loadDefaults()
	return c.validate()
}

func (c *Config) loadEnv() error {
	setString(&c.Server.Host, EnvHost)
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	setString(&c.Model.Path, EnvModelPath)
	setString(&c.Model.URL, EnvModelURL)
	setString(&c.Model.MetadataPath, EnvMetadataPath)
	setString(&c.Model.MetadataURL, EnvMetadataURL)
	setString(&c.Model.RuntimeLibrary, EnvRuntimeLibrary)
	setString(&c.Weather.APIKey, EnvOpenWeatherKey)
	setString(&c.Weather.BaseURL, EnvOpenWeatherURL)
	setString(&c.Weather.DefaultCity, EnvDefaultCity)
	return nil
}

func (c *Config) loadDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Model.Path == "" {
		c.Model.Path = defaultModelPath
	}
	if c.Model.MetadataPath == "" {
		c.Model.MetadataPath = defaultMetadataPath
	}
	if c.Weather.BaseURL == "" {
		c.Weather.BaseURL = defaultWeatherURL
	}
	if c.Weather.DefaultCity == "" {
		c.Weather.DefaultCity = defaultCity
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
