package config

import (
	"os"
	"path/filepath"
	"testing"
)

var envKeys = []string{
	EnvHost, EnvPort, EnvModelPath, EnvModelURL, EnvMetadataPath, EnvMetadataURL,
	EnvRuntimeLibrary, EnvOpenWeatherKey, EnvOpenWeatherURL, EnvDefaultCity,
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Addr() != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr())
	}
	if cfg.Model.Path != defaultModelPath {
		t.Errorf("model path = %q", cfg.Model.Path)
	}
	if cfg.Weather.BaseURL != defaultWeatherURL {
		t.Errorf("weather base url = %q", cfg.Weather.BaseURL)
	}
	if cfg.Weather.DefaultCity != "Pune" {
		t.Errorf("default city = %q", cfg.Weather.DefaultCity)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9090

[model]
path = "/srv/models/leaf.onnx"
url = "https://example.com/leaf.onnx"

[weather]
api_key = "from-file"
default_city = "Nagpur"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Addr() != "127.0.0.1:9090" {
		t.Errorf("addr = %q", cfg.Server.Addr())
	}
	if cfg.Model.Path != "/srv/models/leaf.onnx" || cfg.Model.URL != "https://example.com/leaf.onnx" {
		t.Errorf("model = %+v", cfg.Model)
	}
	if cfg.Model.MetadataPath != defaultMetadataPath {
		t.Errorf("metadata path = %q, want default", cfg.Model.MetadataPath)
	}
	if cfg.Weather.APIKey != "from-file" || cfg.Weather.DefaultCity != "Nagpur" {
		t.Errorf("weather = %+v", cfg.Weather)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "7000")
	t.Setenv(EnvOpenWeatherKey, "from-env")
	t.Setenv(EnvModelURL, "https://mirror.example.com/leaf.onnx")

	path := writeConfig(t, `
[server]
port = 9090

[model]
url = "https://example.com/leaf.onnx"

[weather]
api_key = "from-file"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Weather.APIKey != "from-env" {
		t.Errorf("api key = %q, want from-env", cfg.Weather.APIKey)
	}
	if cfg.Model.URL != "https://mirror.example.com/leaf.onnx" {
		t.Errorf("model url = %q", cfg.Model.URL)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("bad toml", func(t *testing.T) {
		clearEnv(t)
		if _, err := LoadFile(writeConfig(t, "[server\nport = ")); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("bad port env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvPort, "http")
		if _, err := LoadFile(""); err == nil {
			t.Error("expected port error")
		}
	})

	t.Run("port out of range", func(t *testing.T) {
		clearEnv(t)
		if _, err := LoadFile(writeConfig(t, "[server]\nport = 70000\n")); err == nil {
			t.Error("expected validation error")
		}
	})
}
