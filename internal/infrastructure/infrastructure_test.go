package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Brownie44l1/crop-api/internal/artifact"
	"github.com/Brownie44l1/crop-api/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPrepareArtifacts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/model.onnx":
			w.Write([]byte("onnx"))
		case "/model.json":
			w.Write([]byte(`{"classes":["a","b"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	dir := t.TempDir()
	cfg := &config.ModelConfig{
		Path:         filepath.Join(dir, "model.onnx"),
		URL:          ts.URL + "/model.onnx",
		MetadataPath: filepath.Join(dir, "model.json"),
		MetadataURL:  ts.URL + "/model.json",
	}

	if err := PrepareArtifacts(context.Background(), cfg, ts.Client(), discardLogger()); err != nil {
		t.Fatalf("PrepareArtifacts failed: %v", err)
	}

	for _, path := range []string{cfg.Path, cfg.MetadataPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s missing: %v", path, err)
		}
	}
}

func TestPrepareArtifactsSkipsMetadataWithoutURL(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.ModelConfig{
		Path:         filepath.Join(dir, "model.onnx"),
		MetadataPath: filepath.Join(dir, "model.json"),
	}
	if err := os.WriteFile(cfg.Path, []byte("onnx"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := PrepareArtifacts(context.Background(), cfg, nil, discardLogger()); err != nil {
		t.Fatalf("PrepareArtifacts failed: %v", err)
	}
	if _, err := os.Stat(cfg.MetadataPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("metadata should not be created, stat err = %v", err)
	}
}

func TestPrepareArtifactsModelFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	cfg := &config.ModelConfig{
		Path: filepath.Join(t.TempDir(), "model.onnx"),
		URL:  ts.URL + "/model.onnx",
	}

	err := PrepareArtifacts(context.Background(), cfg, ts.Client(), discardLogger())
	if !errors.Is(err, artifact.ErrStatus) {
		t.Fatalf("got %v, want ErrStatus", err)
	}
}
