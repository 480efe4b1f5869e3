// Package infrastructure assembles the process-lifetime pieces shared by the
// server and the CLI: the downloaded artifacts, the loaded classifier and the
// diagnosis service built on top of it.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Brownie44l1/crop-api/internal/advisory"
	"github.com/Brownie44l1/crop-api/internal/artifact"
	"github.com/Brownie44l1/crop-api/internal/config"
	"github.com/Brownie44l1/crop-api/internal/diagnosis"
	"github.com/Brownie44l1/crop-api/internal/model"
	"github.com/Brownie44l1/crop-api/internal/weather"
)

type Infrastructure struct {
	Logger     *slog.Logger
	Classifier *model.Classifier
	Diagnosis  *diagnosis.Service
}

// New downloads any missing artifacts, loads the classifier once and wires the
// diagnosis service. Any failure here is fatal for the caller.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	if err := PrepareArtifacts(ctx, &cfg.Model, http.DefaultClient, logger); err != nil {
		return nil, err
	}

	meta, err := model.LoadMetadata(cfg.Model.MetadataPath)
	if err != nil {
		return nil, fmt.Errorf("metadata load failed: %w", err)
	}

	logger.Info("loading model", "path", cfg.Model.Path, "image_size", meta.ImageSize, "classes", len(meta.Classes))
	classifier, err := model.Load(cfg.Model.Path, cfg.Model.RuntimeLibrary, meta)
	if err != nil {
		return nil, fmt.Errorf("model load failed: %w", err)
	}
	logger.Info("model loaded")

	lookup := weather.NewClient(cfg.Weather.APIKey, weather.WithBaseURL(cfg.Weather.BaseURL))
	service := diagnosis.NewService(classifier, lookup, advisory.DefaultTable(), cfg.Weather.DefaultCity, logger)

	return &Infrastructure{
		Logger:     logger,
		Classifier: classifier,
		Diagnosis:  service,
	}, nil
}

func (i *Infrastructure) Close() {
	i.Classifier.Close()
}

// PrepareArtifacts fetches the model, and the metadata sidecar when a URL is
// configured for it, if they are not already on disk.
func PrepareArtifacts(ctx context.Context, cfg *config.ModelConfig, client *http.Client, logger *slog.Logger) error {
	logger.Info("checking model artifact", "path", cfg.Path)
	downloaded, err := artifact.Ensure(ctx, client, cfg.Path, cfg.URL)
	if err != nil {
		return fmt.Errorf("model download failed: %w", err)
	}
	if downloaded {
		logger.Info("model downloaded", "path", cfg.Path, "url", cfg.URL)
	}

	if cfg.MetadataURL == "" {
		return nil
	}
	downloaded, err = artifact.Ensure(ctx, client, cfg.MetadataPath, cfg.MetadataURL)
	if err != nil {
		return fmt.Errorf("metadata download failed: %w", err)
	}
	if downloaded {
		logger.Info("metadata downloaded", "path", cfg.MetadataPath, "url", cfg.MetadataURL)
	}
	return nil
}
