// Package diagnosis runs one leaf submission through classification, weather
// lookup and advice selection.
package diagnosis

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"strings"

	"github.com/Brownie44l1/crop-api/internal/advisory"
	"github.com/Brownie44l1/crop-api/internal/model"
	"github.com/Brownie44l1/crop-api/internal/weather"
)

const (
	MsgNoImage          = "Please upload an image first!"
	MsgBadImage         = "Could not read the uploaded image. Supported formats: JPEG, PNG."
	MsgWeatherFailed    = "Unable to fetch weather info. Check your API key or city name."
	predictedLineFormat = "Predicted Disease: %s"
)

type Classifier interface {
	Classify(img image.Image) (model.Prediction, error)
}

type WeatherSource interface {
	Current(ctx context.Context, city string) (weather.Reading, error)
}

// Request is one user submission. A nil Image means nothing was uploaded.
type Request struct {
	Image io.Reader
	City  string
}

type Service struct {
	classifier  Classifier
	weather     WeatherSource
	advice      advisory.Table
	defaultCity string
	logger      *slog.Logger
}

func NewService(classifier Classifier, lookup WeatherSource, advice advisory.Table, defaultCity string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		classifier:  classifier,
		weather:     lookup,
		advice:      advice,
		defaultCity: defaultCity,
		logger:      logger,
	}
}

// Run classifies the uploaded leaf, looks up weather for the city and picks a
// remedy. Missing or unreadable images and weather failures end up as warning
// lines in the report; only an inference failure is returned as an error.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	report := &Report{}

	if req.Image == nil {
		report.add(LevelWarning, MsgNoImage)
		return report, nil
	}

	img, format, err := image.Decode(req.Image)
	if err != nil {
		s.logger.Warn("image decode failed", "error", err)
		report.add(LevelWarning, MsgBadImage)
		return report, nil
	}
	s.logger.Debug("image decoded", "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	pred, err := s.classifier.Classify(img)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	s.logger.Info("leaf classified", "class", pred.Class, "index", pred.Index, "confidence", pred.Confidence)

	report.Disease = pred.Class
	report.add(LevelSuccess, fmt.Sprintf(predictedLineFormat, pred.Class))

	city := strings.TrimSpace(req.City)
	if city == "" {
		city = s.defaultCity
	}

	reading, err := s.weather.Current(ctx, city)
	if err != nil {
		s.logger.Warn("weather lookup failed", "city", city, "error", err)
		report.add(LevelWarning, MsgWeatherFailed)
	} else {
		report.Weather = &reading
		report.add(LevelInfo, reading.String())
	}

	report.add(LevelText, s.advice.Select(pred.Class).String())

	return report, nil
}
