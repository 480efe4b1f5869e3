package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/Brownie44l1/crop-api/internal/diagnosis"
	"github.com/google/uuid"
)

// MaxUploadSize caps the multipart body of a submission.
const MaxUploadSize = 10 << 20

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type Diagnoser interface {
	Run(ctx context.Context, req diagnosis.Request) (*diagnosis.Report, error)
}

type Handler struct {
	diagnoser   Diagnoser
	defaultCity string
	logger      *slog.Logger
}

type pageData struct {
	City   string
	Report *diagnosis.Report
}

func NewHandler(diagnoser Diagnoser, defaultCity string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		diagnoser:   diagnoser,
		defaultCity: defaultCity,
		logger:      logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// Index serves the upload form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, pageData{City: h.defaultCity})
}

// Submit runs a form submission and renders the report below the form.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	report, city, ok := h.run(w, r)
	if !ok {
		return
	}
	if city == "" {
		city = h.defaultCity
	}
	h.renderPage(w, pageData{City: city, Report: report})
}

// Diagnose runs a submission and answers with the plain-text report.
func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	report, _, ok := h.run(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, report.String())
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) (*diagnosis.Report, string, bool) {
	requestID := uuid.NewString()
	logger := h.logger.With("request_id", requestID)
	w.Header().Set("X-Request-ID", requestID)

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	if err := r.ParseMultipartForm(MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		logger.Warn("failed to parse form", "error", err)
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return nil, "", false
	}

	req := diagnosis.Request{City: r.FormValue("city")}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		logger.Info("received file", "filename", header.Filename, "size", header.Size)
		req.Image = file
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		logger.Info("no image uploaded")
	default:
		logger.Warn("failed to read upload", "error", err)
		http.Error(w, "Failed to read uploaded image", http.StatusBadRequest)
		return nil, "", false
	}

	report, err := h.diagnoser.Run(r.Context(), req)
	if err != nil {
		logger.Error("prediction error", "error", err)
		http.Error(w, "Prediction failed", http.StatusInternalServerError)
		return nil, "", false
	}

	logger.Info("diagnosis complete", "disease", report.Disease, "warnings", len(report.Warnings()))
	return report, req.City, true
}

func (h *Handler) renderPage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Error("template render failed", "error", err)
	}
}
