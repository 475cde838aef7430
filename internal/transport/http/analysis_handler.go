package http

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "mepscan/internal/errors"
	"mepscan/internal/services"
)

// Multipart field names for the analysis upload.
const (
	fieldLocalFile     = "local"
	fieldForeignFile   = "foreign"
	fieldReferenceRate = "reference_rate"
	fieldView          = "view"
)

// AnalysisHandler handles analysis HTTP requests
type AnalysisHandler struct {
	service      *services.AnalysisService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *services.AnalysisService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "analysis")),
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// RegisterRoutes registers the analysis routes
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Route("/analysis", func(r chi.Router) {
		r.Post("/", h.Analyze)
		r.Get("/defaults", h.Defaults)
	})
}

// Defaults returns the initial parameters a client should present.
func (h *AnalysisHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Defaults())
}

// Analyze runs one analysis over a multipart upload carrying the peso
// file, the dollar file, and the reference rate.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Two workbooks plus form overhead; anything larger is rejected
	// before buffering.
	maxBytes := 2*h.service.MaxUploadBytes() + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	localFile, err := h.readUpload(r, fieldLocalFile)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	foreignFile, err := h.readUpload(r, fieldForeignFile)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	referenceRate, err := h.referenceRate(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Analyze(ctx, services.AnalysisRequest{
		LocalFile:     localFile,
		ForeignFile:   foreignFile,
		ReferenceRate: referenceRate,
		View:          r.FormValue(fieldView),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, report)
}

// readUpload buffers one uploaded workbook, enforcing the per-file cap.
func (h *AnalysisHandler) readUpload(r *http.Request, field string) ([]byte, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, apierrors.ErrValidation(field, "file is required")
	}
	defer file.Close()

	max := h.service.MaxUploadBytes()
	if header.Size > max {
		return nil, apierrors.ErrPayloadTooLarge
	}

	data, err := readAll(file, max)
	if err != nil {
		return nil, apierrors.ErrUnreadableFile(err)
	}
	if len(data) == 0 {
		return nil, apierrors.ErrValidation(field, "file is empty")
	}
	return data, nil
}

// referenceRate parses the reference-rate field, falling back to the
// configured default when the field is absent.
func (h *AnalysisHandler) referenceRate(r *http.Request) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(fieldReferenceRate))
	if raw == "" {
		return h.service.Defaults().ReferenceRate, nil
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apierrors.ErrValidation(fieldReferenceRate, "must be a number")
	}
	if rate <= 0 {
		return 0, apierrors.ErrValidation(fieldReferenceRate, "must be positive")
	}
	return rate, nil
}

func readAll(file multipart.File, max int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(file, max+1))
}
