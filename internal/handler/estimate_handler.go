package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/hiking-duration-go/internal/analysis"
	"github.com/jengzang/hiking-duration-go/internal/gpx"
	"github.com/jengzang/hiking-duration-go/internal/models"
	"github.com/jengzang/hiking-duration-go/internal/service"
	"github.com/jengzang/hiking-duration-go/pkg/response"
)

// UploadField is the multipart field carrying the GPX document
const UploadField = "file"

const noElevationMessage = "There is no elevation data in this GPX file"

var errUploadTooLarge = errors.New("upload too large")

// EstimateHandler handles the JSON estimate API
type EstimateHandler struct {
	estimateService *service.EstimateService
	maxUploadBytes  int64
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(estimateService *service.EstimateService, maxUploadBytes int64) *EstimateHandler {
	return &EstimateHandler{
		estimateService: estimateService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Estimate handles POST /api/v1/estimate
func (h *EstimateHandler) Estimate(c *gin.Context) {
	var req models.EstimateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.estimateService.Estimate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// AnalyzeTrace handles POST /api/v1/traces/analyze
func (h *EstimateHandler) AnalyzeTrace(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := h.estimateService.AnalyzeTrace(c.Request.Context(), data)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// EstimateTrace handles POST /api/v1/traces/estimate
func (h *EstimateHandler) EstimateTrace(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	// Margin is a fraction here, as in the JSON body
	overrides, err := parseOverrides(c, 1)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.estimateService.EstimateTrace(c.Request.Context(), data, overrides)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// readUpload reads the GPX upload, writing the error response itself when it fails
func (h *EstimateHandler) readUpload(c *gin.Context) ([]byte, bool) {
	data, err := readFormFile(c, UploadField, h.maxUploadBytes)
	switch {
	case err == nil:
		return data, true
	case errors.Is(err, errUploadTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("GPX file exceeds %d bytes", h.maxUploadBytes))
	case errors.Is(err, http.ErrMissingFile):
		response.BadRequest(c, fmt.Sprintf("Missing multipart field '%s'", UploadField))
	default:
		response.BadRequest(c, "Invalid upload: "+err.Error())
	}
	return nil, false
}

// readFormFile reads a multipart file of at most limit bytes
func readFormFile(c *gin.Context, field string, limit int64) ([]byte, error) {
	if limit > 0 {
		if c.Request.ContentLength > limit {
			return nil, errUploadTooLarge
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	fh, err := c.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errUploadTooLarge
		}
		return nil, err
	}
	if limit > 0 && fh.Size > limit {
		return nil, errUploadTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// parseOverrides reads the optional speed fields. The margin field is divided by marginScale.
func parseOverrides(c *gin.Context, marginScale float64) (models.SpeedOverrides, error) {
	var o models.SpeedOverrides
	var err error

	if o.PosVertSpeed, err = optionalFloat(c, "pos_vert_speed"); err != nil {
		return o, err
	}
	if o.NegVertSpeed, err = optionalFloat(c, "neg_vert_speed"); err != nil {
		return o, err
	}
	if o.HorizSpeed, err = optionalFloat(c, "horiz_speed"); err != nil {
		return o, err
	}
	if o.Margin, err = optionalFloat(c, "margin"); err != nil {
		return o, err
	}
	if o.Margin != nil {
		m := *o.Margin / marginScale
		o.Margin = &m
	}
	return o, nil
}

// optionalFloat returns nil for a missing or blank form field
func optionalFloat(c *gin.Context, field string) (*float64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: '%s' is not a number", field, raw)
	}
	return &v, nil
}

// statusFor maps service errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidParameter), errors.Is(err, gpx.ErrInvalidGPX):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrNoElevation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the envelope for a service error
func writeError(c *gin.Context, err error) {
	switch status := statusFor(err); status {
	case http.StatusUnprocessableEntity:
		response.Unprocessable(c, noElevationMessage)
	case http.StatusInternalServerError:
		_ = c.Error(err)
		response.InternalError(c, "Failed to compute estimate")
	default:
		response.Error(c, status, err.Error())
	}
}
