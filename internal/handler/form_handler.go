package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/hiking-duration-go/internal/analysis"
	"github.com/jengzang/hiking-duration-go/internal/models"
	"github.com/jengzang/hiking-duration-go/internal/service"
)

// FormTemplate is the template rendered by the form handler
const FormTemplate = "index.html"

// FormUploadField is the optional GPX upload of the HTML form
const FormUploadField = "gpx_file"

var formFields = []string{
	"pos_vert_len", "neg_vert_len", "horiz_len",
	"pos_vert_speed", "neg_vert_speed", "horiz_speed", "margin",
}

// FormView is the data passed to the form template
type FormView struct {
	Values      map[string]string
	Result      *models.EstimateResult
	Error       string
	NoElevation bool
}

// FormHandler serves the HTML estimate form
type FormHandler struct {
	estimateService *service.EstimateService
	maxUploadBytes  int64
}

// NewFormHandler creates a new form handler
func NewFormHandler(estimateService *service.EstimateService, maxUploadBytes int64) *FormHandler {
	return &FormHandler{
		estimateService: estimateService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Show handles GET /
func (h *FormHandler) Show(c *gin.Context) {
	view := FormView{Values: map[string]string{}}
	h.fillDefaults(view.Values)
	c.HTML(http.StatusOK, FormTemplate, view)
}

// Submit handles POST /
func (h *FormHandler) Submit(c *gin.Context) {
	view := FormView{Values: map[string]string{}}
	ctx := c.Request.Context()

	// The upload is read first so the body size limit applies to the whole form
	data, hasFile, err := h.optionalUpload(c)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errUploadTooLarge) {
			status = http.StatusRequestEntityTooLarge
			err = fmt.Errorf("GPX file exceeds %d bytes", h.maxUploadBytes)
		}
		h.fillDefaults(view.Values)
		h.render(c, status, view, err)
		return
	}

	for _, field := range formFields {
		view.Values[field] = strings.TrimSpace(c.PostForm(field))
	}
	h.fillDefaults(view.Values)

	// Margin is entered in percent
	overrides, err := parseOverrides(c, 100)
	if err != nil {
		h.render(c, http.StatusBadRequest, view, err)
		return
	}

	if hasFile {
		result, err := h.estimateService.EstimateTrace(ctx, data, overrides)
		switch {
		case err == nil:
			view.Values["pos_vert_len"] = formatFloat(result.Parameters.PosVertLen, 0)
			view.Values["neg_vert_len"] = formatFloat(result.Parameters.NegVertLen, 0)
			view.Values["horiz_len"] = formatFloat(result.Parameters.HorizLen, 2)
			view.Result = result
			h.render(c, http.StatusOK, view, nil)
			return
		case errors.Is(err, analysis.ErrNoElevation):
			// Fall back to the lengths typed in the form
			view.NoElevation = true
		default:
			h.render(c, statusFor(err), view, err)
			return
		}
	}

	req, err := manualRequest(c, overrides)
	if err != nil {
		status := http.StatusBadRequest
		if view.NoElevation {
			status = http.StatusUnprocessableEntity
			err = nil
		}
		h.render(c, status, view, err)
		return
	}

	result, err := h.estimateService.Estimate(ctx, req)
	if err != nil {
		h.render(c, statusFor(err), view, err)
		return
	}

	view.Result = result
	h.render(c, http.StatusOK, view, nil)
}

func (h *FormHandler) render(c *gin.Context, status int, view FormView, err error) {
	if err != nil {
		view.Error = err.Error()
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
			view.Error = "Failed to compute estimate"
		}
	}
	c.HTML(status, FormTemplate, view)
}

// fillDefaults pre-fills blank speed fields with the configured defaults
func (h *FormHandler) fillDefaults(values map[string]string) {
	d := h.estimateService.Defaults()
	defaults := map[string]float64{
		"pos_vert_speed": d.PosVertSpeed,
		"neg_vert_speed": d.NegVertSpeed,
		"horiz_speed":    d.HorizSpeed,
		"margin":         d.MarginPercent,
	}
	for field, v := range defaults {
		if values[field] == "" {
			values[field] = formatFloat(v, -1)
		}
	}
}

// optionalUpload reads the GPX upload if the form carries one
func (h *FormHandler) optionalUpload(c *gin.Context) ([]byte, bool, error) {
	data, err := readFormFile(c, FormUploadField, h.maxUploadBytes)
	switch {
	case err == nil:
		return data, true, nil
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// manualRequest builds an estimate request from the typed lengths
func manualRequest(c *gin.Context, o models.SpeedOverrides) (models.EstimateRequest, error) {
	req := models.EstimateRequest{
		PosVertSpeed: o.PosVertSpeed,
		NegVertSpeed: o.NegVertSpeed,
		HorizSpeed:   o.HorizSpeed,
		Margin:       o.Margin,
	}

	var err error
	if req.PosVertLen, err = requiredFloat(c, "pos_vert_len"); err != nil {
		return req, err
	}
	if req.NegVertLen, err = requiredFloat(c, "neg_vert_len"); err != nil {
		return req, err
	}
	if req.HorizLen, err = requiredFloat(c, "horiz_len"); err != nil {
		return req, err
	}
	return req, nil
}

func requiredFloat(c *gin.Context, field string) (*float64, error) {
	v, err := optionalFloat(c, field)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%s is required", field)
	}
	return v, nil
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
