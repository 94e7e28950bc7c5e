package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/wonny/partqc/internal/contracts"
	"github.com/wonny/partqc/internal/loader"
	"github.com/wonny/partqc/internal/presenter"
	"github.com/wonny/partqc/internal/quality"
	"github.com/wonny/partqc/pkg/logger"
)

// uploadField is the multipart form field carrying the inspection sheet
const uploadField = "file"

// InspectionHandler handles inspection API endpoints
// ⭐ SSOT: 검사 API 핸들러는 이 구조체에서만
type InspectionHandler struct {
	inspector      *quality.Inspector
	lenient        bool
	maxUploadBytes int64
	logger         *logger.Logger
}

// NewInspectionHandler creates a new inspection handler.
// lenient is the default mode; requests may override it with ?lenient=.
func NewInspectionHandler(
	inspector *quality.Inspector,
	lenient bool,
	maxUploadBytes int64,
	log *logger.Logger,
) *InspectionHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = loader.DefaultMaxBytes
	}
	return &InspectionHandler{
		inspector:      inspector,
		lenient:        lenient,
		maxUploadBytes: maxUploadBytes,
		logger:         log,
	}
}

// upload is a decoded request body
type upload struct {
	name    string
	records []contracts.RawRecord
}

// Create inspects the uploaded batch
// POST /api/inspections
func (h *InspectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lenient, err := h.lenientMode(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'lenient' parameter (expected true or false)")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	up, err := h.readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit")
			return
		}
		h.logger.WithError(err).Debug("Failed to read upload")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	insp, err := h.inspector.Inspect(ctx, quality.Request{
		Source:  up.name,
		Trigger: quality.TriggerAPI,
		Lenient: lenient,
		Records: up.records,
	})
	if err != nil {
		h.respondInspectError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, presenter.NewView(insp))
}

// RuleView describes one acceptance rule
type RuleView struct {
	Code    contracts.ViolationCode `json:"code"`
	Message string                  `json:"message"`
}

// GetRules lists the acceptance rules in evaluation order
// GET /api/rules
func (h *InspectionHandler) GetRules(w http.ResponseWriter, r *http.Request) {
	rules := quality.Rules()
	views := make([]RuleView, len(rules))
	for i, rule := range rules {
		views[i] = RuleView{Code: rule.Code, Message: rule.Message}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rules":               views,
		"alert_threshold_pct": quality.AlertRatePct,
	})
}

func (h *InspectionHandler) lenientMode(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("lenient")
	if raw == "" {
		return h.lenient, nil
	}
	return strconv.ParseBool(raw)
}

// readUpload decodes a raw body (format from Content-Type or ?format=)
// or the multipart field "file" (format from its content type or file name)
func (h *InspectionHandler) readUpload(r *http.Request) (*upload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile(uploadField)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		format, err := h.format(r, header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			return nil, err
		}
		records, err := loader.Decode(format, file)
		if err != nil {
			return nil, err
		}
		return &upload{name: header.Filename, records: records}, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	format, err := h.format(r, "", r.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	records, err := loader.Decode(format, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &upload{name: "upload." + string(format), records: records}, nil
}

func (h *InspectionHandler) format(r *http.Request, name, contentType string) (loader.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return loader.DetectFormat("upload."+f, "")
	}
	return loader.DetectFormat(name, contentType)
}

func (h *InspectionHandler) respondInspectError(w http.ResponseWriter, err error) {
	var inputErr *contracts.InputError
	switch {
	case errors.As(err, &inputErr):
		resp := ErrorResponse{Error: err.Error(), Field: inputErr.Field}
		if inputErr.Row >= 0 {
			row := inputErr.Row
			resp.Row = &row
		}
		respondJSON(w, http.StatusUnprocessableEntity, resp)
	case contracts.IsInvalidInput(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.WithError(err).Error("Inspection failed")
		respondError(w, http.StatusInternalServerError, "Inspection failed")
	}
}
