// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/valpere/mediasniff/internal/errors"
	"github.com/valpere/mediasniff/internal/media"
	"github.com/valpere/mediasniff/internal/monitoring"
	"github.com/valpere/mediasniff/internal/utils"
	publicapi "github.com/valpere/mediasniff/pkg/api"
)

const maxRequestBody = 1 << 20

// MediaParser discovers media on a page. *media.Parser implements it.
type MediaParser interface {
	Parse(ctx context.Context, pageURL string) (*media.Result, error)
}

// Recorder receives request-level metrics. *monitoring.MetricsManager implements it.
type Recorder interface {
	RecordParse(status string, duration time.Duration)
	RecordRateLimitHit()
}

type nopRecorder struct{}

func (nopRecorder) RecordParse(string, time.Duration) {}
func (nopRecorder) RecordRateLimitHit()               {}

type parseHandler struct {
	parser   MediaParser
	recorder Recorder
	logger   utils.Logger
}

func (h *parseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req publicapi.ParseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, publicapi.MessageURLRequired)
		return
	}

	start := time.Now()
	result, err := h.parser.Parse(r.Context(), req.URL)
	if err != nil {
		h.recorder.RecordParse(monitoring.ParseStatusError, time.Since(start))
		h.logger.WithFields(map[string]interface{}{
			"url":  req.URL,
			"code": errors.CodeOf(err),
		}).Errorf("parse failed: %v", err)
		writeError(w, http.StatusInternalServerError, errors.UserMessage(err))
		return
	}
	h.recorder.RecordParse(monitoring.ParseStatusSuccess, time.Since(start))

	if result == nil || result.Data == nil {
		result = &media.Result{Data: []media.MediaResource{}}
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, publicapi.ErrorResponse{Error: message})
}
