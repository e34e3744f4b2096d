package server

import (
	"net/http"
	"strings"

	"github.com/azhaanglitch/smart-accident-detector/internal/cookie"
	jsonwriter "github.com/azhaanglitch/smart-accident-detector/internal/json"
	"github.com/azhaanglitch/smart-accident-detector/internal/log"
	"github.com/azhaanglitch/smart-accident-detector/internal/predict"
	"github.com/azhaanglitch/smart-accident-detector/internal/session"
)

// maxUploadBytes caps the media upload relayed to the prediction backend.
const maxUploadBytes = 32 << 20

// PredictHandlers relays dashboard uploads to the prediction backend.
type PredictHandlers struct {
	client *predict.Client
	codec  session.Codec
}

// NewPredictHandlers creates new prediction handlers
func NewPredictHandlers(client *predict.Client, codec session.Codec) *PredictHandlers {
	return &PredictHandlers{
		client: client,
		codec:  codec,
	}
}

// PredictHandler forwards the uploaded media file and relays the
// backend's JSON verbatim. The response shape is the backend's
// business, not ours.
func (h *PredictHandlers) PredictHandler(w http.ResponseWriter, r *http.Request) {
	if !h.loggedIn(r) {
		jsonwriter.WriteUnauthorized(w, "not logged in")
		return
	}

	if !h.client.Enabled() {
		jsonwriter.WriteServiceUnavailable(w, "prediction backend is not configured")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		jsonwriter.WriteBadRequest(w, "expected a multipart file upload")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	result, err := h.client.Predict(r.Context(), contentType, body)
	if err != nil {
		log.LogErrorWithFields("predict", "Prediction relay failed", map[string]any{
			"error": err.Error(),
		})
		jsonwriter.WriteError(w, http.StatusBadGateway, "bad_gateway", "prediction backend unavailable")
		return
	}

	if result.ContentType != "" {
		w.Header().Set("Content-Type", result.ContentType)
	}
	w.WriteHeader(result.StatusCode)
	if _, err := w.Write(result.Body); err != nil {
		log.LogError("Failed to relay prediction response: %v", err)
	}
}

// loggedIn checks for a decodable session cookie.
func (h *PredictHandlers) loggedIn(r *http.Request) bool {
	value, err := cookie.GetSession(r)
	if err != nil {
		return false
	}
	_, err = h.codec.Decode(value)
	return err == nil
}
