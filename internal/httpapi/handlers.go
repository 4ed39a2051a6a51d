package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Adityahash12/agent-api-adapter/internal/adapter"
	"github.com/Adityahash12/agent-api-adapter/internal/apperr"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

const kindPayloadTooLarge = "PayloadTooLarge"

func (h *handlers) generate(w http.ResponseWriter, r *http.Request) {
	var req adapter.GenerateRequest
	if !h.decode(w, r, &req) {
		return
	}

	if v := r.URL.Query().Get("explain"); v != "" {
		explain, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, apperr.InvalidArgumentf("explain: expected a boolean, got %q", v))
			return
		}

		req.Explain = req.Explain || explain
	}

	resp, err := h.svc.GenerateMapping(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) transform(w http.ResponseWriter, r *http.Request) {
	var req adapter.TransformRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.svc.TransformAndValidate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// decode reads a bounded JSON body into dst, writing the error response
// itself on failure.
func (h *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
				Kind:  kindPayloadTooLarge,
			})

			return false
		}

		writeError(w, apperr.InvalidArgumentf("failed to read request body: %v", err))

		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, apperr.InvalidArgumentf("invalid JSON body: %v", err))
		return false
	}

	return true
}

func statusFor(err error) int {
	switch {
	case apperr.IsInvalidArgument(err):
		return http.StatusBadRequest
	case apperr.IsSchemaConfiguration(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}

	writeJSON(w, status, ErrorResponse{Error: msg, Kind: apperr.Kind(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
