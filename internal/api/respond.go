package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/pmurley/capbot/internal/models"
)

func newRequestID() string { return "req_" + uuid.NewString() }

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ReadJSON decodes the request body into dst, rejecting unknown fields.
func ReadJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return models.Validationf("invalid request body: %v", err)
	}
	return nil
}

// WriteError maps an error to a status from its kind.
func WriteError(w http.ResponseWriter, err error) {
	kind := models.KindOf(err)
	status := statusForKind(kind)
	reason := models.ReasonOf(err)
	if kind == "" {
		reason = err.Error()
	}

	WriteJSON(w, status, map[string]any{
		"request_id": newRequestID(),
		"error": map[string]any{
			"kind":   kind,
			"reason": reason,
		},
	})
}

func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindPrecondition:
		return http.StatusUnprocessableEntity
	case models.KindConflict:
		return http.StatusConflict
	case models.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// statusForResponse picks the status for a commit outcome. The body always
// carries the full response.
func statusForResponse(resp *models.ActionResponse) int {
	switch resp.Status {
	case models.StatusCommitted:
		return http.StatusOK
	case models.StatusConflict:
		return http.StatusConflict
	}
	if resp.ErrorKind != "" {
		return statusForKind(resp.ErrorKind)
	}
	return http.StatusUnprocessableEntity
}
