package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/playbookforge/pkg/errors"
	"github.com/matzehuels/playbookforge/pkg/store"
)

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Detail    string `json:"detail"`
	ErrorType string `json:"error_type"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail, errorType string) {
	writeJSON(w, status, errorBody{Detail: detail, ErrorType: errorType})
}

// writeError maps err to a status and error body. Errors without a code are
// reported as internal errors and their text is not exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = classify(err)
	code := errors.GetCode(err)
	if code == "" {
		s.deps.Logger.Error("unhandled error", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
		writeDetail(w, http.StatusInternalServerError, "Internal server error", string(errors.ErrCodeInternal))
		return
	}
	status := errors.HTTPStatus(code)
	if status >= 500 {
		s.deps.Logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	}
	writeDetail(w, status, errors.UserMessage(err), string(code))
}

// classify attaches codes to errors from packages that do not use them.
func classify(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return errors.Wrap(errors.ErrCodeInputTooLarge, err, "request body too large (max %d bytes)", tooLarge.Limit)
	case stderrors.Is(err, store.ErrNotFound):
		return errors.Wrap(errors.ErrCodePlaybookNotFound, err, "Playbook not found")
	}
	return err
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body: %v", err)
	}
	return nil
}
