// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "timeclock/pkg/domain-errors"
)

// errorResponse is the JSON error envelope every endpoint shares.
type errorResponse struct {
	Error      string              `json:"error"`
	Message    string              `json:"message,omitempty"`
	Violations []dErrors.Violation `json:"violations,omitempty"`
}

var statusByCode = map[dErrors.Code]int{
	dErrors.CodeValidation:   http.StatusBadRequest,
	dErrors.CodeParse:        http.StatusBadRequest,
	dErrors.CodeBadRequest:   http.StatusBadRequest,
	dErrors.CodeUnauthorized: http.StatusUnauthorized,
	dErrors.CodeForbidden:    http.StatusForbidden,
	dErrors.CodeNotFound:     http.StatusNotFound,
	dErrors.CodeConflict:     http.StatusConflict,
	dErrors.CodeSigning:      http.StatusInternalServerError,
	dErrors.CodeInternal:     http.StatusInternalServerError,
}

// writeError centralizes domain error translation to HTTP responses so every
// handler emits the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
		code = dErrors.CodeInternal
	}

	body := errorResponse{Error: string(code), Violations: dErrors.Load(err)}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		body.Message = domainErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
