package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// Normalizable request types get a chance to canonicalize fields (trim,
// lowercase) before validation runs.
type Normalizable interface {
	Normalize()
}

// Validatable request types reject malformed payloads before the handler
// touches the service layer. Validate should return a domain error so the
// response carries a stable code.
type Validatable interface {
	Validate() error
}

// DecodeJSON reads the request body into T. On a malformed body it writes a
// bad-request response and reports false; the handler should just return.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	ctx := r.Context()

	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	return &req, true
}

// DecodeAndPrepare decodes the body, then runs Normalize and Validate when the
// request type implements them. Validation failures are written out here so
// handlers only see requests that passed the gate.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger)
	if !ok {
		return nil, false
	}
	if n, ok := any(req).(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := any(req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			WriteError(w, err)
			return nil, false
		}
	}
	return req, true
}
