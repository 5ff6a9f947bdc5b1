package handler

// SetVerifierRequest is the HTTP request body for PUT /verifiers/{principal}.
type SetVerifierRequest struct {
	Enabled bool `json:"enabled"`
}
