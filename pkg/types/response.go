package types

// Envelope wraps every successful response body.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// Problem is the caller-facing part of a failed request.
type Problem struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ProblemEnvelope wraps every failed response body.
type ProblemEnvelope struct {
	Error Problem `json:"error"`
}
