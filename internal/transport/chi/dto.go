package chi

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeIndexNotFound    ErrorCode = "index_not_found"
	CodeNotConfigured    ErrorCode = "not_configured"
	CodeServiceAuth      ErrorCode = "service_unauthorized"
	CodeServiceError     ErrorCode = "service_error"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchResultItem is one hit.
type SearchResultItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// SearchResponse wraps the ordered hits.
type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
	Count int                `json:"count"`
}

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries the generated answer and its sources.
type AskResponse struct {
	Answer  string             `json:"answer"`
	Sources []SearchResultItem `json:"sources"`
}

// HealthResponse reports component status.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
