package chi

// ErrorResponseCode is the machine-readable error code of an API error.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeEmptyQuery       ErrorResponseCode = "empty_query"
	ErrorResponseCodeInvalidK         ErrorResponseCode = "invalid_k"
	ErrorResponseCodePatentNotFound   ErrorResponseCode = "patent_not_found"
	ErrorResponseCodeNotReady         ErrorResponseCode = "not_ready"
	ErrorResponseCodeModelUnavailable ErrorResponseCode = "model_unavailable"
	ErrorResponseCodeCorpusInvalid    ErrorResponseCode = "corpus_invalid"
	ErrorResponseCodeQueryFailed      ErrorResponseCode = "query_failed"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchRequest is the POST /v1/search body.
type SearchRequest struct {
	Query string `json:"query"`
	K     *int   `json:"k,omitempty"`
}

// SearchPatentsParams are the query parameters of /v1/search.
type SearchPatentsParams struct {
	// Q is the query text for GET requests.
	Q *string
	// K overrides the result count; a body value wins over it.
	K *int
}

// PatentID is the publication number path parameter.
type PatentID = string

// PatentCard is one ranked search hit.
type PatentCard struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	ImageURL   string  `json:"image_url"`
	Score      float64 `json:"score"`
	Similarity string  `json:"similarity"`
}

// SearchResponse lists ranked patents, best first.
type SearchResponse struct {
	Query   string       `json:"query"`
	K       int          `json:"k"`
	Results []PatentCard `json:"results"`
	Message string       `json:"message,omitempty"`
}

// PatentDetail is the full view of a single patent.
type PatentDetail struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	ImageURL string `json:"image_url"`
}

// HealthResponse aggregates component checks.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
