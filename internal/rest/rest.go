package rest

// ErrorResponse is the JSON body returned for failed API calls.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
