package constants

// APIResponse is the uniform envelope returned by every handler.
// Field order is fixed: success, statusCode, message, data.
type APIResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

// BuildSuccessResponse builds a success envelope with an optional payload.
func BuildSuccessResponse(statusCode int, message string, data any) APIResponse {
	return APIResponse{
		Success:    true,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	}
}

// BuildErrorResponse builds an error envelope. Errors never carry data.
func BuildErrorResponse(statusCode int, message string) APIResponse {
	return APIResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
	}
}
