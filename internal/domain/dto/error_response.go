package dto

import "time"

// ErrorResponse is the JSON body of every non-2xx API answer.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid zone"`
	ErrorDetails string    `json:"error_details,omitempty" example:"unknown bidding zone"`
	Timestamp    time.Time `json:"timestamp" example:"2024-01-15T12:00:00Z"`
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
