package handler

import (
	"errors"
	"net/http"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// StatusFor resolves the HTTP status for a service error. Errors that
// carry their own status code win over the fallback.
func StatusFor(err error, fallback int) int {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return fallback
}

// Error writes a service error using its carried status code when it
// has one.
func Error(err error) (int, *Response) {
	return StatusFor(err, http.StatusInternalServerError), NewErrorResponse(err.Error())
}
