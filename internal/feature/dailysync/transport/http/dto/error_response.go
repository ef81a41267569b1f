// Package dto defines the HTTP payloads of the daily read API.
package dto

// ErrorResponse is the body returned on any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
