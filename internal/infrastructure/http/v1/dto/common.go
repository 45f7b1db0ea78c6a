// Package dto defines request and response shapes for the v1 API.
package dto

// IDResponse is returned by create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic operation acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// AffectedResponse reports how many records a batch operation touched.
type AffectedResponse struct {
	Affected int `json:"affected"`
}
