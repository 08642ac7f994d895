package dto

import "time"

// Enum fields travel as their symbolic names ("New", "High", ...), parsed
// case-insensitively at the handler before anything reaches the store.

type CreateRequestRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"` // optional, defaults to Normal
}

type UpdateRequestRequest struct {
	Status *string `json:"status"` // nil = не менять
	Notes  *string `json:"notes"`
}

type RequestResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListRequestsResponse struct {
	Items []RequestResponse `json:"items"`
}

// ValidationErrorResponse is the 400 payload: field name -> messages.
type ValidationErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// NotFoundResponse is the 404 payload.
type NotFoundResponse struct {
	Message string `json:"message"`
}
