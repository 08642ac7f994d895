package store

import (
	"context"
	"fmt"

	dom "github.com/Mahran1998/opsflow/internal/domain"
)

// CreateInput is the payload for RequestStore.Create. Priority must already be
// a parsed domain value; the transport edge rejects unknown names before the
// store is reached.
type CreateInput struct {
	Title       string
	Description *string
	Priority    dom.Priority
}

// UpdateInput is a partial update: nil means "leave unchanged", not "clear".
type UpdateInput struct {
	Status *dom.Status
	Notes  *string
}

// ListFilter narrows List results. Status is an exact match; Query is a
// case-insensitive substring match over title and description.
type ListFilter struct {
	Status *dom.Status
	Query  string
}

// RequestStore owns persistence and identifier assignment for requests.
// Both implementations run the same domain validation before any mutation, so
// a failed call never leaves a partial write.
type RequestStore interface {
	Create(ctx context.Context, in CreateInput) (dom.Request, error)
	GetByID(ctx context.Context, id int64) (dom.Request, error)
	List(ctx context.Context, f ListFilter) ([]dom.Request, error)
	Update(ctx context.Context, id int64, in UpdateInput) (dom.Request, error)
}

// ValidationError carries the field-error mapping for a rejected payload.
type ValidationError struct {
	Fields dom.FieldErrors
}

func (e *ValidationError) Error() string { return "validation failed" }

// NotFoundError signals that no request exists with the given id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("Request %d not found.", e.ID) }
