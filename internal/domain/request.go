package domain

import "time"

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type Request struct {
	ID          int64
	Title       string
	Description *string
	Status      Status
	Priority    Priority
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
