package domain

import "strings"

// Status is the lifecycle stage of a request. Stored by symbolic name, never
// as a numeric code.
type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "InProgress"
	StatusDone       Status = "Done"
	StatusCancelled  Status = "Cancelled"
)

// Priority is fixed at creation and never changed afterwards.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new":
		return StatusNew, true
	case "inprogress":
		return StatusInProgress, true
	case "done":
		return StatusDone, true
	case "cancelled":
		return StatusCancelled, true
	}
	return "", false
}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, true
	case "normal":
		return PriorityNormal, true
	case "high":
		return PriorityHigh, true
	}
	return "", false
}

// IsValidTransition reports whether a status change from -> to is legal.
//
// New is the only initial state; Done and Cancelled are terminal. A same-state
// "transition" means "no change requested" and is always allowed, terminal
// states included.
//
//	New        -> InProgress | Cancelled
//	InProgress -> Done | Cancelled
//	Done       -> (none)
//	Cancelled  -> (none)
func IsValidTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusNew:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusDone || to == StatusCancelled
	default:
		return false
	}
}
