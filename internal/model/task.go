package model

import (
	"fmt"
	"time"
)

// Priority ranks how urgent a checklist task is.
type Priority string

const (
	// PriorityCritical tasks are always flagged in the deadline feed.
	PriorityCritical Priority = "critical"
	// PriorityHigh tasks should be handled soon.
	PriorityHigh Priority = "high"
	// PriorityMedium is the default priority.
	PriorityMedium Priority = "medium"
	// PriorityLow tasks are nice to have.
	PriorityLow Priority = "low"
)

// ParsePriority returns the priority for s, falling back to medium.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s)
	default:
		return PriorityMedium
	}
}

// Task is a discrete compliance action. A nil PropertyID means the task is account-wide.
type Task struct {
	CreatedAt   time.Time  `json:"createdAt"`
	PropertyID  *string    `json:"propertyId,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Domain      Domain     `json:"domain"`
	Key         string     `json:"key"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	IsCompleted bool       `json:"isCompleted"`
}

// IsAccountWide reports whether the task applies to every property.
func (t Task) IsAccountWide() bool {
	return t.PropertyID == nil
}

// InScope reports whether the task belongs to the given property scope.
// Account-wide tasks are in every scope; a nil scope matches everything.
func (t Task) InScope(propertyID *string) bool {
	if propertyID == nil || t.PropertyID == nil {
		return true
	}
	return *t.PropertyID == *propertyID
}

// Validate ensures the task has the fields storage requires.
func (t *Task) Validate() error {
	if t.OwnerID == "" {
		return fmt.Errorf("owner id is required")
	}
	if t.Key == "" {
		return fmt.Errorf("task key is required")
	}
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if t.IsCompleted && t.CompletedAt == nil {
		return fmt.Errorf("completed task must have a completion time")
	}
	return nil
}
