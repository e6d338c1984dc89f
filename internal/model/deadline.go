package model

import "time"

// Deadline is one entry of the canonical compliance feed.
// IsOverdue and IsCritical are derived when the deadline is built and never stored.
type Deadline struct {
	Date        time.Time `json:"date"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Domain      Domain    `json:"domain"`
	Description string    `json:"description,omitempty"`
	SourceRef   string    `json:"sourceRef,omitempty"`
	IsOverdue   bool      `json:"isOverdue"`
	IsCritical  bool      `json:"isCritical"`
}
