// Package deadline turns tasks, certificates and regulatory calendar entries into one
// classified, date-ordered deadline feed.
package deadline

import (
	"fmt"
	"strings"
	"time"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/regulatory"
)

// FromTask builds a deadline for an outstanding task with a due date.
// Completed tasks and tasks without a due date produce nothing.
func FromTask(task model.Task, now time.Time) (model.Deadline, bool) {
	if task.IsCompleted || task.DueDate == nil || task.DueDate.IsZero() || task.ID == "" {
		return model.Deadline{}, false
	}

	date := dateOnly(*task.DueDate)
	return model.Deadline{
		ID:          "task-" + task.ID,
		Title:       task.Title,
		Date:        date,
		Domain:      normalizeDomain(task.Domain),
		Description: task.Description,
		SourceRef:   "task:" + task.ID,
		IsOverdue:   isOverdue(date, now),
		IsCritical:  task.Priority == model.PriorityCritical,
	}, true
}

// FromCertificate builds a deadline for a certificate expiry.
// address is the display address of the certificate's property and may be empty.
func FromCertificate(cert model.Certificate, address string, now time.Time) (model.Deadline, bool) {
	if cert.ExpiryDate == nil || cert.ExpiryDate.IsZero() || cert.ID == "" {
		return model.Deadline{}, false
	}

	title := cert.KindName() + " expiry"
	if address != "" {
		title += ": " + address
	}

	date := dateOnly(*cert.ExpiryDate)
	return model.Deadline{
		ID:          "cert-" + cert.ID,
		Title:       title,
		Date:        date,
		Domain:      model.DomainCertificate,
		Description: fmt.Sprintf("%s is %s.", cert.KindName(), strings.ReplaceAll(string(cert.Status), "_", " ")),
		SourceRef:   "certificate:" + cert.ID,
		IsOverdue:   isOverdue(date, now),
		IsCritical:  cert.Status == model.CertificateExpired,
	}, true
}

// FromCalendarEntry builds a deadline for an account-wide statutory date.
// Entries are included regardless of task completion; an unparsable date drops the entry.
func FromCalendarEntry(entry regulatory.Entry, now time.Time) (model.Deadline, bool) {
	if entry.ID == "" {
		return model.Deadline{}, false
	}
	date, ok := parseDate(entry.Date)
	if !ok {
		return model.Deadline{}, false
	}

	return model.Deadline{
		ID:          entry.ID,
		Title:       entry.Title,
		Date:        date,
		Domain:      model.ParseDomain(entry.Domain),
		Description: entry.Description,
		SourceRef:   entry.Source,
		IsOverdue:   isOverdue(date, now),
		IsCritical:  model.Severity(entry.Severity) == model.SeverityCritical,
	}, true
}

func normalizeDomain(d model.Domain) model.Domain {
	return model.ParseDomain(string(d))
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(regulatory.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return dateOnly(t), true
	}
	return time.Time{}, false
}

// dateOnly keeps the calendar date of t as midnight UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isOverdue compares calendar dates only: a deadline due today is not overdue.
func isOverdue(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}
