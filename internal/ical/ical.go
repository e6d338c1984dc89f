// Package ical renders the deadline feed as an iCalendar file: one all-day event per
// deadline with reminders a week and a day ahead.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/azan1ud/landlordshield/internal/model"
)

const (
	// UIDSuffix is appended to every deadline id to form the event UID.
	UIDSuffix = "@landlordshield.app"
	// DefaultCalendarName is used when no name is configured.
	DefaultCalendarName = "LandlordShield Compliance Deadlines"

	prodID = "-//LandlordShield//Compliance Deadlines//EN"
)

// Reminders are the alarm triggers attached to each event, relative to its start.
var Reminders = []string{"-P7D", "-P1D"}

// Write encodes deadlines as a VCALENDAR. now is used for DTSTAMP only.
func Write(w io.Writer, name string, deadlines []model.Deadline, now time.Time) error {
	if err := build(name, deadlines, now).SerializeTo(w, ics.WithNewLineWindows); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

// Render returns the calendar as a string with CRLF line endings.
func Render(name string, deadlines []model.Deadline, now time.Time) string {
	return build(name, deadlines, now).Serialize(ics.WithNewLineWindows)
}

func build(name string, deadlines []model.Deadline, now time.Time) *ics.Calendar {
	if name == "" {
		name = DefaultCalendarName
	}

	cal := ics.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(clean(name))

	for _, d := range deadlines {
		start := time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(), 0, 0, 0, 0, time.UTC)
		title := clean(d.Title)

		event := cal.AddEvent(clean(d.ID) + UIDSuffix)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		event.SetSummary(title)
		if d.Description != "" {
			event.SetDescription(clean(d.Description))
		}
		event.AddCategory(d.Domain.Label())
		if d.IsCritical {
			event.SetPriority(1)
		}
		event.SetTimeTransparency(ics.TransparencyTransparent)
		for _, trigger := range Reminders {
			alarm := event.AddAlarm()
			alarm.SetAction(ics.ActionDisplay)
			alarm.SetDescription("Reminder: " + title)
			alarm.SetTrigger(trigger)
		}
	}
	return cal
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// clean prepares a TEXT value for the encoder, which escapes it on output. Line
// breaks become LF and invalid UTF-8 is replaced so folding always advances.
func clean(s string) string {
	return strings.ToValidUTF8(newlines.Replace(s), "\uFFFD")
}
