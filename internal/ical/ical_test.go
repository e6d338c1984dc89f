package ical

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func testDeadlines() []model.Deadline {
	return []model.Deadline{
		{
			ID:          "tax-2026-27-q2",
			Title:       "Quarterly update Q2 2026-27 due",
			Date:        time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC),
			Domain:      model.DomainTax,
			Description: "Submit the update; keep records, receipts\nand invoices",
		},
		{
			ID:         "cert-c1",
			Title:      `Gas Safety Certificate expiry: 12 High St, Leeds`,
			Date:       time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			Domain:     model.DomainCertificate,
			IsCritical: true,
		},
		{
			ID:     "energy-final-compliance",
			Title:  "All tenancies must reach EPC C",
			Date:   time.Date(2030, 10, 1, 0, 0, 0, 0, time.UTC),
			Domain: model.DomainEnergy,
		},
	}
}

func TestRender_EventBlocks(t *testing.T) {
	deadlines := testDeadlines()
	out := Render("", deadlines, testNow)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, len(deadlines), strings.Count(out, "BEGIN:VEVENT\r\n"))
	assert.Equal(t, len(deadlines), strings.Count(out, "END:VEVENT\r\n"))
	assert.Equal(t, 2*len(deadlines), strings.Count(out, "BEGIN:VALARM\r\n"))
	assert.Equal(t, 2*len(deadlines), strings.Count(out, "END:VALARM\r\n"))
	assert.Equal(t, len(deadlines), strings.Count(out, "TRIGGER:-P7D\r\n"))
	assert.Equal(t, len(deadlines), strings.Count(out, "TRIGGER:-P1D\r\n"))
	assert.Contains(t, out, "X-WR-CALNAME:"+DefaultCalendarName)
}

func TestRender_EachEventHasTwoAlarms(t *testing.T) {
	out := Render("Mine", testDeadlines(), testNow)

	events := strings.Split(out, "BEGIN:VEVENT\r\n")[1:]
	require.Len(t, events, 3)
	for _, ev := range events {
		body := ev[:strings.Index(ev, "END:VEVENT")]
		assert.Equal(t, 2, strings.Count(body, "BEGIN:VALARM"))
	}
}

func TestRender_AllDayDates(t *testing.T) {
	out := Render("", testDeadlines(), testNow)

	assert.Contains(t, out, "DTSTART;VALUE=DATE:20261107\r\nDTEND;VALUE=DATE:20261108\r\n")
	// year rollover
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20261231\r\nDTEND;VALUE=DATE:20270101\r\n")
	assert.Contains(t, out, "DTSTAMP:20261016T093000Z\r\n")
}

func TestRender_UIDs(t *testing.T) {
	out := Render("", testDeadlines(), testNow)

	for _, d := range testDeadlines() {
		assert.Contains(t, out, "UID:"+d.ID+"@landlordshield.app\r\n")
	}
	assert.Contains(t, out, "PRIORITY:1\r\n")
	assert.Equal(t, 1, strings.Count(out, "PRIORITY:1"))
}

func TestRender_EscapesSummary(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`back\slash`, `back\\slash`},
		{"a;b", `a\;b`},
		{"a,b", `a\,b`},
		{"line1\nline2", `line1\nline2`},
		{"line1\r\nline2", `line1\nline2`},
		{"line1\rline2", `line1\nline2`},
		{`all\;,` + "\n", `all\\\;\,\n`},
	}
	for _, tt := range tests {
		d := model.Deadline{ID: "task-1", Title: tt.in, Date: testNow, Domain: model.DomainCustom}
		out := Render("", []model.Deadline{d}, testNow)
		assert.Contains(t, out, "SUMMARY:"+tt.want+"\r\n", "input %q", tt.in)
	}
}

func TestRender_EscapesFields(t *testing.T) {
	out := Render("", testDeadlines(), testNow)

	assert.Contains(t, out, `SUMMARY:Gas Safety Certificate expiry: 12 High St\, Leeds`)
	assert.Contains(t, out, `DESCRIPTION:Submit the update\; keep records\, receipts\nand invoices`)
}

func unfold(s string) string {
	return strings.ReplaceAll(s, "\r\n ", "")
}

func TestRender_FoldsLongLines(t *testing.T) {
	tests := []struct {
		name  string
		title string
	}{
		{name: "words", title: strings.Repeat("Renew the gas safety certificate ", 8)},
		{name: "no spaces", title: strings.Repeat("x", 200)},
		{name: "multibyte", title: strings.Repeat("£", 90)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := model.Deadline{ID: "task-1", Title: tt.title, Date: testNow, Domain: model.DomainTax}
			out := Render("", []model.Deadline{d}, testNow)

			for _, l := range strings.Split(out, "\r\n") {
				assert.LessOrEqual(t, len(l), 75)
				assert.True(t, utf8.ValidString(l), "line split inside a character: %q", l)
			}
			assert.Contains(t, unfold(out), "SUMMARY:"+tt.title+"\r\n")
		})
	}
}

func TestRender_InvalidUTF8Title(t *testing.T) {
	deadlines := []model.Deadline{
		{ID: "task-1", Title: strings.Repeat("\x80", 100), Date: testNow, Domain: model.DomainTax},
		{ID: "task-2", Title: strings.Repeat("ok \xff\xfe ", 30), Date: testNow, Domain: model.DomainTax},
	}

	done := make(chan string, 1)
	go func() { done <- Render("", deadlines, testNow) }()

	var out string
	select {
	case out = <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Render did not return for an invalid UTF-8 title")
	}

	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT\r\n"))
	assert.Contains(t, out, "SUMMARY:\uFFFD\r\n")
	for _, l := range strings.Split(out, "\r\n") {
		assert.LessOrEqual(t, len(l), 75)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "", nil, testNow))

	out := buf.String()
	assert.Zero(t, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "END:VCALENDAR\r\n")
}
