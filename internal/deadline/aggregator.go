package deadline

import (
	"log/slog"
	"sort"
	"time"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/regulatory"
)

// Sources are the user-specific records merged with the regulatory calendar.
type Sources struct {
	// Threshold, when set and Options.FilterByThreshold is on, limits which
	// calendar tax dates are shown.
	Threshold    *model.ThresholdStatus
	Properties   []model.Property
	Certificates []model.Certificate
	Tasks        []model.Task
}

// Options tunes aggregation.
type Options struct {
	FilterByThreshold bool
}

// Aggregator merges every deadline source into one sorted feed.
// It holds only read-only data and is safe for concurrent use.
type Aggregator struct {
	entries []regulatory.Entry
	opts    Options
}

// NewAggregator creates an aggregator over the given regulatory calendar.
func NewAggregator(cal *regulatory.Calendar, opts Options) *Aggregator {
	var entries []regulatory.Entry
	if cal != nil {
		entries = cal.Entries()
	}
	return &Aggregator{entries: entries, opts: opts}
}

// ListAll returns every deadline sorted ascending by date.
// With nil sources only the account-wide calendar deadlines are returned.
func (a *Aggregator) ListAll(now time.Time, sources *Sources) []model.Deadline {
	var threshold *model.ThresholdStatus
	if sources != nil {
		threshold = sources.Threshold
	}

	b := newBuilder()
	for _, entry := range a.entries {
		if a.opts.FilterByThreshold && !taxEntryApplies(entry, threshold) {
			continue
		}
		b.add(FromCalendarEntry(entry, now))
	}

	if sources != nil {
		addresses := make(map[string]string, len(sources.Properties))
		for _, p := range sources.Properties {
			addresses[p.ID] = p.DisplayAddress()
		}
		for _, cert := range sources.Certificates {
			b.add(FromCertificate(cert, addresses[cert.PropertyID], now))
		}
		for _, task := range sources.Tasks {
			b.add(FromTask(task, now))
		}
	}

	return b.sorted()
}

// ListUpcoming merges all sources and returns the first limit deadlines.
// Overdue deadlines come first because they carry the earliest dates.
func (a *Aggregator) ListUpcoming(now time.Time, sources Sources, limit int) []model.Deadline {
	if limit <= 0 {
		return []model.Deadline{}
	}
	all := a.ListAll(now, &sources)
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// taxEntryApplies reports whether a calendar entry should be shown for the given
// threshold result. Non-tax entries and a missing threshold always apply.
func taxEntryApplies(entry regulatory.Entry, threshold *model.ThresholdStatus) bool {
	if threshold == nil || model.ParseDomain(entry.Domain) != model.DomainTax {
		return true
	}
	if !threshold.IsAffected {
		return false
	}
	if threshold.EffectiveDate == nil {
		return true
	}
	date, ok := parseDate(entry.Date)
	if !ok {
		return true
	}
	return !date.Before(dateOnly(*threshold.EffectiveDate))
}

type builder struct {
	seen      map[string]bool
	deadlines []model.Deadline
	skipped   int
	dupes     int
}

func newBuilder() *builder {
	return &builder{seen: make(map[string]bool)}
}

func (b *builder) add(d model.Deadline, ok bool) {
	if !ok || d.Date.IsZero() {
		b.skipped++
		return
	}
	if b.seen[d.ID] {
		b.dupes++
		return
	}
	b.seen[d.ID] = true
	b.deadlines = append(b.deadlines, d)
}

func (b *builder) sorted() []model.Deadline {
	sort.SliceStable(b.deadlines, func(i, j int) bool {
		return b.deadlines[i].Date.Before(b.deadlines[j].Date)
	})
	if b.skipped > 0 || b.dupes > 0 {
		slog.Debug("skipped deadline records",
			"without_deadline", b.skipped,
			"duplicates", b.dupes,
			"kept", len(b.deadlines))
	}
	if b.deadlines == nil {
		return []model.Deadline{}
	}
	return b.deadlines
}
