package tui

import (
	"time"

	"github.com/azan1ud/landlordshield/internal/service"
)

// reportLoadedMsg carries a freshly built report, or the error that stopped it.
type reportLoadedMsg struct {
	report *service.Report
	err    error
	now    time.Time
}
