package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/config"
	"github.com/azan1ud/landlordshield/internal/ical"
	"github.com/azan1ud/landlordshield/internal/model"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, statusCode int, err error) {
	writeJSON(w, statusCode, ErrorResponse{
		Code:    http.StatusText(statusCode),
		Message: err.Error(),
	})
}

// writeAppError maps application errors to status codes.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, common.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.metrics.RecordStorageError(operation)
		s.logger.ErrorContext(r.Context(), "request failed", "operation", operation, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCalendar serves the owner's full feed, or the regulatory dates alone
// with ?scope=calendar.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	now := s.clock()

	var deadlines []model.Deadline
	if r.URL.Query().Get("scope") == "calendar" {
		deadlines = s.engine.CalendarDeadlines(now)
	} else {
		var err error
		deadlines, err = s.engine.Deadlines(r.Context(), s.config.OwnerID, now, s.config.Income)
		if err != nil {
			s.writeAppError(w, r, "deadlines", err)
			return
		}
	}
	s.metrics.RecordFeed("ics", deadlines)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="landlordshield.ics"`)
	if err := ical.Write(w, s.config.CalendarName, deadlines, now); err != nil {
		s.logger.WarnContext(r.Context(), "failed to write calendar", "error", err)
	}
}

type deadlinesResponse struct {
	Deadlines []model.Deadline `json:"deadlines"`
	Count     int              `json:"count"`
}

// handleDeadlines serves the JSON feed. ?limit=N returns the next N deadlines,
// ?all=true the full feed; the default limit comes from configuration.
func (s *Server) handleDeadlines(w http.ResponseWriter, r *http.Request) {
	now := s.clock()
	q := r.URL.Query()

	if q.Get("all") == "true" {
		deadlines, err := s.engine.Deadlines(r.Context(), s.config.OwnerID, now, s.config.Income)
		if err != nil {
			s.writeAppError(w, r, "deadlines", err)
			return
		}
		s.metrics.RecordFeed("json", deadlines)
		writeJSON(w, http.StatusOK, deadlinesResponse{Deadlines: deadlines, Count: len(deadlines)})
		return
	}

	limit := s.config.UpcomingLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	deadlines, err := s.engine.Upcoming(r.Context(), s.config.OwnerID, now, s.config.Income, limit)
	if err != nil {
		s.writeAppError(w, r, "deadlines", err)
		return
	}
	s.metrics.RecordFeed("json", deadlines)
	writeJSON(w, http.StatusOK, deadlinesResponse{Deadlines: deadlines, Count: len(deadlines)})
}

// handleCompliance serves the account overview, or one property's with ?property=ID.
func (s *Server) handleCompliance(w http.ResponseWriter, r *http.Request) {
	var scope *string
	scopeLabel := "account"
	if id := r.URL.Query().Get("property"); id != "" {
		scope = &id
		scopeLabel = id
	}

	overview, err := s.engine.Compliance(r.Context(), s.config.OwnerID, scope, s.clock())
	if err != nil {
		s.writeAppError(w, r, "compliance", err)
		return
	}
	s.metrics.RecordOverview(scopeLabel, overview)
	writeJSON(w, http.StatusOK, overview)
}

// handleThreshold evaluates income from the query string, falling back to the
// configured income.
func (s *Server) handleThreshold(w http.ResponseWriter, r *http.Request) {
	income, err := incomeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if income == nil {
		income = s.config.Income
	}
	if income == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no income configured: pass gross_a and gross_b"))
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Threshold(income))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.Report(r.Context(), s.config.OwnerID, s.clock(), s.config.Income)
	if err != nil {
		s.writeAppError(w, r, "report", err)
		return
	}
	s.metrics.RecordOverview("account", report.Portfolio.Account)
	s.metrics.RecordFeed("report", report.Deadlines)
	writeJSON(w, http.StatusOK, report)
}

func incomeFromQuery(r *http.Request) (*model.ThresholdInput, error) {
	q := r.URL.Query()
	rawA, rawB := q.Get("gross_a"), q.Get("gross_b")
	if rawA == "" && rawB == "" {
		return nil, nil
	}
	a, err := config.ParseAmount(rawA)
	if err != nil {
		return nil, fmt.Errorf("gross_a: %w", err)
	}
	b, err := config.ParseAmount(rawB)
	if err != nil {
		return nil, fmt.Errorf("gross_b: %w", err)
	}
	joint, _ := strconv.ParseBool(q.Get("joint"))
	shielded, _ := strconv.ParseBool(q.Get("shielded"))
	return &model.ThresholdInput{
		GrossIncomeA:     a,
		GrossIncomeB:     b,
		IsJointOwnership: joint,
		IsIncomeShielded: shielded,
	}, nil
}
