package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azan1ud/landlordshield/internal/certs"
	"github.com/azan1ud/landlordshield/internal/engine"
	"github.com/azan1ud/landlordshield/internal/metrics"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/regulatory"
	"github.com/azan1ud/landlordshield/internal/testutil"
	"github.com/azan1ud/landlordshield/internal/testutil/portfolio"
)

const owner = "owner-1"

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	server   *Server
	db       *testutil.TestDB
	property *model.Property
	task     *model.Task
}

func newTestServer(t *testing.T, income *model.ThresholdInput) *testEnv {
	t.Helper()

	db := testutil.SetupTestDBWithBuilder(t, owner, func(b portfolio.Builder) portfolio.Builder {
		return b.WithFixture(portfolio.FixtureSingleLet)
	})

	eng := engine.New(db.Storage, regulatory.MustDefault())
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	srv := New(Config{OwnerID: owner, UpcomingLimit: 5, Income: income}, eng, m, func() time.Time { return fixedNow }, nil)

	return &testEnv{
		server:   srv,
		db:       db,
		property: db.MustProperty(portfolio.RefAlpha),
		task:     db.MustTask("deposit-protection"),
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	env := newTestServer(t, nil)
	rec := get(t, env.server.Handler(), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCalendarFeed(t *testing.T) {
	env := newTestServer(t, nil)

	t.Run("full feed includes user tasks", func(t *testing.T) {
		rec := get(t, env.server.Handler(), "/calendar.ics")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))

		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR\r\n"))
		assert.Contains(t, body, "UID:task-"+env.task.ID+"@landlordshield.app")
		assert.Contains(t, body, "DTSTART;VALUE=DATE:20260401")
	})

	t.Run("calendar scope has regulatory dates only", func(t *testing.T) {
		rec := get(t, env.server.Handler(), "/calendar.ics?scope=calendar")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "task-"+env.task.ID)
		assert.Contains(t, rec.Body.String(), "BEGIN:VEVENT")
	})
}

func TestDeadlines(t *testing.T) {
	env := newTestServer(t, nil)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCount  int
	}{
		{name: "default limit", target: "/api/deadlines", wantStatus: http.StatusOK, wantCount: 5},
		{name: "explicit limit", target: "/api/deadlines?limit=2", wantStatus: http.StatusOK, wantCount: 2},
		{name: "zero limit", target: "/api/deadlines?limit=0", wantStatus: http.StatusOK, wantCount: 0},
		{name: "bad limit", target: "/api/deadlines?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "negative limit", target: "/api/deadlines?limit=-1", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, env.server.Handler(), tt.target)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp deadlinesResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCount, resp.Count)
			assert.Len(t, resp.Deadlines, tt.wantCount)
		})
	}

	t.Run("all", func(t *testing.T) {
		rec := get(t, env.server.Handler(), "/api/deadlines?all=true")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp deadlinesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Greater(t, resp.Count, 5)
	})
}

func TestCompliance(t *testing.T) {
	env := newTestServer(t, nil)

	rec := get(t, env.server.Handler(), "/api/compliance?property="+env.property.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var overview model.ComplianceOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	status := overview.PerDomain[model.DomainTenancyRights]
	assert.Equal(t, 1, status.TotalCount)
	assert.Equal(t, model.StatusNotReady, status.Status)
	require.NotNil(t, status.DaysUntilDeadline)
	assert.Equal(t, 31, *status.DaysUntilDeadline)

	// The completed account-wide tax task counts for every property.
	tax := overview.PerDomain[model.DomainTax]
	assert.Equal(t, 100, tax.Score)
	assert.Nil(t, tax.NextDeadline)

	missing := get(t, env.server.Handler(), "/api/compliance?property=unknown")
	assert.Equal(t, http.StatusNotFound, missing.Code)

	other := &model.Property{OwnerID: "owner-2", Address: "9 Other Lane"}
	require.NoError(t, env.db.Storage.CreateProperty(context.Background(), other))
	foreign := get(t, env.server.Handler(), "/api/compliance?property="+other.ID)
	assert.Equal(t, http.StatusNotFound, foreign.Code)
}

func TestThreshold(t *testing.T) {
	t.Run("query income", func(t *testing.T) {
		env := newTestServer(t, nil)
		rec := get(t, env.server.Handler(), "/api/threshold?gross_a=60000&joint=true&gross_b=1000")
		require.Equal(t, http.StatusOK, rec.Code)

		var status model.ThresholdStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.True(t, status.QualifyingIncome.Equal(decimal.NewFromInt(31000)))
		assert.True(t, status.IsAffected)
	})

	t.Run("configured income", func(t *testing.T) {
		env := newTestServer(t, &model.ThresholdInput{GrossIncomeA: decimal.NewFromInt(5000)})
		rec := get(t, env.server.Handler(), "/api/threshold")
		require.Equal(t, http.StatusOK, rec.Code)

		var status model.ThresholdStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.False(t, status.IsAffected)
		assert.Equal(t, model.PhaseNotRequired, status.Phase)
	})

	t.Run("no income", func(t *testing.T) {
		env := newTestServer(t, nil)
		assert.Equal(t, http.StatusBadRequest, get(t, env.server.Handler(), "/api/threshold").Code)
	})

	t.Run("invalid amount", func(t *testing.T) {
		env := newTestServer(t, nil)
		assert.Equal(t, http.StatusBadRequest, get(t, env.server.Handler(), "/api/threshold?gross_a=lots").Code)
	})
}

func TestReport(t *testing.T) {
	env := newTestServer(t, nil)
	rec := get(t, env.server.Handler(), "/api/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "portfolio")
	assert.Contains(t, body, "deadlines")
	assert.NotContains(t, body, "threshold")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestServer(t, nil)
	h := env.server.Handler()

	get(t, h, "/calendar.ics")
	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `shield_http_requests_total{method="GET",route="/calendar.ics",status_code="200"} 1`)
	assert.Contains(t, string(body), `shield_deadlines_served_total{feed="ics"}`)
}

func TestRun_StopsOnCancel(t *testing.T) {
	env := newTestServer(t, nil)
	env.server.srv.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.server.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type failingCerts struct{}

func (failingCerts) GetOrCreateCertificate() (tls.Certificate, error) {
	return tls.Certificate{}, errors.New("no certificate")
}

func TestRun_TLS(t *testing.T) {
	t.Run("serves until cancelled", func(t *testing.T) {
		env := newTestServer(t, nil)
		env.server.config.TLS = certs.NewFileManager(t.TempDir())
		env.server.srv.Addr = "127.0.0.1:0"

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- env.server.Run(ctx) }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return after cancel")
		}
		assert.NotNil(t, env.server.srv.TLSConfig)
	})

	t.Run("certificate failure", func(t *testing.T) {
		env := newTestServer(t, nil)
		env.server.config.TLS = failingCerts{}

		err := env.server.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no certificate")
	})
}
